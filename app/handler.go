package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

// serviceErrorResponse maps the shared service error taxonomy; handlers call
// it for errors they have no special case for.
func (app *application) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr common.ValidationError

	switch {
	case errors.Is(err, common.ErrRecordNotFound):
		app.notFoundErrorResponse(w, r)
	case errors.Is(err, common.ErrEditConflict):
		app.editConflictErrorResponse(w, r)
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) registerHandler(w http.ResponseWriter, r *http.Request) {
	var input registerRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.Register(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrDuplicateEmail):
			app.failedValidationErrorResponse(w, r, map[string]string{"email": "a user with this email address already exists"})
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"success": true, "user": user, "token": token.Plain}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		case errors.Is(err, userservice.ErrAccountDeactivated):
			app.accountDeactivatedErrorResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": user, "token": token.Plain}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getMeHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var input updateProfileRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	user, err := app.userService.UpdateProfile(r.Context(), caller.ID, input.Name, input.Bio, input.Avatar)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) getUserProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	profile, err := app.userService.Profile(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "user": profile}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := app.readPageParams(r, 6)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	authorID, err := app.readIntQuery(r, "author", 0)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filters := blogservice.Filters{
		Category: app.readStringQuery(r, "category", ""),
		Search:   app.readStringQuery(r, "search", ""),
		Tags:     splitCSVQuery(app.readStringQuery(r, "tags", "")),
		AuthorID: authorID,
		Sort:     app.readStringQuery(r, "sortBy", ""),
		Page:     page,
		PageSize: limit,
	}

	blogs, total, err := app.blogService.List(r.Context(), filters)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"success":     true,
		"blogs":       blogs,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	}
	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

// getBlogHandler also serves GET /api/blogs/my-blogs, which the router
// cannot register alongside the :id wildcard.
func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	if params.ByName("id") == "my-blogs" {
		app.requireAuthUser(app.myBlogsHandler)(w, r)
		return
	}

	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	blog, err := app.blogService.Get(r.Context(), id, caller.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) myBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := app.readPageParams(r, 10)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	blogs, total, err := app.blogService.ListMine(r.Context(), caller.ID, page, limit)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"success":     true,
		"blogs":       blogs,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	}
	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreateBlogInput

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	blog, err := app.blogService.Create(r.Context(), caller.ID, input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"success": true, "blog": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input blogservice.UpdateBlogInput
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	blog, err := app.blogService.Get(r.Context(), id, 0)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}
	if !caller.CanMutate(blog.Author.ID) {
		app.notPermittedErrorResponse(w, r)
		return
	}

	updated, err := app.blogService.Update(r.Context(), id, input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "blog": updated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	blog, err := app.blogService.Get(r.Context(), id, 0)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}
	if !caller.CanMutate(blog.Author.ID) {
		app.notPermittedErrorResponse(w, r)
		return
	}

	err = app.blogService.Delete(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Blog deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) toggleBlogLikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	likes, isLiked, err := app.blogService.ToggleLike(r.Context(), id, caller.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "likes": likes, "isLiked": isLiked}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) incrementViewsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	views, err := app.blogService.IncrementViews(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "views": views}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) listCommentsHandler(w http.ResponseWriter, r *http.Request) {
	blogID, err := app.readIDParam(r, "blogId")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	comments, err := app.commentService.ListByBlog(r.Context(), blogID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "comments": comments}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type createCommentRequest struct {
	BlogID  int    `json:"blog"`
	Content string `json:"content"`
}

func (app *application) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input createCommentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	comment, err := app.commentService.Create(r.Context(), input.BlogID, caller.ID, input.Content)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"success": true, "comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

type commentContentRequest struct {
	Content string `json:"content"`
}

func (app *application) updateCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input commentContentRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	comment, err := app.commentService.Get(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}
	if !caller.CanMutate(comment.Author.ID) {
		app.notPermittedErrorResponse(w, r)
		return
	}

	updated, err := app.commentService.Update(r.Context(), id, input.Content)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "comment": updated}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	comment, err := app.commentService.Get(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}
	if !caller.CanMutate(comment.Author.ID) {
		app.notPermittedErrorResponse(w, r)
		return
	}

	err = app.commentService.Delete(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Comment deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) toggleCommentLikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	likes, isLiked, err := app.commentService.ToggleLike(r.Context(), id, caller.ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "likes": likes, "isLiked": isLiked}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) replyCommentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input commentContentRequest
	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	caller := app.getUserContext(r)

	comment, err := app.commentService.Reply(r.Context(), id, caller.ID, input.Content)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"success": true, "comment": comment}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.adminService.Stats(r.Context())
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) adminListBlogsHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := app.readPageParams(r, 10)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	search := app.readStringQuery(r, "search", "")

	blogs, total, err := app.adminService.ListBlogs(r.Context(), search, page, limit)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"success":     true,
		"blogs":       blogs,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	}
	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := app.readPageParams(r, 10)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	search := app.readStringQuery(r, "search", "")

	users, total, err := app.adminService.ListUsers(r.Context(), search, page, limit)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	env := envelope{
		"success":     true,
		"users":       users,
		"total":       total,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	}
	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) adminDeleteBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.adminService.DeleteBlog(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Blog deleted successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func (app *application) adminToggleUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.adminService.ToggleUserStatus(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"success": true, "message": message, "user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}

func splitCSVQuery(csv string) []string {
	if csv == "" {
		return nil
	}

	values := []string{}
	for _, value := range strings.Split(csv, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}
