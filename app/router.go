package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/api/health", app.healthCheckHandler)

	// auth
	router.HandlerFunc(http.MethodPost, "/api/auth/register", app.registerHandler)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", app.loginHandler)
	router.HandlerFunc(http.MethodGet, "/api/auth/me", app.requireAuthUser(app.getMeHandler))
	router.HandlerFunc(http.MethodPut, "/api/auth/profile", app.requireAuthUser(app.updateProfileHandler))

	// blogs; GET /api/blogs/my-blogs would conflict with the :id wildcard,
	// so getBlogHandler dispatches it by inspecting the parameter.
	router.HandlerFunc(http.MethodGet, "/api/blogs", app.listBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/api/blogs", app.requireAuthUser(app.createBlogHandler))
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id", app.getBlogHandler)
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id", app.requireAuthUser(app.updateBlogHandler))
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id/like", app.requireAuthUser(app.toggleBlogLikeHandler))
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id/view", app.incrementViewsHandler)

	// comments
	router.HandlerFunc(http.MethodGet, "/api/comments/:blogId", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/api/comments", app.requireAuthUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodPut, "/api/comments/:id", app.requireAuthUser(app.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/api/comments/:id", app.requireAuthUser(app.deleteCommentHandler))
	router.HandlerFunc(http.MethodPut, "/api/comments/:id/like", app.requireAuthUser(app.toggleCommentLikeHandler))
	router.HandlerFunc(http.MethodPost, "/api/comments/:id/reply", app.requireAuthUser(app.replyCommentHandler))

	// public profiles
	router.HandlerFunc(http.MethodGet, "/api/users/:id", app.getUserProfileHandler)

	// moderation
	router.HandlerFunc(http.MethodGet, "/api/admin/stats", app.requireAdmin(app.adminStatsHandler))
	router.HandlerFunc(http.MethodGet, "/api/admin/blogs", app.requireAdmin(app.adminListBlogsHandler))
	router.HandlerFunc(http.MethodGet, "/api/admin/users", app.requireAdmin(app.adminListUsersHandler))
	router.HandlerFunc(http.MethodDelete, "/api/admin/blogs/:id", app.requireAdmin(app.adminDeleteBlogHandler))
	router.HandlerFunc(http.MethodPut, "/api/admin/users/:id/toggle-status", app.requireAdmin(app.adminToggleUserStatusHandler))

	return app.recoverPanic(app.rateLimit(app.logRequest(app.authenticate(router))))
}
