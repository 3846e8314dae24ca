package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/inkwell/internal/adminservice"
	"github.com/sushihentaime/inkwell/internal/blogservice"
	"github.com/sushihentaime/inkwell/internal/commentservice"
	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/mediaservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

type application struct {
	config         *Config
	logger         *slog.Logger
	userService    *userservice.UserService
	blogService    *blogservice.BlogService
	commentService *commentservice.CommentService
	adminService   *adminservice.AdminService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	media, err := mediaStore(cfg, logger)
	if err != nil {
		logger.Error("failed to set up the media store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	userService := userservice.NewUserService(db, cache)
	commentService := commentservice.NewCommentService(db)
	blogService := blogservice.NewBlogService(db, commentService, media, logger)

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userService,
		blogService:    blogService,
		commentService: commentService,
		adminService:   adminservice.NewAdminService(db, blogService, userService),
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func mediaStore(cfg *Config, logger *slog.Logger) (mediaservice.Store, error) {
	return mediaservice.NewCOSStore(cfg.COS.BucketURL, cfg.COS.SecretID, cfg.COS.SecretKey, logger)
}
