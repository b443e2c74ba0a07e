package main

import (
	"book-review-api/config"
	_ "book-review-api/docs"
	"book-review-api/internal/handler"
	"book-review-api/internal/notifier"
	"book-review-api/internal/repository"
	"book-review-api/internal/security"
	"book-review-api/internal/service"
	"context"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Book Review API
// @version 1.0
// @description REST API для каталога книг с отзывами, тегами и обложками

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	accessTTL, err := time.ParseDuration(cfg.JWT.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Некорректный access_token_ttl: %v", err)
	}
	urlTTL, err := time.ParseDuration(cfg.S3Config.URLTTL)
	if err != nil {
		log.Fatalf("Некорректный url_ttl: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tagRepo := repository.NewTagRepository(db)
	blocklistRepo := repository.NewBlocklistRepository(redisClient, accessTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	jwtService := security.NewJWTService(&cfg.JWT)
	verifyCodec := security.NewLinkTokenCodec(cfg.JWT.SecretKey, security.PurposeEmailConfirmation)
	resetCodec := security.NewLinkTokenCodec(cfg.JWT.SecretKey, security.PurposePasswordReset)

	mailQueue := notifier.NewMailQueue(redisClient, &cfg.Mail)
	go mailQueue.RunWorker(ctx)

	authService := service.NewAuthenticationService(userRepo, jwtService, blocklistRepo, mailQueue, verifyCodec, resetCodec, cfg)
	userService := service.NewUserService(userRepo, bookRepo)
	bookService := service.NewBookService(bookRepo, reviewRepo, tagRepo, s3Service, urlTTL)
	reviewService := service.NewReviewService(reviewRepo, bookRepo)
	tagService := service.NewTagService(tagRepo, bookRepo)

	authHandler := handler.NewAuthenticationHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	tagHandler := handler.NewTagHandler(tagService)

	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, blocklistRepo)
	setupUserRoutes(router, userHandler, jwtService, blocklistRepo, userRepo)
	setupBookRoutes(router, bookHandler, reviewHandler, tagHandler, jwtService, blocklistRepo, userRepo)
	setupTagRoutes(router, tagHandler, jwtService, blocklistRepo, userRepo)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, blocklist *repository.BlocklistRepository) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/signup", h.Signup)
			r.Get("/verify/{token}", h.VerifyEmail)
			r.Post("/password-reset", h.RequestPasswordReset)
			r.Post("/password-reset/{token}", h.ConfirmPasswordReset)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(security.RefreshToken, jwtService, blocklist))
			r.Get("/refresh", h.RefreshToken)
		})
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware(security.AccessToken, jwtService, blocklist))
			r.Get("/logout", h.Logout)
		})
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, jwtService *security.JWTService, blocklist *repository.BlocklistRepository, userRepo *repository.UserRepository) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(security.JWTMiddleware(security.AccessToken, jwtService, blocklist))
		r.Use(security.RequireRoles(userRepo, "admin", "user"))
		r.Get("/me", h.Me)
	})
}

func setupBookRoutes(r chi.Router, bookHandler *handler.BookHandler, reviewHandler *handler.ReviewHandler, tagHandler *handler.TagHandler, jwtService *security.JWTService, blocklist *repository.BlocklistRepository, userRepo *repository.UserRepository) {
	r.Route("/api/books", func(r chi.Router) {
		r.Use(security.JWTMiddleware(security.AccessToken, jwtService, blocklist))
		r.Use(security.RequireRoles(userRepo, "admin", "user"))

		r.Get("/", bookHandler.ListBooks)
		r.Post("/", bookHandler.CreateBook)
		r.Get("/my", bookHandler.MyBooks)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Get("/", bookHandler.GetBook)
			r.Put("/", bookHandler.UpdateBook)
			r.Delete("/", bookHandler.DeleteBook)

			r.Get("/cover", bookHandler.CoverDownloadURL)
			r.Put("/cover", bookHandler.CoverUploadURL)

			r.Get("/reviews", reviewHandler.ListBookReviews)
			r.Post("/reviews", reviewHandler.AddReview)

			r.Post("/tags", tagHandler.AttachTag)
		})
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(security.JWTMiddleware(security.AccessToken, jwtService, blocklist))
		r.Use(security.RequireRoles(userRepo, "admin", "user"))
		r.Get("/{uuid}", reviewHandler.GetReview)
		r.Delete("/{uuid}", reviewHandler.DeleteReview)
	})
}

func setupTagRoutes(r chi.Router, h *handler.TagHandler, jwtService *security.JWTService, blocklist *repository.BlocklistRepository, userRepo *repository.UserRepository) {
	r.Route("/api/tags", func(r chi.Router) {
		r.Use(security.JWTMiddleware(security.AccessToken, jwtService, blocklist))

		r.Group(func(r chi.Router) {
			r.Use(security.RequireRoles(userRepo, "admin", "user"))
			r.Get("/", h.ListTags)
		})

		// создание и удаление тегов только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(security.RequireRoles(userRepo, "admin"))
			r.Post("/", h.CreateTag)
			r.Delete("/{uuid}", h.DeleteTag)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
