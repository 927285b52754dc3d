package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/kevinaaaquil/devblog/backend/config"
	"github.com/kevinaaaquil/devblog/backend/handlers"
	"github.com/kevinaaaquil/devblog/backend/middleware"
	"github.com/kevinaaaquil/devblog/backend/service"
	"github.com/kevinaaaquil/devblog/backend/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	cfg.ValidateEnv()

	if err := run(cfg); err != nil {
		log.Println("server:", err)
		os.Exit(1)
	}
}

// run serves until a signal arrives or the listener fails. Either way the
// server and the database connection are shut down before it returns.
func run(cfg *config.Config) error {
	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		return fmt.Errorf("mongodb: %w", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("mongodb indexes: %w", err)
	}

	files, err := newFileStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)
	mailer := service.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromName, cfg.FromEmail)
	uploader := &handlers.Uploader{Files: files, MaxBytes: cfg.FileMaxSize}

	authHandler := &handlers.AuthHandler{
		DB:           db,
		Tokens:       tokens,
		Mailer:       mailer,
		CookieTTL:    cfg.JWTCookieExpire,
		ResetTTL:     cfg.ResetPasswordExpire,
		SecureCookie: cfg.IsProduction(),
		PublicURL:    cfg.PublicURL,
	}
	if err := authHandler.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	routes := &handlers.Routes{
		Auth:     authHandler,
		Blogs:    &handlers.BlogsHandler{DB: db, Photos: uploader},
		Topics:   &handlers.TopicsHandler{DB: db},
		Comments: &handlers.CommentsHandler{DB: db},
		Users:    &handlers.UsersHandler{DB: db, Photos: uploader},
		Uploads:  uploader,
		Protect:  middleware.Protect(tokens, db),
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	routes.Mount(r)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("server running in %s mode on :%s", cfg.Env, cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
	return serveErr
}

func newFileStore(ctx context.Context, cfg *config.Config) (service.FileStore, error) {
	switch cfg.StorageDriver {
	case "s3":
		return service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
	case "minio":
		return service.NewMinIOStore(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL)
	default:
		return service.NewLocalStore(cfg.FileUploadPath)
	}
}
