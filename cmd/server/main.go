package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marma_admin/internal/api"
	"marma_admin/internal/app/service"
	"marma_admin/internal/common/security"
	"marma_admin/internal/domain/repository"
	"marma_admin/internal/platform/config"
	"marma_admin/internal/platform/database"
	"marma_admin/internal/platform/logger"
	"marma_admin/internal/platform/mailer"
	"marma_admin/internal/platform/ratelimit"
	"marma_admin/internal/platform/redisdb"
	"marma_admin/internal/platform/storage"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()

	// 2. Initialize Database
	db, err := database.Connect(ctx, cfg.DBConnStr)
	if err != nil {
		zl.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		zl.Fatal("database migrate failed", zap.Error(err))
	}
	zl.Info("database ready")

	// 3. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	roleRepo := repository.NewPgRoleRepository(db)
	therapistRepo := repository.NewPgTherapistRepository(db)
	bookingRepo := repository.NewPgBookingRepository(db)
	otpRepo := repository.NewPgOTPRepository(db)
	videoRepo := repository.NewPgVideoRepository(db)

	seeder := service.NewSeeder(roleRepo, userRepo, service.AdminSeed{
		Username: cfg.DefaultAdminUsername,
		Email:    cfg.DefaultAdminEmail,
		Password: cfg.DefaultAdminPassword,
		Name:     cfg.DefaultAdminName,
	}, zl)
	if err := seeder.Seed(ctx); err != nil {
		zl.Fatal("seeding failed", zap.Error(err))
	}

	// 4. Initialize Redis (optional)
	var limiter ratelimit.Limiter = ratelimit.NewMemory()
	if cfg.RedisAddr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			zl.Fatal("redis connect failed", zap.Error(err))
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, "marma:ratelimit:")
		zl.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	}

	// 5. File storage and mail
	store, uploadDir, err := newFileStore(ctx, cfg)
	if err != nil {
		zl.Fatal("file storage setup failed", zap.Error(err))
	}
	m := mailer.New(mailer.Options{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		From:     cfg.EmailFrom,
	})
	if _, disabled := m.(mailer.Disabled); disabled {
		zl.Warn("EMAIL_HOST not set, password reset emails are disabled")
	}

	// 6. Initialize Services
	tokens := security.NewTokenIssuer(cfg.JWTKey, cfg.JWTExp)
	svc := api.Services{
		Auth: service.NewAuthService(userRepo, tokens, m, zl, service.AuthConfig{
			ResetTokenTTL: cfg.ResetTokenTTL,
			FrontendURL:   cfg.FrontendURL,
		}),
		Users:     service.NewUserService(userRepo, zl),
		Therapist: service.NewTherapistService(therapistRepo, store, zl),
		Bookings:  service.NewBookingService(bookingRepo, zl),
		OTP:       service.NewOTPService(otpRepo),
		Videos:    service.NewVideoService(videoRepo, store, zl),
		Dashboard: service.NewDashboardService(userRepo, bookingRepo),
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(api.Options{
		Tokens:        tokens,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		UploadDir:     uploadDir,
		TrustProxy:    cfg.TrustedProxy,
		ForgotLimiter: limiter,
		ForgotLimit:   cfg.ForgotPasswordLimit,
		ForgotWindow:  cfg.ForgotPasswordWindow,
	}, svc, zl)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		zl.Info("server starting", zap.String("port", cfg.APIPort), zap.Bool("tls", cfg.TLSEnabled()))
		var err error
		if cfg.TLSEnabled() {
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("could not listen", zap.String("port", cfg.APIPort), zap.Error(err))
		}
	}()

	<-stop

	zl.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
		return
	}
	zl.Info("server stopped gracefully")
}

// newFileStore picks the upload backend. The second result is the directory
// to serve under /uploads/, empty for S3.
func newFileStore(ctx context.Context, cfg *config.Config) (storage.FileStore, string, error) {
	if cfg.UploadBackend == "s3" {
		s3store, err := storage.NewS3(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		return s3store, "", err
	}
	local, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}
