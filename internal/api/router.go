package api

import (
	"net/http"
	"strings"
	"time"

	"marma_admin/internal/api/handler"
	"marma_admin/internal/api/middleware"
	"marma_admin/internal/app/service"
	"marma_admin/internal/common"
	"marma_admin/internal/common/security"
	"marma_admin/internal/platform/ratelimit"
	"marma_admin/internal/platform/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"
)

type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Therapist *service.TherapistService
	Bookings  *service.BookingService
	OTP       *service.OTPService
	Videos    *service.VideoService
	Dashboard *service.DashboardService
}

type Options struct {
	Tokens      *security.TokenIssuer
	CORSOrigins []string
	// UploadDir is served under /uploads/ when set.
	UploadDir string

	// TrustProxy takes the client address from X-Real-IP or X-Forwarded-For.
	// Leave it off unless a proxy that overwrites those headers is in front.
	TrustProxy bool

	ForgotLimiter ratelimit.Limiter
	ForgotLimit   int
	ForgotWindow  time.Duration
}

func NewRouter(opts Options, svc Services, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: !allowsAnyOrigin(opts.CORSOrigins),
		MaxAge:           300,
	}))

	// Puts the bearer token, or the reason it was rejected, in the context.
	r.Use(jwtauth.Verifier(opts.Tokens.JWTAuth()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithData(w, http.StatusOK, "OK", nil)
	})
	if opts.UploadDir != "" {
		r.Handle(storage.LocalURLPrefix+"*", uploadsHandler(opts.UploadDir))
	}

	pipe := middleware.NewPipeline(middleware.NewAuthenticator(svc.Auth, log))

	var forgotLimit func(http.Handler) http.Handler
	if opts.ForgotLimiter != nil && opts.ForgotLimit > 0 {
		forgotLimit = middleware.RateLimit(opts.ForgotLimiter, "forgot-password", opts.ForgotLimit, opts.ForgotWindow, log)
	}

	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard, pipe, log)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", handler.NewAuthHandler(svc.Auth, pipe, forgotLimit, log).RegisterRoutes)

		api.Route("/admin", func(admin chi.Router) {
			dashboardHandler.RegisterAdminRoutes(admin)
			handler.NewUserHandler(svc.Users, pipe, log).RegisterRoutes(admin)
			handler.NewTherapistHandler(svc.Therapist, pipe, log).RegisterRoutes(admin)
			handler.NewBookingHandler(svc.Bookings, pipe, log).RegisterRoutes(admin)
			handler.NewOTPHandler(svc.OTP, pipe, log).RegisterRoutes(admin)
			handler.NewVideoHandler(svc.Videos, pipe, log).RegisterRoutes(admin)
		})

		api.Route("/user", dashboardHandler.RegisterUserRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// uploadsHandler serves stored files without directory listings.
func uploadsHandler(dir string) http.Handler {
	files := http.StripPrefix(storage.LocalURLPrefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			common.RespondWithError(w, http.StatusNotFound, "Route not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
