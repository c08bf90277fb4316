package web

import (
	"net/http"

	"promohub/internal/config"
	redisinfra "promohub/internal/infra/redis"
	"promohub/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server wires the HTTP surface: the business half manages promos, the user
// half consumes them.
type Server struct {
	companyUC    usecase.CompanyUseCase
	userUC       usecase.UserUseCase
	promoUC      usecase.PromoUseCase
	feedUC       usecase.FeedUseCase
	activationUC usecase.ActivationUseCase

	auth      *AuthManager
	limiter   *redisinfra.RateLimiter
	rateLimit config.RateLimitConfig
	log       *zerolog.Logger
}

func NewServer(
	companyUC usecase.CompanyUseCase,
	userUC usecase.UserUseCase,
	promoUC usecase.PromoUseCase,
	feedUC usecase.FeedUseCase,
	activationUC usecase.ActivationUseCase,
	auth *AuthManager,
	limiter *redisinfra.RateLimiter,
	rateLimit config.RateLimitConfig,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		companyUC:    companyUC,
		userUC:       userUC,
		promoUC:      promoUC,
		feedUC:       feedUC,
		activationUC: activationUC,
		auth:         auth,
		limiter:      limiter,
		rateLimit:    rateLimit,
		log:          logger,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.observeMiddleware)

	r.Get("/api/ping", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/business", func(r chi.Router) {
		r.Post("/auth/sign-up", s.businessSignUp)
		r.Post("/auth/sign-in", s.businessSignIn)

		r.Group(func(r chi.Router) {
			r.Use(s.businessAuth)
			r.Post("/promo", s.businessCreatePromo)
			r.Get("/promo", s.businessListPromos)
			r.Get("/promo/{id}", s.businessGetPromo)
			r.Patch("/promo/{id}", s.businessPatchPromo)
			r.Get("/promo/{id}/stat", s.businessPromoStat)
		})
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/auth/sign-up", s.userSignUp)
		r.Post("/auth/sign-in", s.userSignIn)

		r.Group(func(r chi.Router) {
			r.Use(s.userAuth)
			r.Get("/profile", s.userGetProfile)
			r.Patch("/profile", s.userPatchProfile)
			r.Get("/feed", s.userFeed)
			r.Get("/promo/{id}", s.userGetPromo)
			r.Post("/promo/{id}/like", s.userLikePromo)
			r.Delete("/promo/{id}/like", s.userUnlikePromo)
			r.Get("/promo/{id}/comments", s.userListComments)
			r.Post("/promo/{id}/comments", s.userAddComment)

			r.Group(func(r chi.Router) {
				r.Use(s.activationLimit)
				r.Post("/promo/{id}/activate", s.userActivatePromo)
			})
		})
	})

	return r
}
