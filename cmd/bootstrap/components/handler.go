package components

import (
	"car-rental-core/internal/handler"
	"car-rental-core/internal/handler/api"
	"car-rental-core/internal/handler/middleware"
	"car-rental-core/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewPaymentHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		func(cfg config.Config) *middleware.RateLimiter {
			return middleware.NewRateLimiter(cfg.RateLimit)
		},
		func(r *api.ReservationHandler, p *api.PaymentHandler, a *api.AdminHandler) handler.Handlers {
			return handler.Handlers{Reservation: r, Payment: p, Admin: a}
		},
		func(auth *middleware.AuthMiddleware, logger *middleware.Logger, rl *middleware.RateLimiter) handler.Middlewares {
			return handler.Middlewares{Auth: auth, Logger: logger, RateLimit: rl}
		},
	),
	fx.Invoke(handler.NewRouter),
)
