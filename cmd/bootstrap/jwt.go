package bootstrap

import (
	"time"

	"car-rental-core/internal/handler/middleware"
	"car-rental-core/internal/pkg/clock"
	"car-rental-core/internal/pkg/config"
	"car-rental-core/internal/pkg/errs"
	"car-rental-core/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		fx.Annotate(
			NewJWTService,
			fx.As(fx.Self()),
			fx.As(new(middleware.TokenValidator)),
		),
	),
)

func NewJWTService(cfg config.Config, clk clock.Clock) (*jwt.Service, error) {
	tokenDuration, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, errs.Wrap(err, "invalid JWT_DURATION")
	}

	return jwt.NewService(cfg.JWT.Secret, tokenDuration, clk), nil
}
