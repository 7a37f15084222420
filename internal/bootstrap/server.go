package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/api"
	"github.com/hznasser/falconair/config"
	"github.com/hznasser/falconair/internal/service/auth"
	"github.com/hznasser/falconair/internal/service/booking"
	"github.com/hznasser/falconair/internal/service/flights"
	"github.com/hznasser/falconair/internal/service/loyalty"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Services struct {
	Auth     auth.AuthUseCase
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Loyalty  loyalty.LoyaltyUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log *zap.Logger) error {
	router := NewRouter(cfg, svc)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Timeout(),
		WriteTimeout: cfg.HTTP.Timeout(),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	log.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// NewRouter wires all handlers onto a gin engine. Exposed separately so
// tests can drive the full routing table through httptest.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := api.NewAuthHandler(svc.Auth)
	authHandler.Register(router.Group("/auth"))

	protected := router.Group("/api", api.BearerAuth(svc.Auth))
	api.NewFlightHandler(svc.Flights).Register(protected.Group("/flights"))
	api.NewBookingHandler(svc.Bookings, svc.Loyalty).Register(protected.Group("/bookings"))
	api.NewLoyaltyHandler(svc.Loyalty).Register(protected.Group("/loyalty"))

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/falconair.swagger.json"),
		)))
	}

	return router
}
