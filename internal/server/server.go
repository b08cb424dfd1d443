package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"stroyka/internal/cmr"
	"stroyka/internal/config"
	"stroyka/internal/equipment"
	"stroyka/internal/order"
)

// NewRouter wires every page and endpoint of the web app on top of one upstream API manager.
func NewRouter(cfg *config.Config, upstream *cmr.APIManager, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	orderHandler := order.NewHandler(upstream, order.Options{
		SiteURL:      cfg.SiteURL,
		LogoURL:      cfg.LogoURL,
		TemplatesDir: cfg.TemplatesDir,
		FetchTimeout: cfg.OGFetchTimeout,
		ListTimeout:  cfg.OrdersFetchTimeout,
	}, logger)
	equipmentHandler := equipment.NewHandler(upstream, cfg.EquipmentFetchTimeout, cfg.EquipmentLazyPanel, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/og-order", orderHandler.GetOGOrder)
		r.Get("/equipment-order/{regNumber}/panel", equipmentHandler.GetPanel)
	})
	r.Get("/orders", orderHandler.GetOrders)
	r.Get("/equipment-order/*", equipmentHandler.GetPage)
	r.Get("/", equipmentHandler.GetPage)

	return r
}

func Run(cfg *config.Config, upstream *cmr.APIManager, logger *zap.SugaredLogger, ctx context.Context) error {
	server := &http.Server{Addr: cfg.Address, Handler: NewRouter(cfg, upstream, logger)}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("server started successfuly on %v", cfg.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("get stop signal, start shutdown server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped successfully")
	return nil
}
