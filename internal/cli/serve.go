package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"storefront/internal/admin"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	httpapi "storefront/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gin.SetMode(cfg.Server.Mode)

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	src, err := a.catalogSource(ctx)
	if err != nil {
		return err
	}
	authm, err := auth.NewManager(cfg.Auth, a.local)
	if err != nil {
		return err
	}
	carts := cart.NewRegistry(a.local, a.notifier, a.logger)

	srv := httpapi.NewServer(httpapi.Deps{
		Catalog:       catalog.NewStore(src),
		Carts:         carts,
		Checkout:      checkout.NewSessions(carts, a.orders, a.notifier, a.logger),
		Orders:        a.orders,
		Reviews:       a.backendReviews,
		AdminProducts: a.productsPanel(),
		AdminReviews:  admin.NewReviewsPanel(a.reviews, a.notifier, a.logger),
		Auth:          authm,
		Hub:           a.hub,
		Notifier:      a.notifier,
		SyncSource:    a.fixture,
		UploadsDir:    cfg.Storage.UploadsDir,
		Logger:        a.logger,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", httpServer.Addr, "catalog", cfg.Catalog.Source)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
