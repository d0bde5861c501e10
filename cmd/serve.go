package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"formify.app/configs"
	"formify.app/configs/configslog"
	"formify.app/pkg/ratelimit"
	"formify.app/pkg/renderer"
	"formify.app/routes"
	"formify.app/views"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "Formify",
		Views:        views.NewEngine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: renderer.Error,
	})
}

func serve(ctx context.Context) error {
	if err := configs.InitDB(); err != nil {
		return err
	}
	defer configs.CloseDB()

	var deps routes.Deps
	if client := configs.NewRedisClient(); client != nil {
		storage := ratelimit.NewRedisStorage(client)
		defer storage.Close()
		deps.LimiterStorage = storage
	}

	app := newApp()
	routes.SetupRoutes(app, deps)

	addr := ":" + configs.Conf().Server.Port
	errCh := make(chan error, 1)
	go func() {
		configslog.SLog.Infof("Server listening on %s", addr)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	configslog.SLog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		configslog.Log.Error("Server shutdown failed", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Server stopped")
	return nil
}
