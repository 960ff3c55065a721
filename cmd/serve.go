package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"brecha/internal/apihandlers"
	"brecha/internal/clix"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the classification HTTP API",
	Long: `Starts an HTTP server exposing POST /api/v1/classify, GET /api/v1/categories
and the health endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config

		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}

		router := apihandlers.NewRouter(apihandlers.NewAPIHandler(appInstance), cfg.Origins())

		addr, port := clix.ParseServerAddr(cmd.Flags(), cfg.Server.Addr, cfg.Server.Port)
		srv := &http.Server{
			Addr:         net.JoinHostPort(addr, strconv.Itoa(port)),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute, // a classification may include several retries
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting %s on http://%s", cfg.App.Name, srv.Addr)
			log.Infof("Environment: %s", cfg.App.Environment)
			log.Infof("Model: %s/%s", cfg.LLM.Provider, cfg.LLM.ModelName)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to run API server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Infof("Shutting down %s...", cfg.App.Name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "0.0.0.0", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().Int("port", 8080, "Port to listen on (overrides server.port)")
}
