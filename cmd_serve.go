package main

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

	"github.com/yeremiapane/tableorder/middlewares"
	"github.com/yeremiapane/tableorder/router"
	"github.com/yeremiapane/tableorder/utils"
)

func newServeCommand() *cobra.Command {
	var allowedOrigin string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the kitchen display websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.GinMode == "release" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := a.startRelay(ctx); err != nil {
				return err
			}

			r := router.SetupRouter(router.Deps{
				Sessions:        a.sessions,
				Orders:          a.orders,
				Menu:            a.menu,
				Hub:             a.hub,
				JWTSecret:       []byte(a.cfg.JWTSecret),
				AllowedOrigin:   allowedOrigin,
				CheckoutLimiter: middlewares.NewRateLimiter(a.cfg.RateLimit, a.cfg.RateBurst),
			})

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				utils.InfoLogger.Printf("Listening on port %s", a.cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			utils.InfoLogger.Println("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&allowedOrigin, "allowed-origin", os.Getenv("ALLOWED_ORIGIN"), "origin allowed by CORS and websocket checks, empty allows any")
	return cmd
}
