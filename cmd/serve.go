package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/palacegate/bellsim/server"
	"github.com/palacegate/bellsim/sim"
)

var addr string // HTTP listen address

// serveCmd exposes the scenario over HTTP until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the palace gate over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveScenario(cmd)

		srv, err := server.New(server.Config{
			Addr:      cfg.Addr,
			Bell:      cfg.BellConfig(),
			Simulator: sim.NewSimulator(sim.SimulatorConfig{}),
			Log:       logrus.WithField("component", "server"),
		})
		if err != nil {
			logrus.Fatalf("Creating server: %v", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logrus.Fatalf("Server failed: %v", err)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.Errorf("Shutdown: %v", err)
			}
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
