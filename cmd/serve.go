package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/promodash/internal/binding"
	"github.com/KaramelBytes/promodash/internal/server"
	"github.com/spf13/cobra"
)

var (
	srvAddr       string
	srvCategory   string
	srvDepartment string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if srvAddr != "" {
			addr = srvAddr
		}
		srv, err := server.New(binding.NewRegistry(t), server.Options{
			Defaults:    selection(srvCategory, srvDepartment),
			SessionTTL:  time.Duration(cfg.SessionTTLMin) * time.Minute,
			MaxSessions: cfg.MaxSessions,
			Logger:      slog.Default(),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr,
			time.Duration(cfg.ReadTimeoutSec)*time.Second,
			time.Duration(cfg.WriteTimeoutSec)*time.Second)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (default from config, :8050)")
	serveCmd.Flags().StringVar(&srvCategory, "category", "", "initial category for new sessions")
	serveCmd.Flags().StringVar(&srvDepartment, "department", "", "initial department for new sessions")
}
