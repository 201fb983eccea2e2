package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradestats/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the metrics HTTP API",
	Long: `Start the HTTP API.

Routes:
  GET  /healthz
  POST /api/metrics
  GET  /api/runs
  GET  /api/runs/:id

Example:
  tradestats serve --addr :8080 --db ./tradestats.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr string
	serveDB   string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from config)")
	serveCmd.Flags().StringVarP(&serveDB, "db", "d", "", "SQLite journal for the run routes (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	var runs server.RunStore
	if serveDB != "" || cfg.Journal.Type == "sqlite" {
		j, err := openJournal(serveDB)
		if err != nil {
			return err
		}
		defer j.Close()
		runs = j
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := server.New(logger, runs)
	srv.Version = version

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
