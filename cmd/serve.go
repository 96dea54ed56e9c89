package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mcqquiz/internal/config"
	"github.com/abhisek/mcqquiz/internal/logging"
	"github.com/abhisek/mcqquiz/internal/packserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a directory of question packs over HTTP",
	Long:  "Serve every *.json question pack in a directory as a module list at /modules.json, ready to be used as source.modules_url.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if d, _ := cmd.Flags().GetString("dir"); d != "" {
			cfg.Server.Dir = d
		}
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			cfg.Server.Addr = a
		}
		if cfg.Server.Addr == "" {
			cfg.Server.Addr = config.DefaultServerAddr
		}

		logger, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("set up logging: %w", err)
		}
		defer closeLog()

		srv, err := packserver.New(cfg.Server.Dir, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("serving question packs", zap.String("dir", cfg.Server.Dir), zap.String("addr", cfg.Server.Addr))
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("dir", "", "Directory of question pack files (overrides server.dir)")
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
