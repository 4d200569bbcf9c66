package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spherecast/spherecast/internal/config"
)

// app carries the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           config.Name,
		Short:         "Stream resolver and 360° media player",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to a config file (default ./spherecast.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	lo.Must0(a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	flags.String("storage", "", "storage backend: memory, postgres, redis, s3")
	lo.Must0(a.v.BindPFlag(config.KeyStorageBackend, flags.Lookup("storage")))

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newResolveCmd(a),
		newFavoritesCmd(a),
	)
	return root
}

func newLogger(w io.Writer, cfg config.LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
