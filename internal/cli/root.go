// Package cli contains the cobra commands of the agenda binary.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/ctxutil"
	"github.com/example/agenda/internal/logging"
	"github.com/example/agenda/internal/wire"
)

var (
	configPath    string
	verbose       bool
	globalActorID string
)

// Bootstrap registers the global flags and the hooks that load configuration,
// build the logger and release resources after a command finishes.
func Bootstrap(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", config.Path("."), "Path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&globalActorID, "as", "", "Acting user ID used when a command's own actor flag is empty")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log, verbose)
		if err != nil {
			return err
		}
		wire.Configure(cfg, logger)
		logger.Debug("configuration loaded", zap.String("config", configPath), zap.String("db", cfg.DB.Path))
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		wire.Close()
		_ = wire.Logger().Sync()
	}
}

// NewContext returns a background context carrying the global actor.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// actorFlag reads a user-id flag, falling back to --as.
func actorFlag(cmd *cobra.Command, name string) (string, error) {
	id, _ := cmd.Flags().GetString(name)
	if id == "" {
		id = globalActorID
	}
	if id == "" {
		return "", fmt.Errorf("--%s (or --as) is required", name)
	}
	return id, userIDs.check(id)
}
