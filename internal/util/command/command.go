package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

// NewSubcommandGroup returns a cobra command that does nothing but house
// the given subcommands, printing its help when invoked bare.
func NewSubcommandGroup(use string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Collection of %s subcommands", use),
		Run: func(cmd *cobra.Command, args []string) {
			if err := cmd.Help(); err != nil {
				os.Exit(1)
			}

			os.Exit(0)
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}

// ApplyLogger installs cfg as the process-wide logging configuration.
func ApplyLogger(cfg config.Logger) {
	zerolog.SetGlobalLevel(cfg.Level)

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}

// WithClient applies cfg's logging, connects an RPC client for the
// configured endpoints and runs closure with it. The client is released
// when closure returns; closure's error passes through untouched.
func WithClient(ctx context.Context, cfg config.Client, closure func(ctx context.Context, client *rpc.Client) error) error {
	ApplyLogger(cfg.Logger)

	client, err := rpc.NewClient(rpc.Config{
		URLs:           cfg.RPCURLs,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	return closure(util.WithLogger(ctx, log.Logger), client)
}
