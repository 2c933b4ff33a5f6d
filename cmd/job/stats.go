package job

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

func newStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print marketplace-wide job statistics",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runStats(cmd.Context()); err != nil {
				log.Fatal().Err(err).Msg("Failed to fetch job stats")
			}
		},
	}
}

func runStats(ctx context.Context) error {
	cfg := config.DefaultClientConfigFromEnv()

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		stats, err := client.GetJobStats(ctx)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, stats)
	})
}
