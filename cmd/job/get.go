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

func newGet() *cobra.Command {
	return &cobra.Command{
		Use:   "get <job-id>",
		Short: "Print the current state of a job",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runGet(cmd.Context(), args[0]); err != nil {
				log.Fatal().Err(err).Msg("Failed to fetch job")
			}
		},
	}
}

func runGet(ctx context.Context, id string) error {
	jobID, err := parseHash(id)
	if err != nil {
		return err
	}

	cfg := config.DefaultClientConfigFromEnv()

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		job, err := client.GetJob(ctx, jobID)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, job)
	})
}
