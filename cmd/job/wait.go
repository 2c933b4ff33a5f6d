package job

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether/ai"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

func newWait() *cobra.Command {
	return &cobra.Command{
		Use:   "wait <job-id>",
		Short: "Poll a job until it completes and print the final record",
		Long: `Polls until the job reaches completed or settled. A challenged job
fails immediately; a job that never finishes fails once the wait
budget (AETHER_JOB_WAIT_TIMEOUT) is exhausted.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runWait(cmd.Context(), args[0]); err != nil {
				log.Fatal().Err(err).Msg("Failed waiting for job")
			}
		},
	}
}

func runWait(ctx context.Context, id string) error {
	jobID, err := parseHash(id)
	if err != nil {
		return err
	}

	cfg := config.DefaultClientConfigFromEnv()

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		job, err := ai.NewService(client, nil).WaitForJob(ctx, jobID, cfg.JobPollInterval, cfg.JobWaitTimeout)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, job)
	})
}
