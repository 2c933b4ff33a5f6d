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

func newVerify() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <job-id>",
		Short: "Verify the compute receipt of a completed job",
		Long: `Fetches the job and its verifiable compute receipt, cross-checks that
the receipt belongs to the job and asks the verifier to check the KZG
and TEE proofs. The three validity flags are reported independently.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runVerify(cmd.Context(), args[0]); err != nil {
				log.Fatal().Err(err).Msg("Failed to verify receipt")
			}
		},
	}
}

func runVerify(ctx context.Context, id string) error {
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

		vcr, err := client.GetVCR(ctx, jobID)
		if err != nil {
			return err
		}

		result, err := ai.NewService(client, nil).VerifyReceipt(ctx, job, vcr)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, result)
	})
}
