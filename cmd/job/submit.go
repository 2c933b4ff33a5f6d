package job

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/ai"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

type submitOptions struct {
	keystorePath string
	model        string
	input        string
	lock         uint64
	noWait       bool
}

func newSubmit() *cobra.Command {
	var opts submitOptions

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an AI compute job, locking AIC in escrow",
		Long: `Submits a compute job against a registered model. The job id is the
hash of the submission transaction; follow it with "job wait".`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSubmit(cmd.Context(), opts); err != nil {
				log.Fatal().Err(err).Msg("Failed to submit job")
			}
		},
	}

	cmd.Flags().StringVar(&opts.keystorePath, "keystore", "", "Keystore file holding the creator key (defaults to AETHER_KEYSTORE_PATH)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Hash of the registered model to run")
	cmd.Flags().StringVar(&opts.input, "input", "", "Input data; @path reads the bytes from a file")
	cmd.Flags().Uint64Var(&opts.lock, "lock", 0, "AIC to lock in escrow for the provider")
	cmd.Flags().BoolVar(&opts.noWait, "no-wait", false, "Submit without waiting for the receipt")

	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("lock")

	return cmd
}

func runSubmit(ctx context.Context, opts submitOptions) error {
	modelHash, err := parseHash(opts.model)
	if err != nil {
		return err
	}

	input := []byte(opts.input)
	if strings.HasPrefix(opts.input, "@") {
		input, err = os.ReadFile(opts.input[1:])
		if err != nil {
			return err
		}
	}

	cfg := config.DefaultClientConfigFromEnv()
	if opts.keystorePath == "" {
		opts.keystorePath = cfg.KeystorePath
	}

	key, err := command.LoadKeystore(opts.keystorePath)
	if err != nil {
		return err
	}

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		svc := ai.NewService(client, key)

		tx, err := svc.SubmitJob(ctx, modelHash, input, opts.lock)
		if err != nil {
			return err
		}

		jobID, err := client.SubmitTransaction(ctx, tx)
		if err != nil {
			return err
		}
		util.LogFromContext(ctx).Info().Stringer("job", jobID).Msg("job submitted")

		if opts.noWait {
			return util.PrintJSON(os.Stdout, struct {
				JobID aether.Hash `json:"job_id"`
			}{jobID})
		}

		receipt, err := client.WaitForReceipt(ctx, jobID, cfg.PollInterval, cfg.WaitTimeout)
		if err != nil {
			return err
		}

		created, err := client.GetJob(ctx, jobID)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, struct {
			Job     *aether.AIJob              `json:"job"`
			Receipt *aether.TransactionReceipt `json:"receipt"`
		}{created, receipt})
	})
}
