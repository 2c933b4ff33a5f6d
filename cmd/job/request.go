package job

import (
	"os"
	"time"

	"github.com/go-openapi/swag"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

type requestOptions struct {
	id        string
	model     string
	inputHash string
	maxFee    uint64
	expiresIn time.Duration
	metadata  map[string]string
	gateway   string
}

func newRequest() *cobra.Command {
	var opts requestOptions

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Build a gateway job request envelope without touching the chain",
		Long: `Builds the HTTP envelope a provider gateway expects for an off-ledger
job submission. Nothing is sent; the envelope is printed for the caller
to post.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runRequest(opts); err != nil {
				log.Fatal().Err(err).Msg("Failed to build job request")
			}
		},
	}

	cmd.Flags().StringVar(&opts.id, "id", "", "Client-chosen job identifier")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model hash the job runs against")
	cmd.Flags().StringVar(&opts.inputHash, "input-hash", "", "Hash of the input payload")
	cmd.Flags().Uint64Var(&opts.maxFee, "max-fee", 0, "Fee ceiling in AIC base units")
	cmd.Flags().DurationVar(&opts.expiresIn, "expires-in", time.Hour, "How long the request stays valid")
	cmd.Flags().StringToStringVar(&opts.metadata, "meta", nil, "Metadata key=value pairs")
	cmd.Flags().StringVar(&opts.gateway, "gateway", "", "Gateway endpoint (defaults to AETHER_GATEWAY_URL)")

	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("input-hash")

	return cmd
}

func runRequest(opts requestOptions) error {
	modelHash, err := parseHash(opts.model)
	if err != nil {
		return err
	}

	inputHash, err := parseHash(opts.inputHash)
	if err != nil {
		return err
	}

	gateway := opts.gateway
	if gateway == "" {
		gateway = config.DefaultClientConfigFromEnv().GatewayURL
	}

	draft := txbuild.JobDraft{
		JobID:     opts.id,
		ModelHash: &modelHash,
		InputHash: &inputHash,
		ExpiresAt: swag.Int64(time.Now().Add(opts.expiresIn).Unix()),
	}
	if opts.maxFee > 0 {
		draft.MaxFee = swag.Uint64(opts.maxFee)
	}
	if len(opts.metadata) > 0 {
		draft.Metadata = make(map[string]any, len(opts.metadata))
		for k, v := range opts.metadata {
			draft.Metadata[k] = v
		}
	}

	submission, err := txbuild.BuildJobSubmission(gateway, draft)
	if err != nil {
		return err
	}

	return util.PrintJSON(os.Stdout, submission)
}
