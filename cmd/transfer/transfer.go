package transfer

import (
	"context"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-openapi/swag"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

type options struct {
	keystorePath string
	to           string
	amount       uint64
	memo         string
	fee          uint64
	gasLimit     uint64
	noWait       bool
}

func New() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Build, sign and submit an AIC transfer",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTransfer(cmd.Context(), opts); err != nil {
				log.Fatal().Err(err).Msg("Failed to transfer")
			}
		},
	}

	cmd.Flags().StringVar(&opts.keystorePath, "keystore", "", "Keystore file holding the sender key (defaults to AETHER_KEYSTORE_PATH)")
	cmd.Flags().StringVar(&opts.to, "to", "", "Recipient address (0x-prefixed hex)")
	cmd.Flags().Uint64Var(&opts.amount, "amount", 0, "Amount in AIC base units")
	cmd.Flags().StringVar(&opts.memo, "memo", "", "Optional memo carried with the transfer")
	cmd.Flags().Uint64Var(&opts.fee, "fee", 0, "Fee override (defaults to AETHER_DEFAULT_FEE)")
	cmd.Flags().Uint64Var(&opts.gasLimit, "gas-limit", 0, "Gas limit override (defaults to AETHER_DEFAULT_GAS_LIMIT)")
	cmd.Flags().BoolVar(&opts.noWait, "no-wait", false, "Submit without waiting for the receipt")

	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runTransfer(ctx context.Context, opts options) error {
	if !common.IsHexAddress(opts.to) {
		return errors.Errorf("invalid recipient address %q", opts.to)
	}
	recipient := common.HexToAddress(opts.to)

	cfg := config.DefaultClientConfigFromEnv()
	if opts.keystorePath == "" {
		opts.keystorePath = cfg.KeystorePath
	}

	key, err := command.LoadKeystore(opts.keystorePath)
	if err != nil {
		return err
	}

	return command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		logger := util.LogFromContext(ctx)

		nonce, err := client.GetNonce(ctx, key.Address())
		if err != nil {
			return err
		}

		draft := txbuild.Transfer(recipient, opts.amount, nonce)
		draft.Memo = opts.memo
		draft.Fee = swag.Uint64(cfg.DefaultFee)
		draft.GasLimit = swag.Uint64(cfg.DefaultGasLimit)
		if opts.fee > 0 {
			draft.Fee = swag.Uint64(opts.fee)
		}
		if opts.gasLimit > 0 {
			draft.GasLimit = swag.Uint64(opts.gasLimit)
		}

		tx, err := txbuild.Build(key, draft)
		if err != nil {
			return err
		}

		hash, err := client.SubmitTransaction(ctx, tx)
		if err != nil {
			return err
		}
		logger.Info().Stringer("hash", hash).Msg("transaction submitted")

		if opts.noWait {
			return util.PrintJSON(os.Stdout, struct {
				TransactionHash aether.Hash `json:"transaction_hash"`
			}{hash})
		}

		receipt, err := client.WaitForReceipt(ctx, hash, cfg.PollInterval, cfg.WaitTimeout)
		if err != nil {
			return err
		}

		return util.PrintJSON(os.Stdout, receipt)
	})
}
