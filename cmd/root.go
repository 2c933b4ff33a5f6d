package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/cmd/env"
	"github.com/aetherchain/go-aether/cmd/job"
	"github.com/aetherchain/go-aether/cmd/keys"
	"github.com/aetherchain/go-aether/cmd/status"
	"github.com/aetherchain/go-aether/cmd/transfer"
	"github.com/aetherchain/go-aether/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "aether",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

Command line client for the Aether ledger: key management, transfers
and the AI compute job marketplace.
Requires configuration through ENV.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		env.New(),
		job.New(),
		keys.New(),
		status.New(),
		transfer.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}
