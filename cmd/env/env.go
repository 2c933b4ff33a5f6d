package env

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aetherchain/go-aether/internal/config"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the currently applied client environment",
		Run: func(cmd *cobra.Command, args []string) {
			runEnv()
		},
	}
}

func runEnv() {
	config := config.DefaultClientConfigFromEnv()
	c, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal the env")
	}
	fmt.Println(string(c))
}
