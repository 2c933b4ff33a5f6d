package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/aetherchain/go-aether/pkg/aether/ai"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
	"github.com/aetherchain/go-aether/pkg/aether/txbuild"
)

// EnvPrefix is prepended to every configuration ENV var, e.g.
// AETHER_RPC_URLS.
const EnvPrefix = "AETHER"

// Logger holds the runtime logging configuration.
type Logger struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

// Client bundles every ENV-driven setting of the SDK and CLI. All
// fields resolve through DefaultClientConfigFromEnv; nothing reads the
// environment after startup.
type Client struct {
	RPCURLs         []string
	GatewayURL      string
	RequestTimeout  time.Duration
	PollInterval    time.Duration
	WaitTimeout     time.Duration
	JobPollInterval time.Duration
	JobWaitTimeout  time.Duration
	DefaultFee      uint64
	DefaultGasLimit uint64
	KeystorePath    string
	Logger          Logger
}

// DefaultClientConfigFromEnv resolves the client configuration from the
// environment, applying package defaults for everything left unset.
func DefaultClientConfigFromEnv() Client {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("rpc_urls", "http://127.0.0.1:8545")
	v.SetDefault("gateway_url", "")
	v.SetDefault("request_timeout", rpc.DefaultRequestTimeout)
	v.SetDefault("poll_interval", rpc.DefaultPollInterval)
	v.SetDefault("wait_timeout", rpc.DefaultWaitTimeout)
	v.SetDefault("job_poll_interval", ai.DefaultPollInterval)
	v.SetDefault("job_wait_timeout", ai.DefaultWaitTimeout)
	v.SetDefault("default_fee", txbuild.DefaultFee)
	v.SetDefault("default_gas_limit", txbuild.DefaultGasLimit)
	v.SetDefault("keystore_path", "")
	v.SetDefault("logger_level", "info")
	v.SetDefault("logger_pretty_print_console", false)

	return Client{
		RPCURLs:         splitList(v.GetString("rpc_urls")),
		GatewayURL:      v.GetString("gateway_url"),
		RequestTimeout:  v.GetDuration("request_timeout"),
		PollInterval:    v.GetDuration("poll_interval"),
		WaitTimeout:     v.GetDuration("wait_timeout"),
		JobPollInterval: v.GetDuration("job_poll_interval"),
		JobWaitTimeout:  v.GetDuration("job_wait_timeout"),
		DefaultFee:      v.GetUint64("default_fee"),
		DefaultGasLimit: v.GetUint64("default_gas_limit"),
		KeystorePath:    v.GetString("keystore_path"),
		Logger: Logger{
			Level:              logLevelFromString(v.GetString("logger_level")),
			PrettyPrintConsole: v.GetBool("logger_pretty_print_console"),
		},
	}
}

// splitList parses a comma separated ENV value into its entries,
// dropping surrounding whitespace and empty segments.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}

	return list
}

func logLevelFromString(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return level
}
