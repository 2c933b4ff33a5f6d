package command_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/internal/config"
	"github.com/aetherchain/go-aether/internal/test"
	"github.com/aetherchain/go-aether/internal/util"
	"github.com/aetherchain/go-aether/internal/util/command"
	"github.com/aetherchain/go-aether/pkg/aether/rpc"
)

func TestWithClient(t *testing.T) {
	node := test.NewNode()
	srv := httptest.NewServer(node.Handler())
	defer srv.Close()

	ctx := t.Context()

	var testError = errors.New("test error")

	cfg := config.DefaultClientConfigFromEnv()
	cfg.RPCURLs = []string{srv.URL}
	cfg.Logger.PrettyPrintConsole = false

	resultErr := command.WithClient(ctx, cfg, func(ctx context.Context, client *rpc.Client) error {
		require.NoError(t, client.Healthy(ctx))

		slot, err := client.GetSlot(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 0, slot)

		util.LogFromContext(ctx).Debug().Msg("inside closure")

		return testError
	})

	assert.Equal(t, testError, resultErr)
}

func TestWithClientRejectsEmptyEndpoints(t *testing.T) {
	cfg := config.DefaultClientConfigFromEnv()
	cfg.RPCURLs = nil

	err := command.WithClient(t.Context(), cfg, func(ctx context.Context, client *rpc.Client) error {
		t.Fatal("closure must not run without a client")
		return nil
	})

	require.Error(t, err)
}
