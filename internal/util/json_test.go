package util_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherchain/go-aether/internal/util"
)

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	err := util.PrintJSON(&buf, map[string]uint64{"balance": 42})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"balance\": 42\n}\n", buf.String())
}

func TestPrintJSONUnmarshalable(t *testing.T) {
	var buf bytes.Buffer

	err := util.PrintJSON(&buf, func() {})

	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
