package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		expectedTrace bool
	}{
		{name: "given development should write trace events", env: constants.ENV_DEVELOPMENT, expectedTrace: true},
		{name: "given production should drop trace events", env: constants.ENV_PRODUCTION, expectedTrace: false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, config.Application{Env: test.env})

			logger.Trace().Msg("locking cart")
			if !test.expectedTrace {
				assert.Zero(t, buf.Len())
				return
			}

			actual := map[string]any{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &actual))
			assert.Equal(t, "locking cart", actual["message"])
			assert.Equal(t, "trace", actual["level"])
			assert.Equal(t, test.env, actual["env"])
			assert.Contains(t, actual, "timestamp")
		})
	}
}
