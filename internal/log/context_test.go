package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/constants"
)

func TestRequestIDFromContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))

	c := AttachRequestIDToContext(context.Background(), "request-1")
	assert.Equal(t, "request-1", RequestIDFromContext(c))
}

func TestAttachTraceIdFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Hook(AttachTraceIdFromContext())

	c := AttachRequestIDToContext(context.Background(), "request-2")
	logger.Info().Ctx(c).Msg("hello")

	actual := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &actual))
	assert.Equal(t, "request-2", actual[constants.KEY_REQUEST_ID])
	assert.NotContains(t, actual, constants.KEY_TRACE_ID)
}
