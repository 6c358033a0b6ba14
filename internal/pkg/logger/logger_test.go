package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("prod", &buf)

	l.Info("order shipped", "order_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "order shipped", line["msg"])
	assert.Equal(t, float64(7), line["order_id"])
}

func TestNew_DevSkipsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter("dev", &buf)

	l.Debug("resolving caller")

	assert.Contains(t, buf.String(), "resolving caller")
	assert.Error(t, json.Unmarshal(buf.Bytes(), &map[string]any{}))
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := newWithWriter("prod", &buf).With("request_id", "abc")
	ctx := WithContext(context.Background(), l)

	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}
