package tracelog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogAdapterEmitsAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := NewSlogAdapter(logger)

	adapter.Log(Event{TraceID: "abc", Kind: KindAtomRegistered, Subject: "Al", Detail: "role 0"})

	out := buf.String()
	require.Contains(t, out, "trace_id=abc")
	require.Contains(t, out, "kind=atom_registered")
	require.Contains(t, out, "subject=Al")
}

func TestFromEnvDefaultsToNoOp(t *testing.T) {
	t.Setenv(EnvVar, "")
	require.Equal(t, NoOp, FromEnv())
}

func TestFromEnvEnabled(t *testing.T) {
	t.Setenv(EnvVar, "1")
	logger := FromEnv()
	require.NotEqual(t, NoOp, logger)
	// Must not panic when logging with no default handler assumptions.
	logger.Log(Event{TraceID: "x", Kind: KindConfigCloned})
}
