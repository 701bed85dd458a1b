package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"notifyd/internal/config"
)

func TestNormalizeOTLPEndpoint(t *testing.T) {
	cases := map[string]string{
		"collector:4317":            "collector:4317",
		"http://collector:4317":     "collector:4317",
		"https://otel.example.com/": "otel.example.com",
	}
	for in, want := range cases {
		got, err := normalizeOTLPEndpoint(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := normalizeOTLPEndpoint("http://")
	require.Error(t, err)
}

func TestNewWithoutEndpoint(t *testing.T) {
	shutdown, err := New(context.Background(), &config.Config{OTELServiceName: "notifyd"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
