package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), Options{ServiceName: "glowbook"}, zap.NewNop())
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	shutdown := Setup(context.Background(), Options{
		ServiceName: "glowbook",
		Environment: "test",
		Endpoint:    "127.0.0.1:4317",
		Insecure:    true,
	}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
