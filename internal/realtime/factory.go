package realtime

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Options selects and configures a broker.
type Options struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
}

func New(ctx context.Context, opts Options, log *zap.Logger) (Broker, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryBroker(), nil
	case "redis":
		return NewRedisBroker(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, log)
	case "postgres":
		return NewPostgresBroker(ctx, opts.DatabaseURL, log)
	default:
		return nil, fmt.Errorf("unknown realtime driver %q", opts.Driver)
	}
}
