package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	pgChannel = "glowbook_realtime"
	// NOTIFY payloads are capped by the server.
	pgMaxPayload = 8000
)

var ErrPayloadTooLarge = errors.New("realtime: event payload too large for NOTIFY")

// PostgresBroker relays events with LISTEN/NOTIFY on one server channel and
// fans them out to local subscribers by channel name.
type PostgresBroker struct {
	pool   *pgxpool.Pool
	local  *MemoryBroker
	log    *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPostgresBroker(ctx context.Context, dsn string, log *zap.Logger) (*PostgresBroker, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("acquire listen conn: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgChannel); err != nil {
		conn.Release()
		pool.Close()
		return nil, fmt.Errorf("listen: %w", err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	b := &PostgresBroker{
		pool:   pool,
		local:  NewMemoryBroker(),
		log:    log,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go b.listen(listenCtx, conn)
	return b, nil
}

func (b *PostgresBroker) listen(ctx context.Context, conn *pgxpool.Conn) {
	defer close(b.done)
	defer conn.Release()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				b.log.Error("realtime: postgres listener stopped", zap.Error(err))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal([]byte(n.Payload), &env); err != nil {
			b.log.Warn("realtime: bad notify payload", zap.Error(err))
			continue
		}
		b.local.dispatch(env.Channel, env.Event)
	}
}

func (b *PostgresBroker) Publish(ctx context.Context, channel string, ev Event) error {
	payload, err := json.Marshal(envelope{Channel: channel, Event: ev})
	if err != nil {
		return err
	}
	if len(payload) > pgMaxPayload {
		return ErrPayloadTooLarge
	}
	_, err = b.pool.Exec(ctx, "SELECT pg_notify($1, $2)", pgChannel, string(payload))
	return err
}

func (b *PostgresBroker) Subscribe(ctx context.Context, channel string, h Handler) (Subscription, error) {
	return b.local.Subscribe(ctx, channel, h)
}

func (b *PostgresBroker) Close() error {
	b.cancel()
	<-b.done
	b.pool.Close()
	return b.local.Close()
}
