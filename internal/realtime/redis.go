package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisKeyPrefix = "glowbook:realtime:"

// RedisBroker relays events through Redis pub/sub so every API instance sees them.
type RedisBroker struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisBroker(ctx context.Context, addr, password string, db int, log *zap.Logger) (*RedisBroker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	return &RedisBroker{client: client, log: log}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, ev Event) error {
	payload, err := json.Marshal(envelope{Channel: channel, Event: ev})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, redisKeyPrefix+channel, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string, h Handler) (Subscription, error) {
	ps := b.client.Subscribe(ctx, redisKeyPrefix+channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channel, err)
	}

	sub := &redisSubscription{ps: ps, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		for msg := range ps.Channel() {
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn("realtime: bad redis payload", zap.String("channel", channel), zap.Error(err))
				continue
			}
			h(env.Event)
		}
	}()
	return sub, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

type redisSubscription struct {
	ps   *redis.PubSub
	done chan struct{}
	once sync.Once
	err  error
}

func (s *redisSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.err = s.ps.Close()
		<-s.done
	})
	return s.err
}
