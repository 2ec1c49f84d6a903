package backend

import (
	"context"

	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/realtime"
)

type messageStore interface {
	Create(ctx context.Context, m *domain.Message) error
	Conversation(ctx context.Context, a, b string) ([]domain.Message, error)
	Partners(ctx context.Context, userID string) ([]string, error)
	RecentReceived(ctx context.Context, userID string, limit int) ([]domain.Message, error)
}

// messageTable publishes every stored message to its chat channel.
type messageTable struct {
	messageStore
	broker realtime.Broker
	log    *zap.Logger
}

func newMessageTable(store messageStore, broker realtime.Broker, log *zap.Logger) *messageTable {
	return &messageTable{messageStore: store, broker: broker, log: log}
}

func (t *messageTable) Create(ctx context.Context, m *domain.Message) error {
	if err := t.messageStore.Create(ctx, m); err != nil {
		return err
	}

	ev, err := realtime.NewEvent(realtime.EventInsert, m.TableName(), m)
	if err == nil {
		err = t.broker.Publish(ctx, realtime.ChatChannel(m.SenderID, m.ReceiverID), ev)
	}
	if err != nil {
		// the row is stored; subscribers catch up on their next history load
		t.log.Warn("publish message event failed", zap.Int64("message_id", m.ID), zap.Error(err))
	}
	return nil
}
