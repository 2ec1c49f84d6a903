// Package realtime fans out table change events on named channels.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

var ErrClosed = errors.New("realtime: broker closed")

// Event is one change to a table row.
type Event struct {
	Type            string          `json:"type"`
	Table           string          `json:"table"`
	Record          json.RawMessage `json:"record"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewEvent encodes record into an event.
func NewEvent(eventType, table string, record any) (Event, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s record: %w", table, err)
	}
	return Event{Type: eventType, Table: table, Record: raw, CommitTimestamp: time.Now().UTC()}, nil
}

type Handler func(Event)

type Subscription interface {
	Unsubscribe() error
}

// Broker publishes events to channels and delivers them to subscribers.
type Broker interface {
	Publish(ctx context.Context, channel string, ev Event) error
	Subscribe(ctx context.Context, channel string, h Handler) (Subscription, error)
	Close() error
}

// ChatChannel names the channel shared by two users, independent of order.
func ChatChannel(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return "chat:" + strings.Join(ids, ":")
}

// envelope is the wire form used by the networked brokers.
type envelope struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
}
