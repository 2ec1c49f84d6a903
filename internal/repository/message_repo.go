package repository

import (
	"context"

	"gorm.io/gorm"

	"glowbook/internal/domain"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Conversation returns every message exchanged between a and b, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, a, b string) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Partners lists the ids of everyone userID has exchanged messages with.
func (r *MessageRepository) Partners(ctx context.Context, userID string) ([]string, error) {
	var sent, received []string
	db := r.db.WithContext(ctx).Model(&domain.Message{})
	if err := db.Where("sender_id = ?", userID).Distinct().Pluck("receiver_id", &sent).Error; err != nil {
		return nil, err
	}
	db = r.db.WithContext(ctx).Model(&domain.Message{})
	if err := db.Where("receiver_id = ?", userID).Distinct().Pluck("sender_id", &received).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(sent)+len(received))
	out := make([]string, 0, len(sent)+len(received))
	for _, id := range append(sent, received...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// RecentReceived returns the newest messages sent to userID.
func (r *MessageRepository) RecentReceived(ctx context.Context, userID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
