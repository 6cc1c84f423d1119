package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"brotos/internal/model"
)

// ErrStaleVersion is returned by ConsultantRepository.Update when the row changed underneath.
var ErrStaleVersion = errors.New("stale version")

// OutboxRepository defines outbox persistence operations.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	ListUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
}

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository.
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

// Create stores a pending event after the newest one written so far.
func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	var maxSeq uint64
	if err := r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}
	event.Seq = maxSeq + 1
	return r.db.WithContext(ctx).Create(event).Error
}

// ListUnpublished returns pending events in the order they were written.
func (r *outboxRepository) ListUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	if err := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("seq ASC").
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// MarkPublished stamps an event as delivered.
func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Update("published_at", at).Error
}

// IncrementAttempts records a failed delivery.
func (r *outboxRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.OutboxEvent{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}
