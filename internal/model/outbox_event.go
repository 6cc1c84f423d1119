package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventType names a membership change published to the events exchange.
type EventType string

const (
	EventConsultantCreated     EventType = "consultant.created"
	EventConsultantUpdated     EventType = "consultant.updated"
	EventConsultantDeactivated EventType = "consultant.deactivated"
	EventConsultantDeleted     EventType = "consultant.deleted"
)

// OutboxEvent is written in the same transaction as the change it describes and
// published later by the events worker.
type OutboxEvent struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Seq          uint64     `json:"-" gorm:"not null;default:0;index"`
	Type         EventType  `json:"type" gorm:"type:varchar(40);not null;index"`
	ConsultantID string     `json:"consultant_id" gorm:"type:varchar(16);not null;index"`
	ActorID      string     `json:"actor_id" gorm:"type:varchar(16)"`
	Payload      string     `json:"payload" gorm:"type:text"`
	Attempts     int        `json:"attempts" gorm:"not null;default:0"`
	PublishedAt  *time.Time `json:"published_at,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewOutboxEvent snapshots consultant into an event of the given type.
func NewOutboxEvent(eventType EventType, actorID string, consultant *Consultant) (*OutboxEvent, error) {
	payload, err := json.Marshal(consultant)
	if err != nil {
		return nil, err
	}
	return &OutboxEvent{
		Type:         eventType,
		ConsultantID: consultant.ID,
		ActorID:      actorID,
		Payload:      string(payload),
	}, nil
}

// Message is the body published to the broker.
type Message struct {
	EventID      string          `json:"event_id"`
	Type         EventType       `json:"type"`
	ConsultantID string          `json:"consultant_id"`
	ActorID      string          `json:"actor_id,omitempty"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Consultant   json.RawMessage `json:"consultant"`
}

// Message converts the stored row into its published form.
func (e *OutboxEvent) Message() Message {
	return Message{
		EventID:      e.ID.String(),
		Type:         e.Type,
		ConsultantID: e.ConsultantID,
		ActorID:      e.ActorID,
		OccurredAt:   e.CreatedAt,
		Consultant:   json.RawMessage(e.Payload),
	}
}
