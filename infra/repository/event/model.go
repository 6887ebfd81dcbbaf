package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is one delivered webhook event, stored for audit and for the weak
// association from payout records.
type Event struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
	ExternalID string `gorm:"type:varchar(255);not null;uniqueIndex;column:external_id"`
	Type       string `gorm:"type:varchar(64);not null"`
	Livemode   bool
	Payload    []byte `gorm:"type:jsonb"`
}

// TableName specifies the table name for the Event model.
func (Event) TableName() string {
	return "events"
}
