package payout

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JSONMap stores a string-to-string mapping as a jsonb column.
type JSONMap map[string]string

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return json.Unmarshal(raw, m)
}

// Payout is the persisted payout record, keyed by the remote system's
// external id. The unique index carries the upsert semantics.
type Payout struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ExternalID string          `gorm:"type:varchar(255);not null;uniqueIndex;column:external_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,8);not null"`

	// AmountReversed is NULL when the remote resource did not report a
	// reversal; a stored zero means the resource reported one of zero.
	AmountReversed *decimal.Decimal `gorm:"type:decimal(20,8)"`

	Created     *time.Time `gorm:"column:created;index"`
	Currency    string     `gorm:"type:varchar(8);not null"`
	ArrivalDate *time.Time `gorm:"column:arrival_date"`
	Destination *string    `gorm:"type:varchar(255)"`

	// EventID weakly references the webhook event that triggered the last
	// full sync. No FK constraint: deleting events must not cascade here.
	EventID *uuid.UUID `gorm:"type:uuid;index"`

	FailureCode         *string `gorm:"type:varchar(64)"`
	FailureMessage      *string `gorm:"type:text"`
	Livemode            *bool
	Metadata            JSONMap `gorm:"type:jsonb"`
	Method              *string `gorm:"type:varchar(32)"`
	SourceType          *string `gorm:"type:varchar(32)"`
	StatementDescriptor *string `gorm:"type:varchar(255)"`
	Status              *string `gorm:"type:varchar(32)"`
	TransferGroup       *string `gorm:"type:varchar(255)"`
	Type                *string `gorm:"type:varchar(32)"`
}

// TableName specifies the table name for the Payout model.
func (Payout) TableName() string {
	return "payouts"
}
