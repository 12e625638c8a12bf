package schema

import (
	"time"
)

// Base is embedded by append-only archive tables; rows are never updated or soft-deleted.
type Base struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
