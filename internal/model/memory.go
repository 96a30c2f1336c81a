package model

import "time"

// SyncState values for MemoryRecord.SyncState.
// A record starts out unsynced and is promoted to synced only by a
// successful vector upsert carrying its current value. Any value-changing
// write demotes it back to unsynced.
const (
	SyncStateUnsynced = "unsynced"
	SyncStateSynced   = "synced"
)

// MemoryRecord is a single key/value memory item.
// The relational store owns these rows and is the sole source of truth for
// existence and current value. The vector index holds a best-effort copy
// addressed by a deterministic point id derived from Key; that copy may be
// absent or stale at any time without this row being wrong.
type MemoryRecord struct {
	// Key is the unique record key.
	Key string `json:"key" gorm:"primaryKey;not null"`

	// Value is the stored content. A copy is carried in the vector payload.
	Value string `json:"value" gorm:"not null"`

	// Category is a free-form tag used for filtering.
	Category string `json:"category" gorm:"not null;default:general;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null;index"`

	// SyncState tracks whether a vector point with a matching content hash
	// is believed to exist. It is a claim checked at write and
	// reconciliation time only, never re-verified on read.
	SyncState string `json:"syncState" gorm:"not null;default:unsynced;index"`
}

// TableName implements gorm.Tabler.
func (MemoryRecord) TableName() string { return "memory_records" }

// Synced reports whether the record's vector copy is believed current.
func (r *MemoryRecord) Synced() bool { return r.SyncState == SyncStateSynced }
