package models

import "time"

// Namespace isolates one application's keys inside the shared database.
type Namespace struct {
	Name        string `gorm:"primaryKey;size:120"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

// KeyValue is a single persisted blob.
type KeyValue struct {
	Namespace string `gorm:"primaryKey;size:120"`
	Key       string `gorm:"primaryKey;column:item_key;size:255"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}
