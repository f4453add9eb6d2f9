package model

import "time"

// LocalEntry is one named blob of device storage.
type LocalEntry struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
