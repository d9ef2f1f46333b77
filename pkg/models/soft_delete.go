package models

import "time"

// SoftDelete is embedded by entities that are hidden instead of removed.
// The flag and timestamp are plain columns so queries can filter on either.
type SoftDelete struct {
	IsDeleted bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt"`
}

func (s SoftDelete) Deleted() bool { return s.IsDeleted }

// SoftDeletable is satisfied by any model embedding SoftDelete.
type SoftDeletable interface {
	Deleted() bool
}
