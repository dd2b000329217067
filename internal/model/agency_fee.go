package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgencyFee is a named fee configuration. Listings reference the entry for
// the configured key instead of whichever row happens to sort first.
type AgencyFee struct {
	ID  string  `json:"id" gorm:"primaryKey;size:36"`
	Key string  `json:"key" gorm:"uniqueIndex;not null"`
	Fee float64 `json:"fee" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *AgencyFee) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
