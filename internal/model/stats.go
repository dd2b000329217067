package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyView is a single recorded visit to a listing page.
type PropertyView struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	PropertyID string    `json:"property_id" gorm:"size:36;index"`
	UserID     *string   `json:"user_id" gorm:"size:36;index"`
	IP         string    `json:"ip" gorm:"index"`
	SessionID  string    `json:"session_id" gorm:"index"`
	UserAgent  string    `json:"user_agent"`
	ViewedAt   time.Time `json:"viewed_at" gorm:"index"`
	IsUnique   bool      `json:"is_unique" gorm:"default:true"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

// PropertyStats is the per-listing rollup maintained by the view hooks and
// the nightly cron.
type PropertyStats struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	PropertyID     string    `json:"property_id" gorm:"size:36;uniqueIndex"`
	TotalViews     int64     `json:"total_views"`
	UniqueViews    int64     `json:"unique_views"`
	DailyViews     int64     `json:"daily_views"`
	LastUpdated    time.Time `json:"last_updated"`
	LastDailyReset time.Time `json:"last_daily_reset"`

	Property Property `json:"-" gorm:"foreignKey:PropertyID"`
}

func (pv *PropertyView) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == "" {
		pv.ID = uuid.New().String()
	}
	if pv.ViewedAt.IsZero() {
		pv.ViewedAt = time.Now()
	}

	// A repeat visit from the same IP within 24h does not count as unique.
	var count int64
	tx.Model(&PropertyView{}).
		Where("property_id = ? AND ip = ? AND viewed_at > ?",
			pv.PropertyID, pv.IP, time.Now().Add(-24*time.Hour)).
		Count(&count)
	if count > 0 {
		pv.IsUnique = false
	}

	return nil
}

func (pv *PropertyView) AfterCreate(tx *gorm.DB) error {
	var stats PropertyStats
	tx.FirstOrCreate(&stats, PropertyStats{PropertyID: pv.PropertyID})

	updates := map[string]interface{}{
		"total_views":  gorm.Expr("total_views + ?", 1),
		"daily_views":  gorm.Expr("daily_views + ?", 1),
		"last_updated": time.Now(),
	}
	if pv.IsUnique {
		updates["unique_views"] = gorm.Expr("unique_views + ?", 1)
	}

	return tx.Model(&stats).Updates(updates).Error
}

func (ps *PropertyStats) BeforeCreate(tx *gorm.DB) error {
	if ps.ID == "" {
		ps.ID = uuid.New().String()
	}
	return nil
}
