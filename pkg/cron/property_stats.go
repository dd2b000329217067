package cron

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"malagahomes_backend/internal/model"
	"malagahomes_backend/pkg/database"
)

// InitPropertyStatsCron schedules the nightly reset of daily view counters.
func InitPropertyStatsCron() *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 0 * * *", resetDailyViews)
	if err != nil {
		slog.Error("could not schedule daily stats reset", "error", err)
		return c
	}

	c.Start()
	slog.Info("property stats cron started")
	return c
}

func resetDailyViews() {
	result := database.GetDB().Model(&model.PropertyStats{}).
		Where("daily_views > 0").
		Updates(map[string]interface{}{
			"daily_views":      0,
			"last_daily_reset": time.Now(),
		})
	if result.Error != nil {
		slog.Error("daily stats reset failed", "error", result.Error)
		return
	}

	slog.Info("daily stats reset complete", "rows", result.RowsAffected)
}
