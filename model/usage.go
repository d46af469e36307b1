package model

import (
	"fmt"
	"math"
	"time"

	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageRecord is an append-only audit row, written exactly once per chat
// invocation on both the success and the failure path.
type UsageRecord struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Owner          Owner     `gorm:"embedded" json:"-"`
	Endpoint       string    `gorm:"type:varchar(255)" json:"endpoint"`
	TokensUsed     int       `json:"tokens_used"`
	ResponseTimeMS int       `json:"response_time_ms"`
	StatusCode     int       `json:"status_code"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *UsageRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func CreateUsageRecord(record *UsageRecord) error {
	db := platform.DB
	if err := db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create usage record: %w", err)
	}
	return nil
}

func GetUsageList(owner Owner) ([]UsageRecord, error) {
	db := platform.DB
	var records []UsageRecord
	err := db.Where("owner_kind = ? AND owner_id = ?", owner.OwnerKind, owner.OwnerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usage records: %w", err)
	}
	return records, nil
}

type UsageStats struct {
	TotalRequests         int64   `json:"total_requests"`
	TotalTokensUsed       int64   `json:"total_tokens_used"`
	AverageResponseTimeMS float64 `json:"average_response_time_ms"`
}

func GetUsageStats(owner Owner) (*UsageStats, error) {
	db := platform.DB
	var stats UsageStats
	err := db.Model(&UsageRecord{}).
		Where("owner_kind = ? AND owner_id = ?", owner.OwnerKind, owner.OwnerID).
		Count(&stats.TotalRequests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count usage records: %w", err)
	}
	if stats.TotalRequests == 0 {
		return &stats, nil
	}

	row := struct {
		Total int64
		Avg   float64
	}{}
	err = db.Model(&UsageRecord{}).
		Select("COALESCE(SUM(tokens_used), 0) AS total, COALESCE(AVG(response_time_ms), 0) AS avg").
		Where("owner_kind = ? AND owner_id = ?", owner.OwnerKind, owner.OwnerID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate usage records: %w", err)
	}
	stats.TotalTokensUsed = row.Total
	stats.AverageResponseTimeMS = math.Round(row.Avg*100) / 100
	return &stats, nil
}

// GetUsageSummaryBetween aggregates all owners' usage inside a time window.
// Used by the daily report task.
func GetUsageSummaryBetween(from, to time.Time) (*UsageStats, int64, error) {
	db := platform.DB
	var stats UsageStats
	err := db.Model(&UsageRecord{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&stats.TotalRequests).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count usage records: %w", err)
	}

	var failures int64
	err = db.Model(&UsageRecord{}).
		Where("created_at >= ? AND created_at < ? AND status_code <> ?", from, to, 200).
		Count(&failures).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count failed requests: %w", err)
	}

	if stats.TotalRequests > 0 {
		row := struct {
			Total int64
			Avg   float64
		}{}
		err = db.Model(&UsageRecord{}).
			Select("COALESCE(SUM(tokens_used), 0) AS total, COALESCE(AVG(response_time_ms), 0) AS avg").
			Where("created_at >= ? AND created_at < ?", from, to).
			Scan(&row).Error
		if err != nil {
			return nil, 0, fmt.Errorf("failed to aggregate usage records: %w", err)
		}
		stats.TotalTokensUsed = row.Total
		stats.AverageResponseTimeMS = math.Round(row.Avg*100) / 100
	}
	return &stats, failures, nil
}
