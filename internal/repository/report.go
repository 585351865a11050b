package repository

import (
	"context"
	"time"

	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	start := time.Now()
	result := r.db.WithContext(ctx).Create(report)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to create report",
			zap.String("license_plate", report.LicensePlate),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return result.Error
	}

	logger.GetLogger().Info("Report created",
		zap.Uint("report_id", report.ID),
		zap.String("license_plate", report.LicensePlate),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uint) (*model.Report, error) {
	var report model.Report
	result := r.db.WithContext(ctx).Preload("ReportedBy").Where("id = ?", id).First(&report)
	if result.Error != nil {
		return nil, result.Error
	}
	return &report, nil
}

// ListByPlates returns reports whose plate is in the given set, newest first.
func (r *ReportRepository) ListByPlates(ctx context.Context, plates []string) ([]model.Report, error) {
	var reports []model.Report
	result := r.db.WithContext(ctx).
		Preload("ReportedBy").
		Where("license_plate IN ?", plates).
		Order("created_at DESC").
		Find(&reports)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to list reports by plates",
			zap.Int("plate_count", len(plates)),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}
	return reports, nil
}

// ListByPlate matches a single plate case-insensitively with surrounding
// whitespace ignored, newest first.
func (r *ReportRepository) ListByPlate(ctx context.Context, plate string) ([]model.Report, error) {
	var reports []model.Report
	result := r.db.WithContext(ctx).
		Preload("ReportedBy").
		Where("LOWER(TRIM(license_plate)) = LOWER(TRIM(?))", plate).
		Order("created_at DESC").
		Find(&reports)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to list reports by plate",
			zap.String("license_plate", plate),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}
	return reports, nil
}

// ListRecent returns the newest reports up to limit.
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]model.Report, error) {
	var reports []model.Report
	result := r.db.WithContext(ctx).
		Preload("ReportedBy").
		Order("created_at DESC").
		Limit(limit).
		Find(&reports)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to list recent reports",
			zap.Int("limit", limit),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}
	return reports, nil
}

func (r *ReportRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Report{}, id)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to delete report",
			zap.Uint("report_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("Report deleted",
		zap.Uint("report_id", id),
	)

	return nil
}
