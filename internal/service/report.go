package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/platewatch/api/internal/constants"
	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/pkg/logger"
	"github.com/platewatch/api/pkg/redis"
	"github.com/platewatch/api/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report read results are cached with a fixed TTL and never invalidated on
// write; readers may observe results up to one TTL stale.
const (
	reportCacheTTL = 300 * time.Second
	recentCacheTTL = 60 * time.Second

	recentReportLimit = 20
)

// ReportStore is the persistence surface the report layer depends on.
type ReportStore interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id uint) (*model.Report, error)
	ListByPlates(ctx context.Context, plates []string) ([]model.Report, error)
	ListByPlate(ctx context.Context, plate string) ([]model.Report, error)
	ListRecent(ctx context.Context, limit int) ([]model.Report, error)
	Delete(ctx context.Context, id uint) error
}

// ReportService manages sighting reports and their media attachments.
type ReportService struct {
	reports ReportStore
	cars    CarStore
	users   UserStore
	cache   redis.Client
	storage storage.ObjectStorage
}

func NewReportService(
	reports ReportStore,
	cars CarStore,
	users UserStore,
	cache redis.Client,
	objectStorage storage.ObjectStorage,
) *ReportService {
	return &ReportService{
		reports: reports,
		cars:    cars,
		users:   users,
		cache:   cache,
		storage: objectStorage,
	}
}

// CreateReport records a sighting. Anyone authenticated can report any
// plate; the plate is stored as free text and needs no matching car row.
func (s *ReportService) CreateReport(ctx context.Context, reporterID uint, input *dto.CreateReportInput) (*dto.ReportResponse, error) {
	if _, err := s.users.GetByID(ctx, reporterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if len(input.ImageURLs) > constants.MaxReportImages {
		return nil, apperrors.ErrTooManyUploads
	}

	report := &model.Report{
		LicensePlate: strings.TrimSpace(input.LicensePlate),
		Description:  input.Description,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		ImageURLs:    datatypes.JSONSlice[string](input.ImageURLs),
		VideoURL:     input.VideoURL,
		ReportedByID: &reporterID,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Report created",
		zap.Uint("report_id", report.ID),
		zap.Uint("reporter_id", reporterID),
		zap.String("license_plate", report.LicensePlate),
		zap.Int("images", len(input.ImageURLs)),
		zap.Bool("video", input.VideoURL != nil),
	)

	created, err := s.reports.GetByID(ctx, report.ID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := reportResponse(created)
	return &resp, nil
}

// GetReportsForOwner returns reports against any of the caller's registered
// plates, newest first, read through the cache.
func (s *ReportService) GetReportsForOwner(ctx context.Context, ownerID uint) ([]dto.ReportResponse, error) {
	cacheKey := constants.CacheKeyReportOwner + strconv.FormatUint(uint64(ownerID), 10)

	var cached []dto.ReportResponse
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.GetLogger().Warn("Report cache read failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	} else if hit {
		return cached, nil
	}

	cars, err := s.cars.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// No registered cars means no plates to match; skip the query and the
	// cache write so a first car registration is visible immediately.
	if len(cars) == 0 {
		return []dto.ReportResponse{}, nil
	}

	plates := make([]string, 0, len(cars))
	for i := range cars {
		plates = append(plates, cars[i].LicensePlate)
	}

	reports, err := s.reports.ListByPlates(ctx, plates)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := reportResponses(reports)
	s.writeCache(ctx, cacheKey, out, reportCacheTTL)
	return out, nil
}

// GetReportsByPlate returns reports for one plate, matched and cached
// case-insensitively with surrounding whitespace stripped.
func (s *ReportService) GetReportsByPlate(ctx context.Context, plate string) ([]dto.ReportResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(plate))
	cacheKey := constants.CacheKeyReportPlate + normalized

	var cached []dto.ReportResponse
	if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		logger.GetLogger().Warn("Report cache read failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	} else if hit {
		return cached, nil
	}

	reports, err := s.reports.ListByPlate(ctx, plate)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := reportResponses(reports)
	s.writeCache(ctx, cacheKey, out, reportCacheTTL)
	return out, nil
}

// RecentReports returns the latest reports across all plates.
func (s *ReportService) RecentReports(ctx context.Context) ([]dto.ReportResponse, error) {
	var cached []dto.ReportResponse
	if hit, err := s.cache.GetJSON(ctx, constants.CacheKeyReportRecent, &cached); err != nil {
		logger.GetLogger().Warn("Report cache read failed",
			zap.String("key", constants.CacheKeyReportRecent),
			zap.Error(err),
		)
	} else if hit {
		return cached, nil
	}

	reports, err := s.reports.ListRecent(ctx, recentReportLimit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := reportResponses(reports)
	s.writeCache(ctx, constants.CacheKeyReportRecent, out, recentCacheTTL)
	return out, nil
}

// DeleteReport removes a report and best-effort deletes its stored media.
// Only the original reporter may delete.
func (s *ReportService) DeleteReport(ctx context.Context, callerID, reportID uint) error {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrReportNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if report.ReportedByID == nil || *report.ReportedByID != callerID {
		logger.GetLogger().Warn("Report delete denied",
			zap.Uint("report_id", reportID),
			zap.Uint("caller_id", callerID),
		)
		return apperrors.ErrNotReportOwner
	}

	for _, url := range report.ImageURLs {
		if err := s.storage.Delete(ctx, url); err != nil {
			logger.GetLogger().Warn("Failed to delete report image",
				zap.Uint("report_id", reportID),
				zap.String("url", url),
				zap.Error(err),
			)
		}
	}
	if report.VideoURL != nil {
		if err := s.storage.Delete(ctx, *report.VideoURL); err != nil {
			logger.GetLogger().Warn("Failed to delete report video",
				zap.Uint("report_id", reportID),
				zap.String("url", *report.VideoURL),
				zap.Error(err),
			)
		}
	}

	if err := s.reports.Delete(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrReportNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Report deleted",
		zap.Uint("report_id", reportID),
		zap.Uint("caller_id", callerID),
	)

	return nil
}

func (s *ReportService) writeCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.GetLogger().Warn("Report cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

func reportResponses(reports []model.Report) []dto.ReportResponse {
	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, reportResponse(&reports[i]))
	}
	return out
}

func reportResponse(report *model.Report) dto.ReportResponse {
	resp := dto.ReportResponse{
		ID:           report.ID,
		LicensePlate: report.LicensePlate,
		Description:  report.Description,
		Latitude:     report.Latitude,
		Longitude:    report.Longitude,
		CreatedAt:    report.CreatedAt,
		ImageURLs:    []string(report.ImageURLs),
		VideoURL:     report.VideoURL,
	}
	if resp.ImageURLs == nil {
		resp.ImageURLs = []string{}
	}
	if report.ReportedBy != nil {
		resp.ReportedBy = &dto.ReportReporter{
			ID:    report.ReportedBy.ID,
			Email: report.ReportedBy.Email,
		}
	}
	return resp
}
