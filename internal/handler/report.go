package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/platewatch/api/internal/constants"
	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"github.com/platewatch/api/internal/middleware"
	"github.com/platewatch/api/internal/service"
	"github.com/platewatch/api/pkg/logger"
	"github.com/platewatch/api/pkg/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService *service.ReportService
	storage       storage.ObjectStorage
}

func NewReportHandler(reportService *service.ReportService, objectStorage storage.ObjectStorage) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		storage:       objectStorage,
	}
}

// CreateReport accepts a multipart sighting report. Files are classified by
// MIME prefix: at most 5 images and 1 video per report.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid multipart form", err.Error()))
		return
	}

	plate := strings.TrimSpace(c.PostForm("licensePlate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", "licensePlate is required"))
		return
	}

	latitude, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", "latitude must be a number"))
		return
	}
	longitude, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", "longitude must be a number"))
		return
	}

	var images, videos []*multipart.FileHeader
	for _, file := range form.File["media"] {
		contentType := file.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(contentType, "image/"):
			images = append(images, file)
		case strings.HasPrefix(contentType, "video/"):
			videos = append(videos, file)
		default:
			c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Unsupported media type", contentType))
			return
		}
	}

	if len(images) > constants.MaxReportImages || len(videos) > constants.MaxReportVideos {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Too many attachments",
			apperrors.GetErrorMessage(apperrors.ErrTooManyUploads)))
		return
	}

	input := &dto.CreateReportInput{
		LicensePlate: plate,
		Description:  c.PostForm("description"),
		Latitude:     latitude,
		Longitude:    longitude,
		ImageURLs:    make([]string, 0, len(images)),
	}

	for _, file := range images {
		url, err := h.uploadFile(c, file)
		if err != nil {
			logger.GetLogger().Error("Report image upload failed",
				zap.Uint("user_id", userID),
				zap.String("filename", file.Filename),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Media upload failed", nil))
			return
		}
		input.ImageURLs = append(input.ImageURLs, url)
	}

	for _, file := range videos {
		url, err := h.uploadFile(c, file)
		if err != nil {
			logger.GetLogger().Error("Report video upload failed",
				zap.Uint("user_id", userID),
				zap.String("filename", file.Filename),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Media upload failed", nil))
			return
		}
		input.VideoURL = &url
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), userID, input)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to create report", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) uploadFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.storage.Upload(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), src)
}

// MyCarReports returns reports against any of the caller's plates
func (h *ReportHandler) MyCarReports(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	reports, err := h.reportService.GetReportsForOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to list reports", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, reports)
}

// SearchByPlate returns reports for an arbitrary plate
func (h *ReportHandler) SearchByPlate(c *gin.Context) {
	plate := strings.TrimSpace(c.Query("licensePlate"))
	if plate == "" {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", "licensePlate query parameter is required"))
		return
	}

	reports, err := h.reportService.GetReportsByPlate(c.Request.Context(), plate)
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to search reports", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, reports)
}

// Recent returns the latest reports across all plates
func (h *ReportHandler) Recent(c *gin.Context) {
	reports, err := h.reportService.RecentReports(c.Request.Context())
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to list reports", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, reports)
}

// DeleteReport removes one of the caller's reports with its stored media
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse("Unauthorized", nil))
		return
	}

	reportID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid report id", err.Error()))
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), userID, reportID); err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to delete report", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Report deleted"))
}
