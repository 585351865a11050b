package dto

import "time"

// CreateReportInput is the service-level report payload. Media URLs are
// resolved by the upload handler before the service is called.
type CreateReportInput struct {
	LicensePlate string
	Description  string
	Latitude     float64
	Longitude    float64
	ImageURLs    []string
	VideoURL     *string
}

// ReportReporter is the sanitized reporter projection.
type ReportReporter struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

type ReportResponse struct {
	ID           uint            `json:"id"`
	LicensePlate string          `json:"licensePlate"`
	Description  string          `json:"description"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	CreatedAt    time.Time       `json:"createdAt"`
	ImageURLs    []string        `json:"imageUrls"`
	VideoURL     *string         `json:"videoUrl"`
	ReportedBy   *ReportReporter `json:"reportedBy"`
}
