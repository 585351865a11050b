package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report is an incident filed against a license plate. The plate is free
// text; it does not have to match a registered Car.
type Report struct {
	gorm.Model
	LicensePlate string                      `gorm:"column:license_plate;not null;index"`
	Description  string                      `gorm:"column:description"`
	Latitude     float64                     `gorm:"column:latitude"`
	Longitude    float64                     `gorm:"column:longitude"`
	ImageURLs    datatypes.JSONSlice[string] `gorm:"column:image_urls"`
	VideoURL     *string                     `gorm:"column:video_url"`
	ReportedByID *uint                       `gorm:"column:reported_by_id;index"`
	ReportedBy   *User                       `gorm:"foreignKey:ReportedByID;constraint:OnDelete:SET NULL"`
}
