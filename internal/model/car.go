package model

import "gorm.io/gorm"

type Car struct {
	gorm.Model
	Brand        string `gorm:"column:brand;not null"`
	CarModel     string `gorm:"column:car_model;not null"`
	LicensePlate string `gorm:"column:license_plate;unique;not null"`
	OwnerID      uint   `gorm:"column:owner_id;not null;index"`
	Owner        *User  `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}
