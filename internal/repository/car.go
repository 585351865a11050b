package repository

import (
	"context"

	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

func (r *CarRepository) GetByID(ctx context.Context, id uint) (*model.Car, error) {
	var car model.Car
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&car)
	if result.Error != nil {
		return nil, result.Error
	}
	return &car, nil
}

// GetByPlate finds a car by exact license plate.
func (r *CarRepository) GetByPlate(ctx context.Context, plate string) (*model.Car, error) {
	var car model.Car
	result := r.db.WithContext(ctx).Where("license_plate = ?", plate).First(&car)
	if result.Error != nil {
		return nil, result.Error
	}
	return &car, nil
}

// ListByOwner returns all cars owned by a user.
func (r *CarRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error) {
	var cars []model.Car
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&cars)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to list cars by owner",
			zap.Uint("owner_id", ownerID),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}
	return cars, nil
}

func (r *CarRepository) Create(ctx context.Context, car *model.Car) error {
	result := r.db.WithContext(ctx).Create(car)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to create car",
			zap.String("license_plate", car.LicensePlate),
			zap.Uint("owner_id", car.OwnerID),
			zap.Error(result.Error),
		)
		return result.Error
	}

	logger.GetLogger().Info("Car created",
		zap.Uint("car_id", car.ID),
		zap.String("license_plate", car.LicensePlate),
		zap.Uint("owner_id", car.OwnerID),
	)

	return nil
}

func (r *CarRepository) Update(ctx context.Context, car *model.Car) error {
	result := r.db.WithContext(ctx).Save(car)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update car",
			zap.Uint("car_id", car.ID),
			zap.Error(result.Error),
		)
		return result.Error
	}
	return nil
}

// Delete removes the row for good. A soft delete would keep the unique
// license_plate index occupied and lock the plate forever.
func (r *CarRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.Car{}, id)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to delete car",
			zap.Uint("car_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
