package service

import (
	"context"
	"errors"
	"strings"

	"github.com/platewatch/api/internal/dto"
	apperrors "github.com/platewatch/api/internal/errors"
	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CarStore is the persistence surface the car layer depends on.
type CarStore interface {
	GetByID(ctx context.Context, id uint) (*model.Car, error)
	GetByPlate(ctx context.Context, plate string) (*model.Car, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Car, error)
	Create(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id uint) error
}

// CarService manages the cars registered to a user. Every mutation is
// owner-scoped; a caller can never touch another user's car.
type CarService struct {
	cars CarStore
}

func NewCarService(cars CarStore) *CarService {
	return &CarService{cars: cars}
}

func (s *CarService) ListCars(ctx context.Context, ownerID uint) ([]dto.CarResponse, error) {
	cars, err := s.cars.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := make([]dto.CarResponse, 0, len(cars))
	for i := range cars {
		out = append(out, carResponse(&cars[i]))
	}
	return out, nil
}

func (s *CarService) AddCar(ctx context.Context, ownerID uint, req *dto.CreateCarRequest) (*dto.CarResponse, error) {
	plate := strings.TrimSpace(req.LicensePlate)

	if _, err := s.cars.GetByPlate(ctx, plate); err == nil {
		return nil, apperrors.ErrPlateExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	car := &model.Car{
		Brand:        strings.TrimSpace(req.Brand),
		CarModel:     strings.TrimSpace(req.Model),
		LicensePlate: plate,
		OwnerID:      ownerID,
	}

	if err := s.cars.Create(ctx, car); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPlateExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Car registered",
		zap.Uint("car_id", car.ID),
		zap.Uint("owner_id", ownerID),
		zap.String("license_plate", car.LicensePlate),
	)

	resp := carResponse(car)
	return &resp, nil
}

func (s *CarService) UpdateCar(ctx context.Context, ownerID, carID uint, req *dto.UpdateCarRequest) (*dto.CarResponse, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCarNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if car.OwnerID != ownerID {
		logger.GetLogger().Warn("Car update denied",
			zap.Uint("car_id", carID),
			zap.Uint("owner_id", car.OwnerID),
			zap.Uint("caller_id", ownerID),
		)
		return nil, apperrors.ErrNotCarOwner
	}

	if req.Brand != nil {
		car.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Model != nil {
		car.CarModel = strings.TrimSpace(*req.Model)
	}
	if req.LicensePlate != nil {
		plate := strings.TrimSpace(*req.LicensePlate)
		if plate != car.LicensePlate {
			if _, err := s.cars.GetByPlate(ctx, plate); err == nil {
				return nil, apperrors.ErrPlateExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.WrapError(apperrors.ErrInternal, err)
			}
			car.LicensePlate = plate
		}
	}

	if err := s.cars.Update(ctx, car); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPlateExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := carResponse(car)
	return &resp, nil
}

func (s *CarService) DeleteCar(ctx context.Context, ownerID, carID uint) error {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCarNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if car.OwnerID != ownerID {
		return apperrors.ErrNotCarOwner
	}

	if err := s.cars.Delete(ctx, carID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCarNotFound
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.GetLogger().Info("Car deleted",
		zap.Uint("car_id", carID),
		zap.Uint("owner_id", ownerID),
	)

	return nil
}

func carResponse(car *model.Car) dto.CarResponse {
	return dto.CarResponse{
		ID:           car.ID,
		Brand:        car.Brand,
		Model:        car.CarModel,
		LicensePlate: car.LicensePlate,
	}
}
