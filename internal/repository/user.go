package repository

import (
	"context"
	"time"

	"github.com/platewatch/api/internal/model"
	"github.com/platewatch/api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if result.Error != nil {
		logger.GetLogger().Debug("Failed to get user by ID",
			zap.Uint("user_id", id),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds user by email. Emails are matched as stored.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		logger.GetLogger().Debug("Failed to get user by email",
			zap.String("email", email),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}

	return &user, nil
}

// GetProfile loads a user with their cars and filed reports.
func (r *UserRepository) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	result := r.db.WithContext(ctx).
		Preload("Cars").
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}

	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to create user",
			zap.String("email", user.Email),
			zap.Duration("duration", time.Since(start)),
			zap.Error(result.Error),
		)
		return result.Error
	}

	logger.GetLogger().Info("User created",
		zap.String("email", user.Email),
		zap.Uint("user_id", user.ID),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// CreateWithCar creates a user and their first car in one transaction. A
// plate conflict rolls back the user row.
func (r *UserRepository) CreateWithCar(ctx context.Context, user *model.User, car *model.Car) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		car.OwnerID = user.ID
		return tx.Create(car).Error
	})
}

// UpdatePassword overwrites the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("password", hashedPassword)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update user password",
			zap.Uint("user_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Info("User password updated",
		zap.Uint("user_id", id),
	)

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("last_login", time.Now())
	if result.Error != nil {
		logger.GetLogger().Warn("Failed to update last login",
			zap.Uint("user_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}
	return nil
}

// UpdateRefreshTokenHash overwrites the stored refresh-token hash. A nil
// hash clears the active session.
func (r *UserRepository) UpdateRefreshTokenHash(ctx context.Context, id uint, hash *string) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("refresh_token_hash", hash)
	if result.Error != nil {
		logger.GetLogger().Error("Failed to update refresh token hash",
			zap.Uint("user_id", id),
			zap.Error(result.Error),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.GetLogger().Debug("Refresh token hash updated",
		zap.Uint("user_id", id),
		zap.Bool("has_token", hash != nil),
	)

	return nil
}
