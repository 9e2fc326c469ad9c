package repository

import (
	"errors"

	"staff-rota/internal/models"

	"gorm.io/gorm"
)

type FeedTokenRepository interface {
	Create(token *models.FeedToken) error
	GetActiveByToken(token string) (*models.FeedToken, error)
	Deactivate(id uint) error
}

type GormFeedTokenRepository struct {
	db *gorm.DB
}

func NewGormFeedTokenRepository(db *gorm.DB) (FeedTokenRepository, error) {
	if err := db.AutoMigrate(&models.FeedToken{}); err != nil {
		return nil, err
	}
	return &GormFeedTokenRepository{db: db}, nil
}

func (r *GormFeedTokenRepository) Create(token *models.FeedToken) error {
	return r.db.Create(token).Error
}

func (r *GormFeedTokenRepository) GetActiveByToken(token string) (*models.FeedToken, error) {
	var ft models.FeedToken
	err := r.db.Where("token = ? AND is_active = ?", token, true).First(&ft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ft, nil
}

func (r *GormFeedTokenRepository) Deactivate(id uint) error {
	result := r.db.Model(&models.FeedToken{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("feed token not found")
	}
	return nil
}
