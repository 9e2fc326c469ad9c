package repository

import (
	"errors"
	"time"

	"staff-rota/internal/models"

	"gorm.io/gorm"
)

type DayInfoRepository interface {
	Upsert(info *models.DayInfo) error
	ListBetween(from, to time.Time) ([]*models.DayInfo, error)
}

type GormDayInfoRepository struct {
	db *gorm.DB
}

func NewGormDayInfoRepository(db *gorm.DB) (DayInfoRepository, error) {
	if err := db.AutoMigrate(&models.DayInfo{}); err != nil {
		return nil, err
	}
	return &GormDayInfoRepository{db: db}, nil
}

func (r *GormDayInfoRepository) Upsert(info *models.DayInfo) error {
	var existing models.DayInfo
	err := r.db.Where("DATE(date) = ?", info.Date.Format("2006-01-02")).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(info).Error
	}
	if err != nil {
		return err
	}

	existing.Events = info.Events
	existing.PrivateBookings = info.PrivateBookings
	existing.TableCovers = info.TableCovers
	existing.CalendarNotes = info.CalendarNotes
	return r.db.Save(&existing).Error
}

func (r *GormDayInfoRepository) ListBetween(from, to time.Time) ([]*models.DayInfo, error) {
	var infos []*models.DayInfo
	err := r.db.Where("DATE(date) BETWEEN ? AND ?",
		from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC").
		Find(&infos).Error
	return infos, err
}
