package repository

import (
	"errors"
	"time"

	"staff-rota/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RotaWeekRepository interface {
	GetByID(id uint) (*models.RotaWeek, error)
	GetByWeekStart(weekStart time.Time) (*models.RotaWeek, error)
	GetOrCreate(weekStart time.Time) (*models.RotaWeek, error)
	ListByIDs(ids []uint) ([]*models.RotaWeek, error)
	FlagUnpublishedChanges(id uint) error
	Publish(id uint) error
}

type GormRotaWeekRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormRotaWeekRepository(db *gorm.DB) (*GormRotaWeekRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.RotaWeek{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate rota_weeks table")
		return nil, err
	}

	logger.Info("Rota week repository initialized")

	return &GormRotaWeekRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormRotaWeekRepository) GetByID(id uint) (*models.RotaWeek, error) {
	var week models.RotaWeek
	result := r.db.First(&week, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Rota week not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get rota week by ID")
		return nil, result.Error
	}

	return &week, nil
}

func (r *GormRotaWeekRepository) GetByWeekStart(weekStart time.Time) (*models.RotaWeek, error) {
	var week models.RotaWeek
	result := r.db.Where("DATE(week_start) = ?", weekStart.Format("2006-01-02")).First(&week)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get rota week by week start")
		return nil, result.Error
	}

	return &week, nil
}

// GetOrCreate returns the week row for a Monday, creating a draft row on
// first access. The caller must pass a Monday-aligned date.
func (r *GormRotaWeekRepository) GetOrCreate(weekStart time.Time) (*models.RotaWeek, error) {
	existing, err := r.GetByWeekStart(weekStart)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	week := &models.RotaWeek{
		WeekStart: weekStart,
		Status:    models.WeekStatusDraft,
	}

	if !week.IsValid() {
		r.logger.WithField("week_start", weekStart.Format("2006-01-02")).Warn("Invalid week start, not a Monday")
		return nil, errors.New("week start must be a Monday")
	}

	result := r.db.Create(week)
	if result.Error != nil {
		// Lost a create race with a concurrent get-or-create: re-read.
		refetched, ferr := r.GetByWeekStart(weekStart)
		if ferr == nil && refetched != nil {
			return refetched, nil
		}
		r.logger.WithError(result.Error).Error("Failed to create rota week")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":         week.ID,
		"week_start": week.WeekStart.Format("2006-01-02"),
	}).Info("Rota week created")

	return week, nil
}

func (r *GormRotaWeekRepository) ListByIDs(ids []uint) ([]*models.RotaWeek, error) {
	var weeks []*models.RotaWeek

	if len(ids) == 0 {
		return weeks, nil
	}

	result := r.db.Where("id IN ?", ids).Find(&weeks)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list rota weeks by IDs")
		return nil, result.Error
	}

	return weeks, nil
}

// FlagUnpublishedChanges marks a published week as drifted from what staff
// can see. Draft weeks are left alone.
func (r *GormRotaWeekRepository) FlagUnpublishedChanges(id uint) error {
	result := r.db.Model(&models.RotaWeek{}).
		Where("id = ? AND status = ?", id, models.WeekStatusPublished).
		Update("has_unpublished_changes", true)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to flag unpublished changes")
		return result.Error
	}

	if result.RowsAffected > 0 {
		r.logger.WithField("id", id).Info("Week flagged with unpublished changes")
	}

	return nil
}

// Publish sets status to published and clears the pending-changes flag in a
// single update.
func (r *GormRotaWeekRepository) Publish(id uint) error {
	result := r.db.Model(&models.RotaWeek{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":                  models.WeekStatusPublished,
			"has_unpublished_changes": false,
		})

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to publish rota week")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Rota week not found for publish")
		return errors.New("rota week not found")
	}

	r.logger.WithField("id", id).Info("Rota week published")
	return nil
}
