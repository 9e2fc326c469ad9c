package repository

import (
	"errors"
	"time"

	"staff-rota/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(shift *models.Shift) error
	Save(shift *models.Shift) error
	GetByID(id uint) (*models.Shift, error)
	ListByWeekID(weekID uint) ([]*models.Shift, error)
	ListByDateRange(from, to time.Time) ([]*models.Shift, error)
	DeleteByID(id uint) error
	CountForEmployeeAndDate(employeeID uint, date time.Time) (int64, error)
	ExistsForSlot(employeeID *uint, date time.Time, startTime, endTime string) (bool, error)
}

type GormShiftRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormShiftRepository(db *gorm.DB) (*GormShiftRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Shift{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate shifts table")
		return nil, err
	}

	logger.Info("Shift repository initialized")

	return &GormShiftRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormShiftRepository) Create(shift *models.Shift) error {
	r.logger.WithFields(logrus.Fields{
		"week_id":    shift.WeekID,
		"assignment": shift.Assignment().String(),
		"date":       shift.DateKey(),
	}).Info("Creating shift")

	if !shift.IsValid() {
		r.logger.WithFields(logrus.Fields{
			"week_id": shift.WeekID,
			"date":    shift.DateKey(),
		}).Warn("Invalid shift data")
		return errors.New("invalid shift data")
	}

	result := r.db.Create(shift)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create shift")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":         shift.ID,
		"week_id":    shift.WeekID,
		"assignment": shift.Assignment().String(),
	}).Info("Shift created successfully")

	return nil
}

func (r *GormShiftRepository) Save(shift *models.Shift) error {
	r.logger.WithFields(logrus.Fields{
		"id":      shift.ID,
		"version": shift.Version,
	}).Info("Saving shift")

	if !shift.IsValid() {
		r.logger.WithField("id", shift.ID).Warn("Invalid shift data for save")
		return errors.New("invalid shift data")
	}

	shift.UpdatedAt = time.Now()

	result := r.db.Save(shift)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to save shift")
		return result.Error
	}

	return nil
}

func (r *GormShiftRepository) GetByID(id uint) (*models.Shift, error) {
	var shift models.Shift
	result := r.db.Preload("Employee").First(&shift, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Shift not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shift by ID")
		return nil, result.Error
	}

	return &shift, nil
}

func (r *GormShiftRepository) ListByWeekID(weekID uint) ([]*models.Shift, error) {
	var shifts []*models.Shift

	result := r.db.Preload("Employee").
		Where("week_id = ?", weekID).
		Order("shift_date ASC, start_time ASC").
		Find(&shifts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list shifts by week")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"week_id": weekID,
		"count":   len(shifts),
	}).Debug("Retrieved shifts for week")

	return shifts, nil
}

func (r *GormShiftRepository) ListByDateRange(from, to time.Time) ([]*models.Shift, error) {
	var shifts []*models.Shift

	result := r.db.Preload("Employee").
		Where("DATE(shift_date) BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("shift_date ASC, start_time ASC").
		Find(&shifts)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list shifts by date range")
		return nil, result.Error
	}

	return shifts, nil
}

func (r *GormShiftRepository) DeleteByID(id uint) error {
	r.logger.WithField("id", id).Info("Deleting shift")

	result := r.db.Delete(&models.Shift{}, id)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to delete shift")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Shift not found for deletion")
		return errors.New("shift not found")
	}

	r.logger.WithField("id", id).Info("Shift deleted successfully")
	return nil
}

func (r *GormShiftRepository) CountForEmployeeAndDate(employeeID uint, date time.Time) (int64, error) {
	var count int64

	result := r.db.Model(&models.Shift{}).
		Where("employee_id = ? AND DATE(shift_date) = ? AND status <> ?",
			employeeID, date.Format("2006-01-02"), models.ShiftStatusCancelled).
		Count(&count)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to count shifts for employee and date")
		return 0, result.Error
	}

	return count, nil
}

// ExistsForSlot reports whether a shift already occupies the exact
// (assignment, date, time window) slot. Auto-population uses it to stay
// idempotent across repeated invocations.
func (r *GormShiftRepository) ExistsForSlot(employeeID *uint, date time.Time, startTime, endTime string) (bool, error) {
	var count int64

	query := r.db.Model(&models.Shift{}).
		Where("DATE(shift_date) = ? AND start_time = ? AND end_time = ?",
			date.Format("2006-01-02"), startTime, endTime)

	if employeeID == nil {
		query = query.Where("employee_id IS NULL")
	} else {
		query = query.Where("employee_id = ?", *employeeID)
	}

	result := query.Count(&count)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to check slot existence")
		return false, result.Error
	}

	return count > 0, nil
}
