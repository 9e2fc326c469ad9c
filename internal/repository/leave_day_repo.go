package repository

import (
	"time"

	"staff-rota/internal/models"

	"gorm.io/gorm"
)

type LeaveDayRepository interface {
	Create(leave *models.LeaveDay) error
	ListBetween(from, to time.Time) ([]*models.LeaveDay, error)
	HasApprovedLeave(employeeID uint, date time.Time) (bool, error)
}

type GormLeaveDayRepository struct {
	db *gorm.DB
}

func NewGormLeaveDayRepository(db *gorm.DB) (LeaveDayRepository, error) {
	if err := db.AutoMigrate(&models.LeaveDay{}); err != nil {
		return nil, err
	}
	return &GormLeaveDayRepository{db: db}, nil
}

func (r *GormLeaveDayRepository) Create(leave *models.LeaveDay) error {
	return r.db.Create(leave).Error
}

func (r *GormLeaveDayRepository) ListBetween(from, to time.Time) ([]*models.LeaveDay, error) {
	var leaves []*models.LeaveDay
	err := r.db.Where("DATE(leave_date) BETWEEN ? AND ?",
		from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("leave_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *GormLeaveDayRepository) HasApprovedLeave(employeeID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.LeaveDay{}).
		Where("employee_id = ? AND DATE(leave_date) = ? AND status = ?",
			employeeID, date.Format("2006-01-02"), models.LeaveStatusApproved).
		Count(&count).Error
	return count > 0, err
}
