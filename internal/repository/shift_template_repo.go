package repository

import (
	"errors"
	"time"

	"staff-rota/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ShiftTemplateRepository interface {
	Create(template *models.ShiftTemplate) error
	Save(template *models.ShiftTemplate) error
	GetByID(id uint) (*models.ShiftTemplate, error)
	ListActive() ([]*models.ShiftTemplate, error)
	Deactivate(id uint) error
}

type GormShiftTemplateRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormShiftTemplateRepository(db *gorm.DB) (*GormShiftTemplateRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.ShiftTemplate{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate shift_templates table")
		return nil, err
	}

	return &GormShiftTemplateRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormShiftTemplateRepository) Create(template *models.ShiftTemplate) error {
	r.logger.WithField("name", template.Name).Info("Creating shift template")

	if !template.IsValid() {
		r.logger.WithField("name", template.Name).Warn("Invalid shift template data")
		return errors.New("invalid shift template data")
	}

	result := r.db.Create(template)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create shift template")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":   template.ID,
		"name": template.Name,
	}).Info("Shift template created successfully")

	return nil
}

func (r *GormShiftTemplateRepository) Save(template *models.ShiftTemplate) error {
	if !template.IsValid() {
		r.logger.WithField("id", template.ID).Warn("Invalid shift template data for save")
		return errors.New("invalid shift template data")
	}

	template.UpdatedAt = time.Now()

	result := r.db.Save(template)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to save shift template")
		return result.Error
	}

	return nil
}

func (r *GormShiftTemplateRepository) GetByID(id uint) (*models.ShiftTemplate, error) {
	var template models.ShiftTemplate
	result := r.db.First(&template, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Shift template not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get shift template by ID")
		return nil, result.Error
	}

	return &template, nil
}

func (r *GormShiftTemplateRepository) ListActive() ([]*models.ShiftTemplate, error) {
	var templates []*models.ShiftTemplate

	result := r.db.Where("is_active = ?", true).Order("name ASC").Find(&templates)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list active shift templates")
		return nil, result.Error
	}

	return templates, nil
}

// Deactivate soft-deletes a template. Shifts already generated from it are
// untouched.
func (r *GormShiftTemplateRepository) Deactivate(id uint) error {
	result := r.db.Model(&models.ShiftTemplate{}).
		Where("id = ?", id).
		Update("is_active", false)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to deactivate shift template")
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.WithField("id", id).Warn("Shift template not found for deactivation")
		return errors.New("shift template not found")
	}

	r.logger.WithField("id", id).Info("Shift template deactivated")
	return nil
}
