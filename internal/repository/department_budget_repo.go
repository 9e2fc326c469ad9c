package repository

import (
	"errors"

	"staff-rota/internal/models"

	"gorm.io/gorm"
)

type DepartmentBudgetRepository interface {
	Upsert(budget *models.DepartmentBudget) error
	ListByYear(year int) ([]*models.DepartmentBudget, error)
}

type GormDepartmentBudgetRepository struct {
	db *gorm.DB
}

func NewGormDepartmentBudgetRepository(db *gorm.DB) (DepartmentBudgetRepository, error) {
	if err := db.AutoMigrate(&models.DepartmentBudget{}); err != nil {
		return nil, err
	}
	return &GormDepartmentBudgetRepository{db: db}, nil
}

func (r *GormDepartmentBudgetRepository) Upsert(budget *models.DepartmentBudget) error {
	var existing models.DepartmentBudget
	err := r.db.Where("department = ? AND budget_year = ?",
		budget.Department, budget.BudgetYear).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(budget).Error
	}
	if err != nil {
		return err
	}

	existing.AnnualHours = budget.AnnualHours
	return r.db.Save(&existing).Error
}

func (r *GormDepartmentBudgetRepository) ListByYear(year int) ([]*models.DepartmentBudget, error) {
	var budgets []*models.DepartmentBudget
	err := r.db.Where("budget_year = ?", year).
		Order("department ASC").
		Find(&budgets).Error
	return budgets, err
}
