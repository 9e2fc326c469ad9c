package models

import "time"

// DepartmentBudget is the annual hours target for one department, read-only
// input to the weekly utilization bar.
type DepartmentBudget struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Department  string  `gorm:"type:varchar(40);not null;index:idx_budget_dept_year,unique" json:"department"`
	BudgetYear  int     `gorm:"not null;index:idx_budget_dept_year,unique" json:"budget_year"`
	AnnualHours float64 `gorm:"not null;default:0" json:"annual_hours"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DepartmentBudget) TableName() string {
	return "department_budgets"
}

// WeeklyTarget is the annual target spread evenly across 52 weeks.
func (b *DepartmentBudget) WeeklyTarget() float64 {
	return b.AnnualHours / 52.0
}
