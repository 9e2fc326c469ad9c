package service

import (
	"sort"

	"staff-rota/internal/models"
)

// Budget utilization bands for the department budget bar.
const (
	BandNormal  = "normal"
	BandWarning = "warning"
	BandOver    = "over"
)

// HoursSummary is the weekly paid-hours rollup over a shift set. Cancelled
// shifts are excluded; sick shifts still count, the schedule stands as
// planned. Derived on every change, never persisted.
type HoursSummary struct {
	EmployeeHours   map[uint]float64
	OpenHours       float64
	DepartmentHours map[string]float64
	TotalHours      float64
}

// SummarizeWeek rolls up paid hours per employee and per department.
func SummarizeWeek(shifts []*models.Shift) HoursSummary {
	summary := HoursSummary{
		EmployeeHours:   map[uint]float64{},
		DepartmentHours: map[string]float64{},
	}

	for _, shift := range shifts {
		if shift.IsCancelled() {
			continue
		}

		hours := shift.PaidHours()
		summary.TotalHours += hours
		summary.DepartmentHours[shift.Department] += hours

		if employeeID, ok := shift.Assignment().EmployeeID(); ok {
			summary.EmployeeHours[employeeID] += hours
		} else {
			summary.OpenHours += hours
		}
	}

	return summary
}

// OverCapEmployees returns the employees whose weekly totals exceed their
// max-hours cap. Advisory only: the rota surfaces the risk, it never blocks
// scheduling against it.
func OverCapEmployees(summary HoursSummary, employees []*models.Employee) []*models.Employee {
	var over []*models.Employee
	for _, employee := range employees {
		if employee.OverCap(summary.EmployeeHours[employee.ID]) {
			over = append(over, employee)
		}
	}
	return over
}

// BudgetUsage is one department's weekly utilization against its annual
// target spread over 52 weeks.
type BudgetUsage struct {
	Department   string
	Scheduled    float64
	WeeklyTarget float64
	Percent      float64
	Band         string
}

// DepartmentUsage compares scheduled hours against each budgeted
// department's weekly target. Departments with scheduled hours but no
// budget row are omitted: there is no target to compare against.
func DepartmentUsage(summary HoursSummary, budgets []*models.DepartmentBudget) []BudgetUsage {
	var usages []BudgetUsage

	for _, budget := range budgets {
		target := budget.WeeklyTarget()
		scheduled := summary.DepartmentHours[budget.Department]

		usage := BudgetUsage{
			Department:   budget.Department,
			Scheduled:    scheduled,
			WeeklyTarget: target,
		}

		if target > 0 {
			usage.Percent = scheduled / target * 100
		}

		switch {
		case usage.Percent > 100:
			usage.Band = BandOver
		case usage.Percent >= 85:
			usage.Band = BandWarning
		default:
			usage.Band = BandNormal
		}

		usages = append(usages, usage)
	}

	sort.Slice(usages, func(i, j int) bool {
		return usages[i].Department < usages[j].Department
	})

	return usages
}
