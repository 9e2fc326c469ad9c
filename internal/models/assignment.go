package models

import "strconv"

// Assignment says who a shift belongs to: a named employee, or nobody yet.
// An unassigned ("open") shift sits on its own grid row and can be claimed
// or drag-assigned. Using a value type instead of a sentinel employee ID
// keeps open shifts from ever colliding with a real employee row.
type Assignment struct {
	employeeID *uint
}

// Unassigned returns the open-shift assignment.
func Unassigned() Assignment {
	return Assignment{}
}

// AssignedTo returns an assignment to a specific employee.
func AssignedTo(employeeID uint) Assignment {
	id := employeeID
	return Assignment{employeeID: &id}
}

// AssignmentOf converts a nullable employee ID column to an Assignment.
func AssignmentOf(employeeID *uint) Assignment {
	if employeeID == nil {
		return Assignment{}
	}
	return AssignedTo(*employeeID)
}

// IsOpen reports whether the assignment is the open-shift row.
func (a Assignment) IsOpen() bool {
	return a.employeeID == nil
}

// EmployeeID returns the assigned employee, if any.
func (a Assignment) EmployeeID() (uint, bool) {
	if a.employeeID == nil {
		return 0, false
	}
	return *a.employeeID, true
}

// Pointer returns a fresh nullable-column value for storage.
func (a Assignment) Pointer() *uint {
	if a.employeeID == nil {
		return nil
	}
	id := *a.employeeID
	return &id
}

// Equal reports whether two assignments target the same row.
func (a Assignment) Equal(b Assignment) bool {
	if a.employeeID == nil || b.employeeID == nil {
		return a.employeeID == nil && b.employeeID == nil
	}
	return *a.employeeID == *b.employeeID
}

// String is used in log fields and cell keys.
func (a Assignment) String() string {
	if a.employeeID == nil {
		return "open"
	}
	return "employee:" + strconv.FormatUint(uint64(*a.employeeID), 10)
}
