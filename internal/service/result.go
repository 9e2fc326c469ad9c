package service

import "staff-rota/internal/models"

// ResultKind classifies why an action failed, so callers can branch without
// inspecting message text. No raw error crosses the service boundary.
type ResultKind string

const (
	ResultOK         ResultKind = "ok"
	ResultValidation ResultKind = "validation"
	ResultPermission ResultKind = "permission"
	ResultNotFound   ResultKind = "not_found"
	ResultConflict   ResultKind = "conflict"
	ResultInternal   ResultKind = "internal"
)

// ShiftResult is the discriminated outcome of a single-shift action.
// Warnings are advisory (duplicate shift, leave conflict) and accompany a
// successful result; they never block.
type ShiftResult struct {
	Success  bool           `json:"success"`
	Kind     ResultKind     `json:"kind"`
	Message  string         `json:"message,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	NoOp     bool           `json:"no_op,omitempty"`
	Shift    *models.Shift `json:"shift,omitempty"`
}

func shiftFailure(kind ResultKind, message string) *ShiftResult {
	return &ShiftResult{Kind: kind, Message: message}
}

// TemplateResult is the discriminated outcome of a template action.
type TemplateResult struct {
	Success  bool                  `json:"success"`
	Kind     ResultKind            `json:"kind"`
	Message  string                `json:"message,omitempty"`
	Template *models.ShiftTemplate `json:"template,omitempty"`
}

func templateFailure(kind ResultKind, message string) *TemplateResult {
	return &TemplateResult{Kind: kind, Message: message}
}

// PopulateResult reports what auto-population created. Zero created shifts
// is a valid, successful outcome.
type PopulateResult struct {
	Success bool            `json:"success"`
	Kind    ResultKind      `json:"kind"`
	Message string          `json:"message,omitempty"`
	Created []*models.Shift `json:"created,omitempty"`
}

// PublishResult is the discriminated outcome of publishing a week.
type PublishResult struct {
	Success bool             `json:"success"`
	Kind    ResultKind       `json:"kind"`
	Message string           `json:"message,omitempty"`
	Week    *models.RotaWeek `json:"week,omitempty"`
}
