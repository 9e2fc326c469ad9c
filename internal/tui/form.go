package tui

import (
	"strconv"
	"time"

	"staff-rota/internal/models"
	"staff-rota/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// shiftForm is the creation dialog opened by the "+" affordance on a cell,
// pre-seeded with that cell's assignment and date.
type shiftForm struct {
	assignment models.Assignment
	date       time.Time
	weekID     uint

	inputs  []textinput.Model
	focused int
	errMsg  string
}

const (
	fieldStart = iota
	fieldEnd
	fieldBreak
	fieldDepartment
	fieldName
	fieldCount
)

func newShiftForm(weekID uint, assignment models.Assignment, date time.Time, defaultDepartment string) *shiftForm {
	labels := [fieldCount]string{"start (HH:MM)", "end (HH:MM)", "break mins", "department", "label"}
	placeholders := [fieldCount]string{"09:00", "17:00", "0", defaultDepartment, ""}

	inputs := make([]textinput.Model, fieldCount)
	for i := 0; i < fieldCount; i++ {
		input := textinput.New()
		input.Prompt = labels[i] + ": "
		input.Placeholder = placeholders[i]
		input.CharLimit = 40
		inputs[i] = input
	}
	inputs[fieldDepartment].SetValue(defaultDepartment)
	inputs[fieldBreak].SetValue("0")
	inputs[fieldStart].Focus()

	return &shiftForm{
		assignment: assignment,
		date:       date,
		weekID:     weekID,
		inputs:     inputs,
	}
}

func (f *shiftForm) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "tab", "down":
			f.focusField((f.focused + 1) % fieldCount)
			return nil
		case "shift+tab", "up":
			f.focusField((f.focused + fieldCount - 1) % fieldCount)
			return nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *shiftForm) focusField(index int) {
	f.inputs[f.focused].Blur()
	f.focused = index
	f.inputs[f.focused].Focus()
}

// Input builds the creation input, or records a field error and returns
// false. Full validation happens server-side; this only catches what would
// make the input meaningless.
func (f *shiftForm) Input() (service.CreateShiftInput, bool) {
	breakMinutes := 0
	if raw := f.inputs[fieldBreak].Value(); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			f.errMsg = "break must be a non-negative number"
			return service.CreateShiftInput{}, false
		}
		breakMinutes = parsed
	}

	return service.CreateShiftInput{
		WeekID:             f.weekID,
		Assignment:         f.assignment,
		ShiftDate:          f.date,
		StartTime:          f.inputs[fieldStart].Value(),
		EndTime:            f.inputs[fieldEnd].Value(),
		UnpaidBreakMinutes: breakMinutes,
		Department:         f.inputs[fieldDepartment].Value(),
		Name:               f.inputs[fieldName].Value(),
	}, true
}

func (f *shiftForm) View() string {
	who := "open shift"
	if !f.assignment.IsOpen() {
		who = "assigned shift"
	}

	view := titleStyle.Render("New "+who) + "  " +
		subtitleStyle.Render(f.date.Format("Mon 02 Jan")) + "\n\n"
	for i := range f.inputs {
		view += f.inputs[i].View() + "\n"
	}
	if f.errMsg != "" {
		view += "\n" + errorStyle.Render(f.errMsg)
	}
	view += "\n" + helpStyle.Render("enter: create   esc: cancel   tab: next field")
	return view
}
