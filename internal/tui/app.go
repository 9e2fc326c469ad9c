package tui

import (
	"fmt"
	"strings"
	"time"

	"staff-rota/internal/grid"
	"staff-rota/internal/models"
	"staff-rota/internal/permissions"
	"staff-rota/internal/service"
	"staff-rota/pkg/timecalc"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// App is the weekly rota grid screen. Rows are the open-shift row plus one
// row per active employee; columns are the week's seven days. Shift moves
// are a pick-up/drop gesture backed by the grid controller's state machine.
type App struct {
	weekService     *service.WeekService
	shiftService    *service.ShiftService
	templateService *service.TemplateService
	perms           permissions.Checker
	actor           string
	siteName        string

	controller *grid.Controller
	weekDate   time.Time

	cursorRow int
	cursorCol int

	width   int
	height  int
	loading bool
	toast   string
	isError bool
	form    *shiftForm
}

func NewApp(
	weekService *service.WeekService,
	shiftService *service.ShiftService,
	templateService *service.TemplateService,
	perms permissions.Checker,
	actor string,
	siteName string,
	weekDate time.Time,
) *App {
	return &App{
		weekService:     weekService,
		shiftService:    shiftService,
		templateService: templateService,
		perms:           perms,
		actor:           actor,
		siteName:        siteName,
		weekDate:        weekDate,
		loading:         true,
	}
}

// Run starts the grid around the given week date.
func Run(
	weekService *service.WeekService,
	shiftService *service.ShiftService,
	templateService *service.TemplateService,
	perms permissions.Checker,
	actor string,
	siteName string,
	weekDate time.Time,
) error {
	app := NewApp(weekService, shiftService, templateService, perms, actor, siteName, weekDate)
	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}

type weekLoadedMsg struct {
	view *service.WeekView
	err  error
}

type shiftActionMsg struct {
	result *service.ShiftResult
	verb   string
}

type populateDoneMsg struct {
	result *service.PopulateResult
}

type publishDoneMsg struct {
	result *service.PublishResult
}

func (a *App) Init() tea.Cmd {
	return a.loadWeek(a.weekDate)
}

func (a *App) loadWeek(date time.Time) tea.Cmd {
	return func() tea.Msg {
		view, err := a.weekService.AssembleWeek(date)
		return weekLoadedMsg{view: view, err: err}
	}
}

func (a *App) dispatchMove(req grid.MoveRequest) tea.Cmd {
	return func() tea.Msg {
		result := a.shiftService.MoveShift(a.actor, req.ShiftID, req.BaseVersion, req.Target, req.Date)
		return shiftActionMsg{result: result, verb: "moved"}
	}
}

func (a *App) dispatchCreate(input service.CreateShiftInput) tea.Cmd {
	return func() tea.Msg {
		result := a.shiftService.CreateShift(a.actor, input)
		return shiftActionMsg{result: result, verb: "created"}
	}
}

func (a *App) dispatchStatus(shiftID uint, sick bool) tea.Cmd {
	return func() tea.Msg {
		if sick {
			return shiftActionMsg{result: a.shiftService.MarkShiftSick(a.actor, shiftID), verb: "marked sick"}
		}
		return shiftActionMsg{result: a.shiftService.CancelShift(a.actor, shiftID), verb: "cancelled"}
	}
}

func (a *App) dispatchDelete(shiftID uint) tea.Cmd {
	return func() tea.Msg {
		return shiftActionMsg{result: a.shiftService.DeleteShift(a.actor, shiftID), verb: "deleted"}
	}
}

func (a *App) dispatchPopulate(weekID uint) tea.Cmd {
	return func() tea.Msg {
		return populateDoneMsg{result: a.templateService.AutoPopulateWeek(a.actor, weekID)}
	}
}

func (a *App) dispatchPublish(weekID uint) tea.Cmd {
	return func() tea.Msg {
		return publishDoneMsg{result: a.weekService.PublishWeek(a.actor, weekID)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case weekLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.setToast("failed to load week: "+msg.err.Error(), true)
			return a, nil
		}
		if a.controller == nil {
			a.controller = grid.NewController(msg.view)
		} else {
			a.controller.ReplaceView(msg.view)
		}
		a.clampCursor()
		if len(msg.view.FacetErrors) > 0 {
			a.setToast("some data failed to load, showing a partial week", true)
		}
		return a, nil

	case shiftActionMsg:
		a.controller.FinishMutation()
		result := msg.result
		if !result.Success {
			a.setToast(result.Message, true)
			if result.Kind == service.ResultNotFound || result.Kind == service.ResultConflict {
				// Local copy has drifted from the store, resync.
				a.loading = true
				return a, a.loadWeek(a.weekDate)
			}
			return a, nil
		}
		if result.NoOp {
			return a, nil
		}
		if msg.verb == "deleted" {
			a.controller.RemoveShift(result.Shift.ID)
		} else {
			a.controller.MergeShift(result.Shift)
		}
		note := "shift " + msg.verb
		if len(result.Warnings) > 0 {
			note += " — " + strings.Join(result.Warnings, "; ")
		}
		a.setToast(note, false)
		return a, nil

	case populateDoneMsg:
		a.controller.FinishMutation()
		result := msg.result
		if !result.Success {
			a.setToast(result.Message, true)
			return a, nil
		}
		for _, shift := range result.Created {
			a.controller.MergeShift(shift)
		}
		a.setToast(fmt.Sprintf("auto-populate created %d shift(s)", len(result.Created)), false)
		return a, nil

	case publishDoneMsg:
		a.controller.FinishMutation()
		result := msg.result
		if !result.Success {
			a.setToast(result.Message, true)
			return a, nil
		}
		a.controller.View().Week.Status = result.Week.Status
		a.controller.View().Week.HasUnpublishedChanges = result.Week.HasUnpublishedChanges
		a.setToast("week published", false)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.form != nil {
		return a, a.form.Update(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.form != nil {
		return a.handleFormKey(msg)
	}

	if a.loading || a.controller == nil {
		return a, nil
	}

	canEdit := a.perms.CanEditRota(a.actor)

	switch msg.String() {
	case "q":
		return a, tea.Quit

	case "up", "k":
		a.cursorRow--
		a.clampCursor()
	case "down", "j":
		a.cursorRow++
		a.clampCursor()
	case "left", "h":
		a.cursorCol--
		a.clampCursor()
	case "right", "l":
		a.cursorCol++
		a.clampCursor()

	case "[":
		a.loading = true
		a.weekDate = a.weekDate.AddDate(0, 0, -7)
		return a, a.loadWeek(a.weekDate)
	case "]":
		a.loading = true
		a.weekDate = a.weekDate.AddDate(0, 0, 7)
		return a, a.loadWeek(a.weekDate)
	case "r":
		a.loading = true
		return a, a.loadWeek(a.weekDate)

	case " ", "enter":
		if !canEdit {
			a.setToast("you do not have permission to edit the rota", true)
			return a, nil
		}
		return a.handleGesture()

	case "x", "esc":
		a.controller.Cancel()

	case "a":
		if !canEdit {
			a.setToast("you do not have permission to edit the rota", true)
			return a, nil
		}
		if a.controller.Busy() {
			return a, nil
		}
		cell := a.cursorCell()
		a.form = newShiftForm(a.controller.View().Week.ID, cell.Assignment, cell.Date, a.defaultDepartment())

	case "s":
		return a.statusAtCursor(true)
	case "c":
		return a.statusAtCursor(false)

	case "d":
		if !canEdit {
			a.setToast("you do not have permission to edit the rota", true)
			return a, nil
		}
		shift := a.shiftAtCursor()
		if shift == nil || !a.controller.BeginMutation() {
			return a, nil
		}
		return a, a.dispatchDelete(shift.ID)

	case "t":
		if !canEdit {
			a.setToast("you do not have permission to edit the rota", true)
			return a, nil
		}
		if !a.controller.BeginMutation() {
			return a, nil
		}
		return a, a.dispatchPopulate(a.controller.View().Week.ID)

	case "P":
		if !a.perms.CanPublishRota(a.actor) {
			a.setToast("you do not have permission to publish the rota", true)
			return a, nil
		}
		if !a.controller.BeginMutation() {
			return a, nil
		}
		return a, a.dispatchPublish(a.controller.View().Week.ID)
	}

	return a, nil
}

// handleGesture is space/enter: pick up the shift under the cursor, or drop
// the picked shift onto the cursor cell.
func (a *App) handleGesture() (tea.Model, tea.Cmd) {
	if a.controller.Busy() {
		return a, nil
	}

	if a.controller.Phase() == grid.PhaseIdle {
		shift := a.shiftAtCursor()
		if shift == nil {
			return a, nil
		}
		a.controller.PickUp(shift.ID)
		return a, nil
	}

	outcome, req := a.controller.Drop(a.cursorCell())
	if outcome == grid.DropMove {
		if !a.controller.BeginMutation() {
			return a, nil
		}
		return a, a.dispatchMove(req)
	}
	return a, nil
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.form = nil
		return a, nil
	case "enter":
		input, ok := a.form.Input()
		if !ok {
			return a, nil
		}
		if !a.controller.BeginMutation() {
			return a, nil
		}
		a.form = nil
		return a, a.dispatchCreate(input)
	}
	return a, a.form.Update(msg)
}

func (a *App) statusAtCursor(sick bool) (tea.Model, tea.Cmd) {
	if !a.perms.CanEditRota(a.actor) {
		a.setToast("you do not have permission to edit the rota", true)
		return a, nil
	}
	shift := a.shiftAtCursor()
	if shift == nil || !a.controller.BeginMutation() {
		return a, nil
	}
	return a, a.dispatchStatus(shift.ID, sick)
}

// Row 0 is the open-shift row; rows 1..n are employees.
func (a *App) rowCount() int {
	return 1 + len(a.controller.View().Employees)
}

func (a *App) rowAssignment(row int) models.Assignment {
	if row == 0 {
		return models.Unassigned()
	}
	return models.AssignedTo(a.controller.View().Employees[row-1].ID)
}

func (a *App) cursorCell() grid.Cell {
	return grid.Cell{
		Assignment: a.rowAssignment(a.cursorRow),
		Date:       a.controller.View().Dates[a.cursorCol],
	}
}

func (a *App) shiftAtCursor() *models.Shift {
	cell := a.cursorCell()
	shifts := a.controller.View().ShiftsFor(cell.Assignment, cell.Date)
	if len(shifts) == 0 {
		return nil
	}
	return shifts[0]
}

func (a *App) clampCursor() {
	if a.controller == nil {
		return
	}
	if a.cursorRow < 0 {
		a.cursorRow = 0
	}
	if max := a.rowCount() - 1; a.cursorRow > max {
		a.cursorRow = max
	}
	if a.cursorCol < 0 {
		a.cursorCol = 0
	}
	if a.cursorCol > 6 {
		a.cursorCol = 6
	}
}

func (a *App) defaultDepartment() string {
	view := a.controller.View()
	if len(view.Budgets) > 0 {
		return view.Budgets[0].Department
	}
	return ""
}

func (a *App) setToast(message string, isError bool) {
	a.toast = message
	a.isError = isError
}

func (a *App) View() string {
	if a.loading || a.controller == nil {
		return "\n  Loading rota...\n"
	}

	if a.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(a.form.View())
	}

	view := a.controller.View()
	summary := a.controller.Summary()

	var b strings.Builder

	b.WriteString(a.renderHeader(view))
	b.WriteString("\n")
	b.WriteString(a.renderDayHeaders(view))
	b.WriteString("\n")
	b.WriteString(a.renderRows(view, summary))
	b.WriteString("\n")
	b.WriteString(a.renderBudgets(view, summary))
	b.WriteString("\n")
	b.WriteString(a.renderFooter(view))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (a *App) renderHeader(view *service.WeekView) string {
	week := view.Week

	badge := draftBadgeStyle.Render("[draft]")
	if week.IsPublished() {
		if week.HasUnpublishedChanges {
			badge = pendingBadgeStyle.Render("[published — unpublished changes]")
		} else {
			badge = publishedBadgeStyle.Render("[published]")
		}
	}

	title := titleStyle.Render(a.siteName+" rota") + "  " +
		subtitleStyle.Render("week of "+week.WeekStart.Format("Mon 02 Jan 2006")) + "  " + badge

	if a.controller.Busy() {
		title += "  " + warningStyle.Render("working...")
	}
	return title + "\n"
}

func (a *App) renderDayHeaders(view *service.WeekView) string {
	cols := []string{headerStyle.Render(pad("", 18))}
	for i, date := range view.Dates {
		label := date.Format("Mon 02")
		if info := view.InfoFor(date); info != nil {
			if info.PrivateBookings > 0 {
				label += fmt.Sprintf(" *%d", info.PrivateBookings)
			}
			if info.TableCovers > 0 {
				label += fmt.Sprintf(" (%d)", info.TableCovers)
			}
		}
		style := headerStyle
		if i == a.cursorCol {
			style = cursorCellStyle
		}
		cols = append(cols, style.Render(pad(label, 16)))
	}
	return strings.Join(cols, "")
}

func (a *App) renderRows(view *service.WeekView, summary service.HoursSummary) string {
	var b strings.Builder

	overCap := map[uint]bool{}
	for _, employee := range service.OverCapEmployees(summary, view.Employees) {
		overCap[employee.ID] = true
	}

	for row := 0; row < a.rowCount(); row++ {
		assignment := a.rowAssignment(row)

		var label string
		if assignment.IsOpen() {
			label = openRowStyle.Render(pad("Open shifts", 18))
		} else {
			employee := view.Employees[row-1]
			hours := summary.EmployeeHours[employee.ID]
			name := fmt.Sprintf("%s %s", employee.FullName(), timecalc.FormatHours(hours))
			if overCap[employee.ID] {
				label = overCapStyle.Render(pad(name+" !", 18))
			} else {
				label = pad(name, 18)
			}
		}
		b.WriteString(label)

		for col, date := range view.Dates {
			b.WriteString(a.renderCell(view, assignment, date, row, col))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (a *App) renderCell(view *service.WeekView, assignment models.Assignment, date time.Time, row, col int) string {
	shifts := view.ShiftsFor(assignment, date)

	var label string
	switch {
	case len(shifts) == 0:
		label = "·"
	default:
		shift := shifts[0]
		label = shift.StartTime + "-" + shift.EndTime
		if len(shifts) > 1 {
			label += fmt.Sprintf(" +%d", len(shifts)-1)
		}
		switch shift.Status {
		case models.ShiftStatusSick:
			label = sickStyle.Render(label + " S")
		case models.ShiftStatusCancelled:
			label = cancelledStyle.Render(label)
		}
		if picked := a.controller.Picked(); picked != nil && picked.ID == shift.ID {
			label = pickedStyle.Render("» " + label)
		}
	}

	if employeeID, ok := assignment.EmployeeID(); ok && view.HasApprovedLeave(employeeID, date) {
		label += leaveStyle.Render(" L")
	}

	style := cellStyle
	if row == a.cursorRow && col == a.cursorCol {
		style = cursorCellStyle
	}
	return style.Render(pad(label, 14))
}

func (a *App) renderBudgets(view *service.WeekView, summary service.HoursSummary) string {
	usages := service.DepartmentUsage(summary, view.Budgets)
	if len(usages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Department budgets") + "\n")
	for _, usage := range usages {
		style := bandNormalStyle
		switch usage.Band {
		case service.BandWarning:
			style = bandWarningStyle
		case service.BandOver:
			style = bandOverStyle
		}
		b.WriteString(fmt.Sprintf("  %s %s / %s  %s\n",
			pad(usage.Department, 12),
			timecalc.FormatHours(usage.Scheduled),
			timecalc.FormatHours(usage.WeeklyTarget),
			style.Render(fmt.Sprintf("%.0f%%", usage.Percent)),
		))
	}
	return b.String()
}

func (a *App) renderFooter(view *service.WeekView) string {
	var b strings.Builder

	if picked := a.controller.Picked(); picked != nil {
		b.WriteString(warningStyle.Render(
			fmt.Sprintf("moving %s-%s — space: drop  x: cancel", picked.StartTime, picked.EndTime)) + "\n")
	}

	if a.toast != "" {
		if a.isError {
			b.WriteString(errorStyle.Render(a.toast) + "\n")
		} else {
			b.WriteString(toastStyle.Render(a.toast) + "\n")
		}
	}

	b.WriteString(helpStyle.Render(
		"space: pick up/drop  a: add  s: sick  c: cancel  d: delete  t: templates  P: publish  [/]: week  r: reload  q: quit"))
	return b.String()
}

func pad(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
