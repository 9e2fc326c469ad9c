package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"staff-rota/internal/config"
	"staff-rota/internal/feed"
	"staff-rota/internal/models"
	"staff-rota/internal/repository"
	"staff-rota/internal/service"
	"staff-rota/internal/tui"
	"staff-rota/pkg/rotaimport"
	"staff-rota/pkg/telegram"
	"staff-rota/pkg/timecalc"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// deps is everything the commands need, wired once per invocation.
type deps struct {
	cfg          *config.RotaConfig
	weekRepo     repository.RotaWeekRepository
	shiftRepo    repository.ShiftRepository
	employeeRepo repository.EmployeeRepository
	templateRepo repository.ShiftTemplateRepository
	leaveRepo    repository.LeaveDayRepository
	budgetRepo   repository.DepartmentBudgetRepository
	dayInfoRepo  repository.DayInfoRepository
	tokenRepo    repository.FeedTokenRepository

	shiftService    *service.ShiftService
	templateService *service.TemplateService
	weekService     *service.WeekService
	feedServer      *feed.Server
}

func openDeps() (*deps, error) {
	cfg := config.GetRotaConfig()

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	weekRepo, err := repository.NewGormRotaWeekRepository(db)
	if err != nil {
		return nil, err
	}
	shiftRepo, err := repository.NewGormShiftRepository(db)
	if err != nil {
		return nil, err
	}
	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		return nil, err
	}
	templateRepo, err := repository.NewGormShiftTemplateRepository(db)
	if err != nil {
		return nil, err
	}
	leaveRepo, err := repository.NewGormLeaveDayRepository(db)
	if err != nil {
		return nil, err
	}
	budgetRepo, err := repository.NewGormDepartmentBudgetRepository(db)
	if err != nil {
		return nil, err
	}
	dayInfoRepo, err := repository.NewGormDayInfoRepository(db)
	if err != nil {
		return nil, err
	}
	tokenRepo, err := repository.NewGormFeedTokenRepository(db)
	if err != nil {
		return nil, err
	}

	perms := cfg.PermissionChecker()

	var notifier service.Notifier
	if cfg.NotifierConfigured() {
		tg, err := telegram.NewNotifier(cfg.TelegramToken, cfg.StaffChannelChatID)
		if err != nil {
			logrus.Infof("Warning: Failed to create publish notifier: %v", err)
		} else {
			notifier = tg
		}
	}

	shiftService := service.NewShiftService(shiftRepo, weekRepo, employeeRepo, leaveRepo, perms, cfg.Departments)
	templateService := service.NewTemplateService(templateRepo, shiftRepo, weekRepo, perms)
	weekService := service.NewWeekService(weekRepo, shiftRepo, employeeRepo, templateRepo, leaveRepo, budgetRepo, dayInfoRepo, perms, notifier)
	feedServer := feed.NewServer(shiftRepo, weekRepo, tokenRepo, cfg.SiteName)

	return &deps{
		cfg:             cfg,
		weekRepo:        weekRepo,
		shiftRepo:       shiftRepo,
		employeeRepo:    employeeRepo,
		templateRepo:    templateRepo,
		leaveRepo:       leaveRepo,
		budgetRepo:      budgetRepo,
		dayInfoRepo:     dayInfoRepo,
		tokenRepo:       tokenRepo,
		shiftService:    shiftService,
		templateService: templateService,
		weekService:     weekService,
		feedServer:      feedServer,
	}, nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func parseDateFlag(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	date, err := rotaimport.ParseDate(raw)
	if err != nil {
		fail("Error: %v", err)
	}
	return date
}

// resolveWeek maps a date to its week row, creating the draft row on first
// access.
func resolveWeek(d *deps, raw string) *models.RotaWeek {
	week, err := d.weekRepo.GetOrCreate(service.MondayOf(parseDateFlag(raw)))
	if err != nil {
		fail("Error resolving week: %v", err)
	}
	return week
}

func reportShiftResult(result *service.ShiftResult, verb string) {
	if !result.Success {
		fail("Error (%s): %s", result.Kind, result.Message)
	}
	if result.NoOp {
		fmt.Println("Nothing to do: shift already there.")
		return
	}
	fmt.Printf("Shift %s (id %d, v%d).\n", verb, result.Shift.ID, result.Shift.Version)
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
}

func main() {
	var dateFlag string
	var startFlag, endFlag, departmentFlag, nameFlag, notesFlag, colourFlag string
	var breakFlag, versionFlag, dayOfWeekFlag int
	var employeeFlag uint
	var overnightFlag, openFlag bool

	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Staff rota scheduling for the back office",
		Long:  `Weekly shift grid with templates, budgets, publish workflow and a calendar feed.`,
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			err = tui.Run(d.weekService, d.shiftService, d.templateService,
				d.cfg.PermissionChecker(), d.cfg.Actor, d.cfg.SiteName, parseDateFlag(dateFlag))
			if err != nil {
				fail("Error: %v", err)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "any date inside the target week (YYYY-MM-DD, default today)")

	// shift commands

	shiftCmd := &cobra.Command{Use: "shift", Short: "Create and manage shifts"}

	shiftCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shift (omit --employee for an open shift)",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			week := resolveWeek(d, dateFlag)

			assignment := models.Unassigned()
			if !openFlag && employeeFlag != 0 {
				assignment = models.AssignedTo(employeeFlag)
			}

			result := d.shiftService.CreateShift(d.cfg.Actor, service.CreateShiftInput{
				WeekID:             week.ID,
				Assignment:         assignment,
				ShiftDate:          parseDateFlag(dateFlag),
				StartTime:          startFlag,
				EndTime:            endFlag,
				UnpaidBreakMinutes: breakFlag,
				IsOvernight:        overnightFlag,
				Department:         departmentFlag,
				Name:               nameFlag,
				Notes:              notesFlag,
			})
			reportShiftResult(result, "created")
		},
	}
	shiftCreateCmd.Flags().UintVar(&employeeFlag, "employee", 0, "employee ID")
	shiftCreateCmd.Flags().BoolVar(&openFlag, "open", false, "create as an open shift")
	shiftCreateCmd.Flags().StringVar(&startFlag, "start", "", "start time HH:MM")
	shiftCreateCmd.Flags().StringVar(&endFlag, "end", "", "end time HH:MM")
	shiftCreateCmd.Flags().IntVar(&breakFlag, "break", 0, "unpaid break minutes")
	shiftCreateCmd.Flags().BoolVar(&overnightFlag, "overnight", false, "shift ends the following day")
	shiftCreateCmd.Flags().StringVar(&departmentFlag, "department", "", "department")
	shiftCreateCmd.Flags().StringVar(&nameFlag, "name", "", "optional label")
	shiftCreateCmd.Flags().StringVar(&notesFlag, "notes", "", "notes")

	shiftUpdateCmd := &cobra.Command{
		Use:   "update <shift-id>",
		Short: "Edit a shift's times and details (date/assignment move via 'shift move')",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			id := parseID(args[0])
			result := d.shiftService.UpdateShift(d.cfg.Actor, id, versionFlag, service.UpdateShiftInput{
				StartTime:          startFlag,
				EndTime:            endFlag,
				UnpaidBreakMinutes: breakFlag,
				IsOvernight:        overnightFlag,
				Department:         departmentFlag,
				Name:               nameFlag,
				Notes:              notesFlag,
			})
			reportShiftResult(result, "updated")
		},
	}
	shiftUpdateCmd.Flags().IntVar(&versionFlag, "base-version", 0, "shift version this edit is based on")
	shiftUpdateCmd.Flags().StringVar(&startFlag, "start", "", "start time HH:MM")
	shiftUpdateCmd.Flags().StringVar(&endFlag, "end", "", "end time HH:MM")
	shiftUpdateCmd.Flags().IntVar(&breakFlag, "break", 0, "unpaid break minutes")
	shiftUpdateCmd.Flags().BoolVar(&overnightFlag, "overnight", false, "shift ends the following day")
	shiftUpdateCmd.Flags().StringVar(&departmentFlag, "department", "", "department")
	shiftUpdateCmd.Flags().StringVar(&nameFlag, "name", "", "optional label")
	shiftUpdateCmd.Flags().StringVar(&notesFlag, "notes", "", "notes")

	shiftMoveCmd := &cobra.Command{
		Use:   "move <shift-id>",
		Short: "Reassign a shift to another employee and/or date",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			id := parseID(args[0])

			target := models.Unassigned()
			if !openFlag && employeeFlag != 0 {
				target = models.AssignedTo(employeeFlag)
			}

			result := d.shiftService.MoveShift(d.cfg.Actor, id, versionFlag, target, parseDateFlag(dateFlag))
			reportShiftResult(result, "moved")
		},
	}
	shiftMoveCmd.Flags().UintVar(&employeeFlag, "employee", 0, "target employee ID")
	shiftMoveCmd.Flags().BoolVar(&openFlag, "open", false, "move to the open-shift row")
	shiftMoveCmd.Flags().IntVar(&versionFlag, "base-version", 0, "shift version this move is based on")

	shiftSickCmd := &cobra.Command{
		Use:   "sick <shift-id>",
		Short: "Mark a shift sick, keeping the schedule on record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			reportShiftResult(d.shiftService.MarkShiftSick(d.cfg.Actor, parseID(args[0])), "marked sick")
		},
	}

	shiftCancelCmd := &cobra.Command{
		Use:   "cancel <shift-id>",
		Short: "Soft-cancel a shift",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			reportShiftResult(d.shiftService.CancelShift(d.cfg.Actor, parseID(args[0])), "cancelled")
		},
	}

	shiftDeleteCmd := &cobra.Command{
		Use:   "delete <shift-id>",
		Short: "Hard-delete a shift (irreversible)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			reportShiftResult(d.shiftService.DeleteShift(d.cfg.Actor, parseID(args[0])), "deleted")
		},
	}

	shiftCmd.AddCommand(shiftCreateCmd, shiftUpdateCmd, shiftMoveCmd, shiftSickCmd, shiftCancelCmd, shiftDeleteCmd)

	// template commands

	templateCmd := &cobra.Command{Use: "template", Short: "Manage shift templates"}

	templateInput := func() service.TemplateInput {
		input := service.TemplateInput{
			Name:               nameFlag,
			StartTime:          startFlag,
			EndTime:            endFlag,
			UnpaidBreakMinutes: breakFlag,
			Department:         departmentFlag,
			Colour:             colourFlag,
		}
		if dayOfWeekFlag >= 0 {
			dow := dayOfWeekFlag
			input.DayOfWeek = &dow
		}
		if employeeFlag != 0 {
			id := employeeFlag
			input.EmployeeID = &id
		}
		return input
	}

	addTemplateFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&nameFlag, "name", "", "template name")
		cmd.Flags().StringVar(&startFlag, "start", "", "start time HH:MM")
		cmd.Flags().StringVar(&endFlag, "end", "", "end time HH:MM")
		cmd.Flags().IntVar(&breakFlag, "break", 0, "unpaid break minutes")
		cmd.Flags().StringVar(&departmentFlag, "department", "", "department")
		cmd.Flags().StringVar(&colourFlag, "colour", "", "display colour hint")
		cmd.Flags().IntVar(&dayOfWeekFlag, "day-of-week", -1, "0=Mon..6=Sun, omit for palette-only")
		cmd.Flags().UintVar(&employeeFlag, "employee", 0, "pre-assigned employee ID (omit for open shifts)")
	}

	templateCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a shift template",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			result := d.templateService.CreateTemplate(d.cfg.Actor, templateInput())
			if !result.Success {
				fail("Error (%s): %s", result.Kind, result.Message)
			}
			fmt.Printf("Template %q created (id %d).\n", result.Template.Name, result.Template.ID)
		},
	}
	addTemplateFlags(templateCreateCmd)

	templateUpdateCmd := &cobra.Command{
		Use:   "update <template-id>",
		Short: "Update a shift template",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			result := d.templateService.UpdateTemplate(d.cfg.Actor, parseID(args[0]), templateInput())
			if !result.Success {
				fail("Error (%s): %s", result.Kind, result.Message)
			}
			fmt.Printf("Template %q updated.\n", result.Template.Name)
		},
	}
	addTemplateFlags(templateUpdateCmd)

	templateDeactivateCmd := &cobra.Command{
		Use:   "deactivate <template-id>",
		Short: "Retire a template; existing shifts are untouched",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			result := d.templateService.DeactivateTemplate(d.cfg.Actor, parseID(args[0]))
			if !result.Success {
				fail("Error (%s): %s", result.Kind, result.Message)
			}
			fmt.Printf("Template %q deactivated.\n", result.Template.Name)
		},
	}

	templateApplyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Auto-populate a week from day-of-week templates (idempotent)",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			week := resolveWeek(d, dateFlag)
			result := d.templateService.AutoPopulateWeek(d.cfg.Actor, week.ID)
			if !result.Success {
				fail("Error (%s): %s", result.Kind, result.Message)
			}
			fmt.Printf("Created %d shift(s) for week of %s.\n",
				len(result.Created), week.WeekStart.Format("2006-01-02"))
		},
	}

	templateCmd.AddCommand(templateCreateCmd, templateUpdateCmd, templateDeactivateCmd, templateApplyCmd)

	// week commands

	weekCmd := &cobra.Command{Use: "week", Short: "Inspect and publish rota weeks"}

	weekShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a week's shifts and hour totals",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			view, err := d.weekService.AssembleWeek(parseDateFlag(dateFlag))
			if err != nil {
				fail("Error: %v", err)
			}

			week := view.Week
			status := week.Status
			if week.HasUnpublishedChanges {
				status += " (unpublished changes)"
			}
			fmt.Printf("Week of %s — %s, %d shifts\n",
				week.WeekStart.Format("2006-01-02"), status, len(view.Shifts))

			for _, shift := range view.Shifts {
				who := "open"
				if shift.Employee != nil {
					who = shift.Employee.FullName()
				}
				fmt.Printf("  #%-4d %s  %s-%s  %-12s %-10s %s\n",
					shift.ID, shift.DateKey(), shift.StartTime, shift.EndTime,
					shift.Department, shift.Status, who)
			}

			summary := service.SummarizeWeek(view.Shifts)
			fmt.Printf("Total %s scheduled", timecalc.FormatHours(summary.TotalHours))
			if summary.OpenHours > 0 {
				fmt.Printf(", %s still open", timecalc.FormatHours(summary.OpenHours))
			}
			fmt.Println()

			for _, usage := range service.DepartmentUsage(summary, view.Budgets) {
				fmt.Printf("  %-12s %s / %s weekly target (%.0f%%, %s)\n",
					usage.Department, timecalc.FormatHours(usage.Scheduled),
					timecalc.FormatHours(usage.WeeklyTarget), usage.Percent, usage.Band)
			}
		},
	}

	weekPublishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Make a week visible to staff",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			week := resolveWeek(d, dateFlag)
			result := d.weekService.PublishWeek(d.cfg.Actor, week.ID)
			if !result.Success {
				fail("Error (%s): %s", result.Kind, result.Message)
			}
			fmt.Printf("Week of %s published.\n", result.Week.WeekStart.Format("2006-01-02"))
		},
	}

	weekCmd.AddCommand(weekShowCmd, weekPublishCmd)

	// feed commands

	feedCmd := &cobra.Command{Use: "feed", Short: "Calendar feed for external clients"}

	feedServeCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the iCalendar feed over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}
			logrus.Infof("Serving rota feed on %s", d.cfg.FeedListenAddr)
			if err := http.ListenAndServe(d.cfg.FeedListenAddr, d.feedServer.Handler()); err != nil {
				fail("Error: %v", err)
			}
		},
	}

	feedTokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a feed subscription token (scope with --employee)",
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}

			token := &models.FeedToken{
				Token:    uuid.NewString(),
				Label:    nameFlag,
				IsActive: true,
			}
			if employeeFlag != 0 {
				id := employeeFlag
				token.EmployeeID = &id
			}

			if err := d.tokenRepo.Create(token); err != nil {
				fail("Error: %v", err)
			}
			fmt.Printf("Feed token: %s\nSubscribe at /rota.ics?token=%s\n", token.Token, token.Token)
		},
	}
	feedTokenCmd.Flags().UintVar(&employeeFlag, "employee", 0, "restrict the feed to one employee's shifts")
	feedTokenCmd.Flags().StringVar(&nameFlag, "label", "", "token label")

	feedCmd.AddCommand(feedServeCmd, feedTokenCmd)

	// import command

	importCmd := &cobra.Command{
		Use:   "import <export.json>",
		Short: "Load employees, leave, budgets and day context from a site export",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			d, err := openDeps()
			if err != nil {
				fail("Error: %v", err)
			}

			export, err := rotaimport.ParseFile(args[0])
			if err != nil {
				fail("Error: %v", err)
			}

			for _, e := range export.Employees {
				employee := &models.Employee{
					FirstName:      e.FirstName,
					LastName:       e.LastName,
					JobTitle:       e.JobTitle,
					MaxWeeklyHours: e.MaxWeeklyHours,
					IsActive:       true,
				}
				if err := d.employeeRepo.Create(employee); err != nil {
					fail("Error importing employee %s: %v", e.FirstName, err)
				}
			}

			for _, l := range export.LeaveDays {
				date, _ := rotaimport.ParseDate(l.Date)
				leave := &models.LeaveDay{EmployeeID: l.EmployeeID, LeaveDate: date, Status: l.Status}
				if err := d.leaveRepo.Create(leave); err != nil {
					fail("Error importing leave day: %v", err)
				}
			}

			for _, b := range export.Budgets {
				budget := &models.DepartmentBudget{Department: b.Department, BudgetYear: b.Year, AnnualHours: b.AnnualHours}
				if err := d.budgetRepo.Upsert(budget); err != nil {
					fail("Error importing budget: %v", err)
				}
			}

			for _, i := range export.DayInfo {
				date, _ := rotaimport.ParseDate(i.Date)
				info := &models.DayInfo{
					Date:            date,
					Events:          i.Events,
					PrivateBookings: i.PrivateBookings,
					TableCovers:     i.TableCovers,
					CalendarNotes:   i.CalendarNotes,
				}
				if err := d.dayInfoRepo.Upsert(info); err != nil {
					fail("Error importing day info: %v", err)
				}
			}

			fmt.Printf("Imported %d employees, %d leave days, %d budgets, %d day infos.\n",
				len(export.Employees), len(export.LeaveDays), len(export.Budgets), len(export.DayInfo))
		},
	}

	rootCmd.AddCommand(shiftCmd, templateCmd, weekCmd, feedCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseID(raw string) uint {
	var id uint
	if _, err := fmt.Sscanf(raw, "%d", &id); err != nil || id == 0 {
		fail("Error: invalid id %q", raw)
	}
	return id
}
