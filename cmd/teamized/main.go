package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/calendar"
	"github.com/teamized/teamized/internal/club"
	"github.com/teamized/teamized/internal/config"
	"github.com/teamized/teamized/internal/dashboard"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/nav"
	"github.com/teamized/teamized/internal/session"
	"github.com/teamized/teamized/internal/syncer"
	"github.com/teamized/teamized/internal/teams"
	"github.com/teamized/teamized/internal/todo"
	"github.com/teamized/teamized/internal/workingtime"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for teamized.
type CLI struct {
	Version   kong.VersionFlag `help:"Show version." short:"V"`
	Login     LoginCmd         `cmd:"" help:"Sign in and store the session."`
	Logout    LogoutCmd        `cmd:"" help:"Remove the stored session."`
	Dashboard DashboardCmd     `cmd:"" help:"Open the interactive dashboard TUI."`
	Teams     TeamsCmd         `cmd:"" help:"Manage teams."`
	Invite    InviteCmd        `cmd:"" help:"Check or accept a team invite."`
	Todo      TodoCmd          `cmd:"" help:"Manage to-do lists."`
	Calendar  CalendarCmd      `cmd:"" help:"Manage calendars and events."`
	Worktime  WorktimeCmd      `cmd:"" help:"Track and manage work sessions."`
	Club      ClubCmd          `cmd:"" help:"Manage a team's linked club."`
}

// Exit codes.
const (
	exitSuccess = 0
	exitAPI     = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return exitAPI
	}
	return exitSetup
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/teamized/config.yaml"),
		".teamized/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds a console logger to stderr for plain commands.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Encoding = "console"
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zcfg.Build()
}

// newTUILogger builds a file logger for dashboard mode, where log lines on
// the terminal would corrupt the UI. With no log file configured, logging
// is disabled entirely.
func newTUILogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{cfg.Log.File}
	zcfg.ErrorOutputPaths = []string{cfg.Log.File}
	return zcfg.Build()
}

// sessionStore returns the persistent session store under the user config dir.
func sessionStore() *session.FileStore {
	return session.NewFileStore(os.ExpandEnv("$HOME/.config/teamized"))
}

// app bundles the wired client stack for one command invocation.
type app struct {
	client   *api.Client
	store    *cache.Store
	nav      *nav.State
	sync     *syncer.Synchronizer
	teams    *teams.Service
	todo     *todo.Service
	calendar *calendar.Service
	worktime *workingtime.Service
	club     *club.Service
	logger   *zap.Logger
}

// buildApp loads the stored session and wires client, cache, navigation and
// synchronizer. navigator may be nil, in which case link-only navigation is
// used.
func buildApp(cfg *config.Config, logger *zap.Logger, navigator syncer.Navigator) (*app, error) {
	sess, found, err := sessionStore().Load()
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("not signed in (run: teamized login)")
	}

	baseURL := cfg.API.BaseURL
	if sess.BaseURL != "" {
		baseURL = sess.BaseURL
	}

	client := api.NewClient(baseURL, sess.Token,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger))
	store := cache.NewStore(logger)
	navState := nav.NewState(logger)
	if p := nav.Page(cfg.UI.StartPage); p.Valid() {
		_ = navState.SelectPage(p)
	}

	if navigator == nil {
		navigator = &syncer.LinkNavigator{Nav: navState, Store: store}
	}
	sync := syncer.New(client, store, navigator, logger)

	return &app{
		client:   client,
		store:    store,
		nav:      navState,
		sync:     sync,
		teams:    teams.NewService(client, store, sync, logger),
		todo:     todo.NewService(client, store, sync),
		calendar: calendar.NewService(client, store, sync),
		worktime: workingtime.NewService(client, store, sync),
		club:     club.NewService(client, store, sync),
		logger:   logger,
	}, nil
}

// --- Login / logout ---

// LoginCmd stores the session token for subsequent commands.
type LoginCmd struct {
	Token string `arg:"" help:"Session token issued by the Teamized account page." env:"TEAMIZED_TOKEN"`
	URL   string `help:"API base URL override for this session."`
}

// Run validates and persists the session.
func (l *LoginCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if exp, ok := api.TokenExpiry(l.Token); ok {
		if exp.Before(time.Now()) {
			return fmt.Errorf("login: token expired at %s", exp.Format(time.RFC3339))
		}
		fmt.Printf("Token valid until %s\n", exp.Format(time.RFC3339))
	}

	sess := session.Session{BaseURL: l.URL, Token: l.Token}
	if err := sessionStore().Save(sess); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	baseURL := cfg.API.BaseURL
	if l.URL != "" {
		baseURL = l.URL
	}
	fmt.Printf("Signed in against %s\n", baseURL)
	return nil
}

// LogoutCmd removes the stored session.
type LogoutCmd struct{}

// Run deletes the persisted session.
func (l *LogoutCmd) Run() error {
	if err := sessionStore().Remove(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("Signed out")
	return nil
}

// --- Dashboard ---

// DashboardCmd opens the interactive dashboard TUI.
type DashboardCmd struct {
	Link  string `help:"Start link to restore, e.g. '?p=calendars&t=<team-id>'."`
	NoTUI bool   `help:"Print a plain team overview instead of the TUI." default:"false"`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the dashboard.
func (d *DashboardCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if d.NoTUI || !isTTY {
		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		return d.runPlain(os.Stdout, cfg, logger)
	}

	logger, err := newTUILogger(cfg)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := buildApp(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	renderer := dashboard.NewProgramRenderer(&syncer.LinkNavigator{Nav: a.nav, Store: a.store})
	a.sync = syncer.New(a.client, a.store, renderer, logger)

	if d.Link != "" {
		teamID, err := a.nav.ImportFromLink(d.Link)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		a.store.SelectTeam(teamID)
	}

	m := dashboard.NewModel(a.store, a.nav, a.sync)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	renderer.Attach(prog)
	_, err = prog.Run()
	return err
}

// runPlain prints a one-shot team overview without the TUI.
func (d *DashboardCmd) runPlain(w io.Writer, cfg *config.Config, logger *zap.Logger) error {
	a, err := buildApp(cfg, logger, nil)
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	teamList, err := a.sync.LoadTeams(ctx)
	if err != nil {
		return err
	}

	for _, t := range teamList {
		marker := "  "
		if t.ID == a.store.DefaultTeamID() {
			marker = "* "
		}
		_, _ = fmt.Fprintf(w, "%s%s  (%d members)\n", marker, t.Name, t.MemberCount)
		if t.Description != "" {
			_, _ = fmt.Fprintf(w, "    %s\n", t.Description)
		}
	}
	return nil
}

// --- Teams ---

// TeamsCmd groups team management subcommands.
type TeamsCmd struct {
	List   TeamsListCmd   `cmd:"" help:"List all teams."`
	Create TeamsCreateCmd `cmd:"" help:"Create a team."`
	Edit   TeamsEditCmd   `cmd:"" help:"Edit a team's name and description."`
	Delete TeamsDeleteCmd `cmd:"" help:"Delete a team."`
	Leave  TeamsLeaveCmd  `cmd:"" help:"Leave a team."`
}

// TeamsListCmd lists all teams.
type TeamsListCmd struct{}

// Run fetches and prints the team list.
func (t *TeamsListCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		teamList, err := a.teams.Refresh(ctx)
		if err != nil {
			return err
		}
		for _, tm := range teamList {
			marker := "  "
			if tm.ID == a.store.DefaultTeamID() {
				marker = "* "
			}
			fmt.Printf("%s%s  %s\n", marker, tm.ID, tm.Name)
		}
		return nil
	})
}

// TeamsCreateCmd creates a team.
type TeamsCreateCmd struct {
	Name        string `arg:"" help:"Team name."`
	Description string `help:"Team description."`
}

// Run creates the team and prints its id.
func (t *TeamsCreateCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		team, err := a.teams.Create(ctx, t.Name, t.Description)
		if err != nil {
			return err
		}
		fmt.Printf("Created team %s (%s)\n", team.Name, team.ID)
		return nil
	})
}

// TeamsEditCmd edits a team.
type TeamsEditCmd struct {
	ID          string `arg:"" help:"Team id."`
	Name        string `help:"New team name."`
	Description string `help:"New team description."`
}

// Run updates the team.
func (t *TeamsEditCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		team, err := a.teams.Edit(ctx, t.ID, t.Name, t.Description)
		if err != nil {
			return err
		}
		fmt.Printf("Updated team %s\n", team.Name)
		return nil
	})
}

// TeamsDeleteCmd deletes a team.
type TeamsDeleteCmd struct {
	ID string `arg:"" help:"Team id."`
}

// Run deletes the team.
func (t *TeamsDeleteCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.teams.Delete(ctx, t.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted team %s\n", t.ID)
		return nil
	})
}

// TeamsLeaveCmd leaves a team.
type TeamsLeaveCmd struct {
	ID string `arg:"" help:"Team id."`
}

// Run removes the caller's membership.
func (t *TeamsLeaveCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.teams.Leave(ctx, t.ID); err != nil {
			return err
		}
		fmt.Printf("Left team %s\n", t.ID)
		return nil
	})
}

// --- Invites ---

// InviteCmd groups invite subcommands.
type InviteCmd struct {
	Check  InviteCheckCmd  `cmd:"" help:"Check an invite token without accepting it."`
	Accept InviteAcceptCmd `cmd:"" help:"Accept an invite token and join the team."`
}

// InviteCheckCmd checks an invite token.
type InviteCheckCmd struct {
	Token string `arg:"" help:"Invite token (UUID)."`
}

// Run checks the token and reports the target team.
func (i *InviteCheckCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		info, err := a.teams.CheckInvite(ctx, i.Token)
		if err != nil {
			return err
		}
		if !info.Valid() {
			fmt.Println("Invite is not valid")
			return nil
		}
		fmt.Printf("Valid invite for team %s\n", info.Team.Name)
		return nil
	})
}

// InviteAcceptCmd accepts an invite token.
type InviteAcceptCmd struct {
	Token string `arg:"" help:"Invite token (UUID)."`
}

// Run accepts the invite and joins the team.
func (i *InviteAcceptCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		team, err := a.teams.AcceptInvite(ctx, i.Token)
		if err != nil {
			return err
		}
		fmt.Printf("Joined team %s (%s)\n", team.Name, team.ID)
		return nil
	})
}

// --- To-do lists ---

// TodoCmd groups to-do list subcommands.
type TodoCmd struct {
	List       TodoListCmd       `cmd:"" help:"List a team's to-do lists and their items."`
	Create     TodoCreateCmd     `cmd:"" help:"Create a to-do list."`
	Delete     TodoDeleteCmd     `cmd:"" help:"Delete a to-do list."`
	Add        TodoAddCmd        `cmd:"" help:"Add an item to a to-do list."`
	Done       TodoDoneCmd       `cmd:"" help:"Mark an item as done."`
	RemoveItem TodoRemoveItemCmd `cmd:"" help:"Remove an item from a to-do list."`
}

// TodoListCmd lists the to-do lists of a team.
type TodoListCmd struct {
	Team string `arg:"" help:"Team id."`
}

// Run fetches and prints the lists with their items.
func (t *TodoListCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		lists, err := a.todo.Lists(ctx, t.Team)
		if err != nil {
			return err
		}
		for _, l := range lists {
			fmt.Printf("%s  %s\n", l.ID, l.Name)
			for _, item := range l.Items {
				mark := "[ ]"
				if item.Done {
					mark = "[x]"
				}
				fmt.Printf("  %s %s  %s\n", mark, item.ID, item.Name)
			}
		}
		return nil
	})
}

// TodoCreateCmd creates a to-do list.
type TodoCreateCmd struct {
	Team        string `arg:"" help:"Team id."`
	Name        string `arg:"" help:"List name."`
	Description string `help:"List description."`
	Color       string `help:"List color." default:"#212529"`
}

// Run creates the list and prints its id.
func (t *TodoCreateCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		list, err := a.todo.CreateList(ctx, t.Team, api.TodolistRequest{
			Name:        t.Name,
			Description: t.Description,
			Color:       t.Color,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created list %s (%s)\n", list.Name, list.ID)
		return nil
	})
}

// TodoDeleteCmd deletes a to-do list.
type TodoDeleteCmd struct {
	Team string `arg:"" help:"Team id."`
	List string `arg:"" help:"List id."`
}

// Run deletes the list.
func (t *TodoDeleteCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if err := a.todo.DeleteList(ctx, t.Team, t.List); err != nil {
			return err
		}
		fmt.Printf("Deleted list %s\n", t.List)
		return nil
	})
}

// TodoAddCmd adds an item to a to-do list.
type TodoAddCmd struct {
	Team        string `arg:"" help:"Team id."`
	List        string `arg:"" help:"List id."`
	Name        string `arg:"" help:"Item text."`
	Description string `help:"Item description."`
}

// Run adds the item.
func (t *TodoAddCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.todo.Lists(ctx, t.Team); err != nil {
			return err
		}
		item, err := a.todo.CreateItem(ctx, t.Team, t.List, api.TodolistItemRequest{
			Name:        t.Name,
			Description: t.Description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added item %s (%s)\n", item.Name, item.ID)
		return nil
	})
}

// TodoDoneCmd marks an item as done.
type TodoDoneCmd struct {
	Team string `arg:"" help:"Team id."`
	List string `arg:"" help:"List id."`
	Item string `arg:"" help:"Item id."`
}

// Run resubmits the item with done set, keeping its text.
func (t *TodoDoneCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		lists, err := a.todo.Lists(ctx, t.Team)
		if err != nil {
			return err
		}
		var current *model.TodolistItem
		for _, l := range lists {
			if l.ID != t.List {
				continue
			}
			if item, ok := l.Items[t.Item]; ok {
				current = &item
			}
		}
		if current == nil {
			return fmt.Errorf("todo: no item %s in list %s", t.Item, t.List)
		}
		item, err := a.todo.EditItem(ctx, t.Team, t.List, t.Item, api.TodolistItemRequest{
			Name:        current.Name,
			Description: current.Description,
			Done:        true,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Done: %s\n", item.Name)
		return nil
	})
}

// TodoRemoveItemCmd removes an item from a to-do list.
type TodoRemoveItemCmd struct {
	Team string `arg:"" help:"Team id."`
	List string `arg:"" help:"List id."`
	Item string `arg:"" help:"Item id."`
}

// Run removes the item.
func (t *TodoRemoveItemCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.todo.Lists(ctx, t.Team); err != nil {
			return err
		}
		if err := a.todo.DeleteItem(ctx, t.Team, t.List, t.Item); err != nil {
			return err
		}
		fmt.Printf("Removed item %s\n", t.Item)
		return nil
	})
}

// --- Calendars ---

// CalendarCmd groups calendar subcommands.
type CalendarCmd struct {
	List        CalendarListCmd        `cmd:"" help:"List a team's calendars and events."`
	Create      CalendarCreateCmd      `cmd:"" help:"Create a calendar."`
	Delete      CalendarDeleteCmd      `cmd:"" help:"Delete a calendar."`
	AddEvent    CalendarAddEventCmd    `cmd:"" help:"Add an event to a calendar."`
	DeleteEvent CalendarDeleteEventCmd `cmd:"" help:"Delete an event from a calendar."`
}

// CalendarListCmd lists the calendars of a team.
type CalendarListCmd struct {
	Team string `arg:"" help:"Team id."`
}

// Run fetches and prints the calendars with their events.
func (c *CalendarListCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		calendars, err := a.calendar.Calendars(ctx, c.Team)
		if err != nil {
			return err
		}
		for _, cal := range calendars {
			fmt.Printf("%s  %s\n", cal.ID, cal.Name)
			for _, ev := range cal.Events {
				when := ""
				if ev.FullDay && ev.DStart != nil {
					when = *ev.DStart
				} else if ev.DTStart != nil {
					when = *ev.DTStart
				}
				fmt.Printf("  %s  %s  %s\n", ev.ID, when, ev.Name)
			}
		}
		return nil
	})
}

// CalendarCreateCmd creates a calendar.
type CalendarCreateCmd struct {
	Team        string `arg:"" help:"Team id."`
	Name        string `arg:"" help:"Calendar name."`
	Description string `help:"Calendar description."`
	Color       string `help:"Calendar color." default:"#212529"`
}

// Run creates the calendar and prints its id.
func (c *CalendarCreateCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		cal, err := a.calendar.Create(ctx, c.Team, api.CalendarRequest{
			Name:        c.Name,
			Description: c.Description,
			Color:       c.Color,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created calendar %s (%s)\n", cal.Name, cal.ID)
		return nil
	})
}

// CalendarDeleteCmd deletes a calendar.
type CalendarDeleteCmd struct {
	Team     string `arg:"" help:"Team id."`
	Calendar string `arg:"" help:"Calendar id."`
}

// Run deletes the calendar.
func (c *CalendarDeleteCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if err := a.calendar.Delete(ctx, c.Team, c.Calendar); err != nil {
			return err
		}
		fmt.Printf("Deleted calendar %s\n", c.Calendar)
		return nil
	})
}

// CalendarAddEventCmd adds an event to a calendar.
type CalendarAddEventCmd struct {
	Team        string `arg:"" help:"Team id."`
	Calendar    string `arg:"" help:"Calendar id."`
	Name        string `arg:"" help:"Event name."`
	Start       string `required:"" help:"Start (YYYY-MM-DD for full-day, RFC 3339 otherwise)."`
	End         string `required:"" help:"End (same format as --start)."`
	FullDay     bool   `help:"Create a full-day event."`
	Location    string `help:"Event location."`
	Description string `help:"Event description."`
}

// Run adds the event.
func (c *CalendarAddEventCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.calendar.Calendars(ctx, c.Team); err != nil {
			return err
		}
		req := api.CalendarEventRequest{
			Name:        c.Name,
			Description: c.Description,
			Location:    c.Location,
			FullDay:     c.FullDay,
		}
		if c.FullDay {
			req.DStart, req.DEnd = &c.Start, &c.End
		} else {
			req.DTStart, req.DTEnd = &c.Start, &c.End
		}
		ev, err := a.calendar.CreateEvent(ctx, c.Team, c.Calendar, req)
		if err != nil {
			return err
		}
		fmt.Printf("Added event %s (%s)\n", ev.Name, ev.ID)
		return nil
	})
}

// CalendarDeleteEventCmd deletes an event.
type CalendarDeleteEventCmd struct {
	Team     string `arg:"" help:"Team id."`
	Calendar string `arg:"" help:"Calendar id."`
	Event    string `arg:"" help:"Event id."`
}

// Run deletes the event.
func (c *CalendarDeleteEventCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.calendar.Calendars(ctx, c.Team); err != nil {
			return err
		}
		if err := a.calendar.DeleteEvent(ctx, c.Team, c.Calendar, c.Event); err != nil {
			return err
		}
		fmt.Printf("Deleted event %s\n", c.Event)
		return nil
	})
}

// --- Working time ---

// WorktimeCmd groups work-session subcommands.
type WorktimeCmd struct {
	List   WorktimeListCmd   `cmd:"" help:"List your work sessions on a team."`
	Start  WorktimeStartCmd  `cmd:"" help:"Start live tracking on a team."`
	Stop   WorktimeStopCmd   `cmd:"" help:"Stop the running tracking session."`
	Status WorktimeStatusCmd `cmd:"" help:"Show the running tracking session, if any."`
	Delete WorktimeDeleteCmd `cmd:"" help:"Delete a work session."`
}

// WorktimeListCmd lists the caller's sessions on a team.
type WorktimeListCmd struct {
	Team string `arg:"" help:"Team id."`
}

// Run fetches and prints the sessions.
func (w *WorktimeListCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		sessions, err := a.worktime.Sessions(ctx, w.Team)
		if err != nil {
			return err
		}
		var total float64
		for _, ws := range sessions {
			total += ws.Duration
			fmt.Printf("%s  %s  %s  %s\n", ws.ID, ws.TimeStart,
				time.Duration(ws.Duration*float64(time.Second)).Round(time.Minute), ws.Note)
		}
		fmt.Printf("Total: %s\n", time.Duration(total*float64(time.Second)).Round(time.Minute))
		return nil
	})
}

// WorktimeStartCmd starts live tracking.
type WorktimeStartCmd struct {
	Team string `arg:"" help:"Team id."`
}

// Run begins a tracking session.
func (w *WorktimeStartCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		ws, err := a.worktime.StartTracking(ctx, w.Team)
		if err != nil {
			return err
		}
		fmt.Printf("Tracking started at %s (%s)\n", ws.TimeStart, ws.ID)
		return nil
	})
}

// WorktimeStopCmd stops the running tracking session.
type WorktimeStopCmd struct{}

// Run ends the tracking session and reports its duration.
func (w *WorktimeStopCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		ws, err := a.worktime.StopTracking(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Tracked %s\n", time.Duration(ws.Duration*float64(time.Second)).Round(time.Second))
		return nil
	})
}

// WorktimeStatusCmd shows the running tracking session.
type WorktimeStatusCmd struct{}

// Run prints the live session, or a notice when none is running.
func (w *WorktimeStatusCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		ws, running, err := a.worktime.LiveTracking(ctx)
		if err != nil {
			return err
		}
		if !running {
			fmt.Println("No tracking session running")
			return nil
		}
		fmt.Printf("Tracking since %s on team %s\n", ws.TimeStart, ws.TeamID)
		return nil
	})
}

// WorktimeDeleteCmd deletes a work session.
type WorktimeDeleteCmd struct {
	Team    string `arg:"" help:"Team id."`
	Session string `arg:"" help:"Session id."`
}

// Run deletes the session.
func (w *WorktimeDeleteCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if err := a.worktime.Delete(ctx, w.Team, w.Session); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", w.Session)
		return nil
	})
}

// --- Club ---

// ClubCmd groups club subcommands.
type ClubCmd struct {
	Show         ClubShowCmd         `cmd:"" help:"Show a team's club with members and groups."`
	Create       ClubCreateCmd       `cmd:"" help:"Link a new club to a team."`
	Delete       ClubDeleteCmd       `cmd:"" help:"Delete a team's club."`
	AddMember    ClubAddMemberCmd    `cmd:"" help:"Add a club member."`
	RemoveMember ClubRemoveMemberCmd `cmd:"" help:"Remove a club member."`
	AddGroup     ClubAddGroupCmd     `cmd:"" help:"Create a club group."`
}

// ClubShowCmd shows the club linked to a team.
type ClubShowCmd struct {
	Team string `arg:"" help:"Team id."`
}

// Run prints the club record, its members and its groups.
func (c *ClubShowCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		d := a.store.TeamData(c.Team)
		if d == nil {
			return fmt.Errorf("club: unknown team %s", c.Team)
		}
		if d.Team.Club == nil {
			fmt.Println("This team has no linked club")
			return nil
		}
		fmt.Printf("%s (%s)\n", d.Team.Club.Name, d.Team.Club.ID)

		members, err := a.club.Members(ctx, c.Team)
		if err != nil {
			return err
		}
		for _, m := range members {
			fmt.Printf("  %s  %s %s  %s\n", m.ID, m.FirstName, m.LastName, m.Email)
		}

		groups, err := a.club.Groups(ctx, c.Team)
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Printf("  group %s  %s (%d members)\n", g.ID, g.Name, len(g.MemberIDs))
		}
		return nil
	})
}

// ClubCreateCmd links a new club to a team.
type ClubCreateCmd struct {
	Team        string `arg:"" help:"Team id."`
	Name        string `arg:"" help:"Club name."`
	Description string `help:"Club description."`
	Slug        string `help:"Club URL slug."`
}

// Run creates the club.
func (c *ClubCreateCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		clb, err := a.club.Create(ctx, c.Team, api.ClubRequest{
			Name:        c.Name,
			Description: c.Description,
			Slug:        c.Slug,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created club %s (%s)\n", clb.Name, clb.ID)
		return nil
	})
}

// ClubDeleteCmd deletes a team's club.
type ClubDeleteCmd struct {
	Team string `arg:"" help:"Team id."`
}

// Run deletes the club.
func (c *ClubDeleteCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if err := a.club.Delete(ctx, c.Team); err != nil {
			return err
		}
		fmt.Println("Deleted club")
		return nil
	})
}

// ClubAddMemberCmd adds a club member.
type ClubAddMemberCmd struct {
	Team      string `arg:"" help:"Team id."`
	Email     string `arg:"" help:"Member email."`
	FirstName string `required:"" help:"Member first name."`
	LastName  string `required:"" help:"Member last name."`
	BirthDate string `help:"Member birth date (YYYY-MM-DD)."`
}

// Run adds the member.
func (c *ClubAddMemberCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.club.Members(ctx, c.Team); err != nil {
			return err
		}
		m, err := a.club.CreateMember(ctx, c.Team, api.ClubMemberRequest{
			Email:     c.Email,
			FirstName: c.FirstName,
			LastName:  c.LastName,
			BirthDate: c.BirthDate,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added club member %s %s (%s)\n", m.FirstName, m.LastName, m.ID)
		return nil
	})
}

// ClubRemoveMemberCmd removes a club member.
type ClubRemoveMemberCmd struct {
	Team   string `arg:"" help:"Team id."`
	Member string `arg:"" help:"Club member id."`
}

// Run removes the member.
func (c *ClubRemoveMemberCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.club.Members(ctx, c.Team); err != nil {
			return err
		}
		if err := a.club.DeleteMember(ctx, c.Team, c.Member); err != nil {
			return err
		}
		fmt.Printf("Removed club member %s\n", c.Member)
		return nil
	})
}

// ClubAddGroupCmd creates a club group.
type ClubAddGroupCmd struct {
	Team        string `arg:"" help:"Team id."`
	Name        string `arg:"" help:"Group name."`
	Description string `help:"Group description."`
}

// Run creates the group.
func (c *ClubAddGroupCmd) Run() error {
	return withSyncedApp(func(ctx context.Context, a *app) error {
		if _, err := a.club.Groups(ctx, c.Team); err != nil {
			return err
		}
		g, err := a.club.CreateGroup(ctx, c.Team, api.ClubGroupRequest{
			Name:        c.Name,
			Description: c.Description,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created group %s (%s)\n", g.Name, g.ID)
		return nil
	})
}

// withApp wires config, logger and the client stack, then runs fn with a
// signal-aware context. Shared by all plain (non-TUI) commands.
func withApp(fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return fn(ctx, a)
}

// withSyncedApp is withApp plus an initial bulk team sync, for commands
// whose cache writes require the target team to be cached.
func withSyncedApp(fn func(ctx context.Context, a *app) error) error {
	return withApp(func(ctx context.Context, a *app) error {
		if _, err := a.sync.LoadTeams(ctx); err != nil {
			return err
		}
		return fn(ctx, a)
	})
}

func main() {
	// A .env in the working directory may carry TEAMIZED_* overrides.
	_ = godotenv.Load(filepath.Join(".", ".env"))

	var cli CLI
	ctx := kong.Parse(&cli, kong.Vars{"version": version + " " + commit + " " + date})
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
