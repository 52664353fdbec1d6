package bootstrap

import (
	"log/slog"

	"stayrent/internal/app/commands"
	"stayrent/internal/app/dto"
	calendarapp "stayrent/internal/app/handlers/calendar"
	pricingapp "stayrent/internal/app/handlers/pricing"
	sessionsapp "stayrent/internal/app/handlers/sessions"
	"stayrent/internal/app/middleware"
	"stayrent/internal/app/outbox"
	"stayrent/internal/app/policies"
	"stayrent/internal/app/queries"
	"stayrent/internal/domain/booking"
)

type Deps struct {
	Calendars policies.CalendarPort
	Sessions  booking.SessionRepository
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Clock     policies.Clock
	Logger    *slog.Logger
	Validator middleware.Validator
	NewID     func() string
}

// Buses are the command and query buses with their middleware applied.
type Buses struct {
	Commands commands.Bus
	Queries  queries.Bus

	commandRegistry *commands.Registry
	queryRegistry   *queries.Registry
}

func NewBuses(d Deps) Buses {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = policies.SystemClock{}
	}
	if d.Encoder == nil {
		d.Encoder = outbox.JSONEventEncoder{}
	}
	if d.Validator == nil {
		d.Validator = middleware.NewStructValidator()
	}
	shared := sessionsapp.Deps{
		Sessions:  d.Sessions,
		Calendars: d.Calendars,
		Outbox:    d.Outbox,
		Encoder:   d.Encoder,
		Clock:     d.Clock,
		Logger:    d.Logger,
	}

	cmdRegistry := commands.NewRegistry()
	commands.RegisterHandler[sessionsapp.StartCommand, dto.Session](cmdRegistry, &sessionsapp.StartHandler{Deps: shared, NewID: d.NewID})
	commands.RegisterHandler[sessionsapp.SelectCheckInCommand, dto.Session](cmdRegistry, &sessionsapp.SelectCheckInHandler{Deps: shared})
	commands.RegisterHandler[sessionsapp.SelectCheckOutCommand, dto.Session](cmdRegistry, &sessionsapp.SelectCheckOutHandler{Deps: shared})
	commands.RegisterHandler[sessionsapp.PickerCommand, dto.Session](cmdRegistry, &sessionsapp.PickerHandler{Deps: shared})
	commands.RegisterHandler[sessionsapp.ShowMonthCommand, dto.Session](cmdRegistry, &sessionsapp.ShowMonthHandler{Deps: shared})
	commands.RegisterHandler[sessionsapp.ClearSelectionCommand, dto.Session](cmdRegistry, &sessionsapp.ClearSelectionHandler{Deps: shared})

	queryRegistry := queries.NewRegistry()
	queries.RegisterHandler[calendarapp.GetMonthQuery, dto.Calendar](queryRegistry, &calendarapp.GetMonthHandler{Calendars: d.Calendars, Clock: d.Clock})
	queries.RegisterHandler[pricingapp.QuoteQuery, dto.Quote](queryRegistry, &pricingapp.QuoteHandler{Calendars: d.Calendars})
	queries.RegisterHandler[sessionsapp.ViewQuery, dto.Session](queryRegistry, &sessionsapp.ViewHandler{Deps: shared})

	return Buses{
		Commands: middleware.ChainCommands(
			cmdRegistry,
			middleware.Logging(d.Logger),
			middleware.Validation(d.Validator),
			middleware.OutboxFlush(d.Outbox, d.Logger),
		),
		Queries: middleware.ChainQueries(
			queryRegistry,
			middleware.QueryLogging(d.Logger),
			middleware.QueryValidation(d.Validator),
		),
		commandRegistry: cmdRegistry,
		queryRegistry:   queryRegistry,
	}
}

// Routes lists the registered command and query keys.
func (b Buses) Routes() (commandKeys, queryKeys []string) {
	return b.commandRegistry.Keys(), b.queryRegistry.Keys()
}
