package schema

// Custom string types for type safety.
type (
	// IntervalKind represents a named query window.
	IntervalKind string

	// ResolveMode represents how an interval is turned into a storage query.
	ResolveMode string

	// BreakdownList represents one of the four named distributions of a day.
	BreakdownList string

	// PeriodKind represents the grouping rule of a period report.
	PeriodKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for record storage.
	DatabaseBackend string

	// IngestSource represents the operation that wrote a batch of records.
	IngestSource string

	// ActivityLevel represents how a week compares with the overall weekly average.
	ActivityLevel string
)

// DateLayout is the calendar date layout used for every stored date.
const DateLayout = "2006-01-02"

// All interval kinds supported.
const (
	Interval7Days   IntervalKind = "7days" // default
	Interval14Days  IntervalKind = "14days"
	Interval1Month  IntervalKind = "1month"
	IntervalAllTime IntervalKind = "alltime"
)

// All resolve modes.
const (
	ExplicitDates ResolveMode = "explicit_dates"
	RangeFilter   ResolveMode = "range_filter"
	Unbounded     ResolveMode = "unbounded"
)

// All breakdown lists.
const (
	Languages        BreakdownList = "languages"
	Projects         BreakdownList = "projects"
	Editors          BreakdownList = "editors"
	OperatingSystems BreakdownList = "operating_systems"
)

// All period kinds.
const (
	WeeklyPeriod  PeriodKind = "weekly"
	MonthlyPeriod PeriodKind = "monthly"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All ingest sources.
const (
	SyncSource     IngestSource = "sync"
	BackfillSource IngestSource = "backfill"
)

// All activity levels.
const (
	AboveLevel  ActivityLevel = "Above"
	SteadyLevel ActivityLevel = "Steady"
	BelowLevel  ActivityLevel = "Below"
	IdleLevel   ActivityLevel = "Idle"
)

// AllBreakdownLists returns the four breakdown lists in display order.
var AllBreakdownLists = []BreakdownList{Languages, Projects, Editors, OperatingSystems}

// ValidIntervalKinds lists all valid interval kinds.
var ValidIntervalKinds = map[IntervalKind]struct{}{
	Interval7Days:   {},
	Interval14Days:  {},
	Interval1Month:  {},
	IntervalAllTime: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
