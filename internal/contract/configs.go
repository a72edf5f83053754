package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/codepulse/schema"
	log "github.com/sirupsen/logrus"
)

// Default values for configuration.
const (
	DefaultUser            = "me"
	DefaultResultLimit     = 1000
	MaxResultLimit         = 10000
	DefaultTopN            = 10
	MaxTopN                = 100
	DefaultSyncDays        = 7
	MaxSyncDays            = 365
	DefaultPrecision       = 1
	DefaultReferenceDays   = 7
	DefaultWakaTimeBaseURL = "https://wakatime.com/api/v1"
	DefaultWakaTimeTimeout = 30 * time.Second
	DefaultLogLevel        = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for every command.
// This struct remains the "final, validated" config.
type Config struct {
	User     string
	Interval schema.IntervalKind
	Limit    int
	Top      int

	Location *time.Location
	Today    time.Time // Midnight of the current day in Location, fixed for the whole run

	// TrackingStart anchors weekly windows. Zero means the earliest stored record.
	TrackingStart time.Time

	SyncDays int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	WakaTimeBaseURL string
	WakaTimeTimeout time.Duration

	EntriesFile    string
	ReferenceStart time.Time
	ReferenceEnd   time.Time

	LogLevel log.Level
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	User           string `mapstructure:"user"`
	Limit          int    `mapstructure:"limit"`
	Top            int    `mapstructure:"top"`
	Timezone       string `mapstructure:"timezone"`
	Today          string `mapstructure:"today"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	LogLevel       string `mapstructure:"log-level"`

	// --- Fields from summariesCmd.Flags() ---
	Interval string `mapstructure:"interval"`

	// --- Fields from weeklyCmd.Flags() ---
	TrackingStart string `mapstructure:"tracking-start"`

	// --- Fields from syncCmd.Flags() ---
	SyncDays        int    `mapstructure:"sync-days"`
	WakaTimeBaseURL string `mapstructure:"wakatime-base-url"`
	WakaTimeTimeout string `mapstructure:"wakatime-timeout"`

	// --- Fields from backfillCmd.Flags() ---
	EntriesFile    string `mapstructure:"entries-file"`
	ReferenceStart string `mapstructure:"reference-start"`
	ReferenceEnd   string `mapstructure:"reference-end"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCalendar(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processSyncInputs(cfg, input); err != nil {
		return err
	}
	if err := processBackfillInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the record store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(input.StoreBackend)
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("%w: invalid store backend '%s'. must be sqlite, mysql, postgresql, none", schema.ErrConfiguration, input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("%w: %w", schema.ErrConfiguration, err)
	}
	return nil
}

// validateSimpleInputs processes and validates the scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.User = strings.TrimSpace(input.User)
	if cfg.User == "" {
		cfg.User = DefaultUser
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	level := input.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	cfg.LogLevel, err = log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid --log-level value: %w", err)
	}

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.Limit = input.Limit

	if input.Top <= 0 || input.Top > MaxTopN {
		return fmt.Errorf("top must be greater than 0 and cannot exceed %d (received %d)", MaxTopN, input.Top)
	}
	cfg.Top = input.Top

	interval := input.Interval
	if interval == "" {
		interval = string(schema.Interval7Days)
	}
	cfg.Interval = schema.IntervalKind(strings.ToLower(interval))
	if _, ok := schema.ValidIntervalKinds[cfg.Interval]; !ok {
		return fmt.Errorf("invalid interval '%s'. must be 7days, 14days, 1month, alltime", input.Interval)
	}

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}
	return nil
}

// processCalendar fixes the timezone and "today" once for the whole run.
func processCalendar(cfg *Config, input *ConfigRawInput, now time.Time) error {
	loc := time.Local
	if tz := strings.TrimSpace(input.Timezone); tz != "" && !strings.EqualFold(tz, "local") {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("%w: invalid timezone '%s': %w", schema.ErrConfiguration, tz, err)
		}
	}
	cfg.Location = loc

	if input.Today != "" {
		today, err := schema.ParseDate(input.Today, loc)
		if err != nil {
			return fmt.Errorf("invalid --today value: %w", err)
		}
		cfg.Today = today
	} else {
		cfg.Today = schema.StartOfDay(now, loc)
	}

	cfg.TrackingStart = time.Time{}
	if input.TrackingStart != "" {
		start, err := schema.ParseDate(input.TrackingStart, loc)
		if err != nil {
			return fmt.Errorf("invalid --tracking-start value: %w", err)
		}
		if start.After(cfg.Today) {
			return fmt.Errorf("tracking start (%s) cannot be after today (%s)", input.TrackingStart, schema.FormatDate(cfg.Today))
		}
		cfg.TrackingStart = start
	}
	return nil
}

// processSyncInputs handles the data-source settings.
func processSyncInputs(cfg *Config, input *ConfigRawInput) error {
	if input.SyncDays <= 0 || input.SyncDays > MaxSyncDays {
		return fmt.Errorf("sync-days must be greater than 0 and cannot exceed %d (received %d)", MaxSyncDays, input.SyncDays)
	}
	cfg.SyncDays = input.SyncDays

	cfg.WakaTimeBaseURL = strings.TrimRight(strings.TrimSpace(input.WakaTimeBaseURL), "/")
	if cfg.WakaTimeBaseURL == "" {
		cfg.WakaTimeBaseURL = DefaultWakaTimeBaseURL
	}

	cfg.WakaTimeTimeout = DefaultWakaTimeTimeout
	if input.WakaTimeTimeout != "" {
		timeout, err := time.ParseDuration(input.WakaTimeTimeout)
		if err != nil {
			return fmt.Errorf("invalid --wakatime-timeout value: %w", err)
		}
		if timeout <= 0 {
			return fmt.Errorf("wakatime-timeout must be positive (received %s)", input.WakaTimeTimeout)
		}
		cfg.WakaTimeTimeout = timeout
	}
	return nil
}

// processBackfillInputs resolves the reference window, which defaults to the 7 days ending today.
func processBackfillInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.EntriesFile = strings.TrimSpace(input.EntriesFile)

	cfg.ReferenceEnd = cfg.Today
	if input.ReferenceEnd != "" {
		end, err := schema.ParseDate(input.ReferenceEnd, cfg.Location)
		if err != nil {
			return fmt.Errorf("invalid --reference-end value: %w", err)
		}
		cfg.ReferenceEnd = end
	}

	cfg.ReferenceStart = schema.AddDays(cfg.ReferenceEnd, -(DefaultReferenceDays - 1))
	if input.ReferenceStart != "" {
		start, err := schema.ParseDate(input.ReferenceStart, cfg.Location)
		if err != nil {
			return fmt.Errorf("invalid --reference-start value: %w", err)
		}
		cfg.ReferenceStart = start
	}

	if cfg.ReferenceStart.After(cfg.ReferenceEnd) {
		return fmt.Errorf("reference start (%s) cannot be after reference end (%s)",
			schema.FormatDate(cfg.ReferenceStart), schema.FormatDate(cfg.ReferenceEnd))
	}
	return nil
}

// RevalidateQuery re-applies the per-request overrides an MCP tool accepts on top of a
// validated config. Empty or zero values keep the configured setting.
func RevalidateQuery(cfg *Config, user, interval string, limit, top int, trackingStart string) error {
	if u := strings.TrimSpace(user); u != "" {
		cfg.User = u
	}
	if interval != "" {
		kind := schema.IntervalKind(strings.ToLower(interval))
		if _, ok := schema.ValidIntervalKinds[kind]; !ok {
			return fmt.Errorf("invalid interval '%s'. must be 7days, 14days, 1month, alltime", interval)
		}
		cfg.Interval = kind
	}
	if limit != 0 {
		if limit < 0 || limit > MaxResultLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, limit)
		}
		cfg.Limit = limit
	}
	if top != 0 {
		if top < 0 || top > MaxTopN {
			return fmt.Errorf("top must be greater than 0 and cannot exceed %d (received %d)", MaxTopN, top)
		}
		cfg.Top = top
	}
	if trackingStart != "" {
		start, err := schema.ParseDate(trackingStart, cfg.Location)
		if err != nil {
			return fmt.Errorf("invalid tracking_start value: %w", err)
		}
		if start.After(cfg.Today) {
			return fmt.Errorf("tracking start (%s) cannot be after today (%s)", trackingStart, schema.FormatDate(cfg.Today))
		}
		cfg.TrackingStart = start
	}
	return nil
}
