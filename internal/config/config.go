package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AlexTLDR/rsvpsync/internal/i18n"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
)

// Backend selects where spreadsheets are read from and written to.
type Backend string

const (
	BackendGoogle Backend = "google"
	BackendCSV    Backend = "csv"
)

// SheetLocation identifies a table inside a spreadsheet.
type SheetLocation struct {
	SpreadsheetID string
	Sheet         string
	Start         sheet.CellRef
}

type Config struct {
	// Spreadsheets
	Submissions SheetLocation
	Roster      SheetLocation
	Export      SheetLocation

	RosterAnswerColumn int
	// RosterTotalCells are read back from the roster sheet after writing.
	// Nil when disabled.
	RosterTotalYes *sheet.CellRef
	RosterTotalNo  *sheet.CellRef

	// Form
	YesLabel       string
	NoLabel        string
	FoodColumn     string
	CommentsColumn string
	PhoneColumn    string
	PhoneRegion    string
	Location       *time.Location
	Labels         i18n.Labels

	// Backends
	Backend         Backend
	CredentialsFile string
	CSVDir          string
	ArchiveURL      string

	// Writes
	WriteRetries   uint64
	WriteRetryBase time.Duration
	DryRun         bool

	// Logging
	LogLevel  string
	LogFormat string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("SUBMISSIONS_SHEET", "Sheet1")
	v.SetDefault("SUBMISSIONS_START_CELL", "A1")
	v.SetDefault("ROSTER_SHEET", "RSVP List")
	v.SetDefault("ROSTER_START_CELL", "A3")
	v.SetDefault("ROSTER_ANSWER_COLUMN", "D")
	v.SetDefault("ROSTER_TOTAL_YES_CELL", "J6")
	v.SetDefault("ROSTER_TOTAL_NO_CELL", "K6")
	v.SetDefault("EXPORT_SHEET", "RSVP Submissions")
	v.SetDefault("EXPORT_START_CELL", "A6")
	v.SetDefault("YES_LABEL", "can't wait!")
	v.SetDefault("NO_LABEL", "regretfully, can't make it")
	v.SetDefault("FOOD_COLUMN", "Special Food Requests?")
	v.SetDefault("COMMENTS_COLUMN", "Comments or Questions")
	v.SetDefault("PHONE_COLUMN", "")
	v.SetDefault("PHONE_REGION", "US")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("ANSWER_LANGUAGE", "en")
	v.SetDefault("BACKEND", string(BackendGoogle))
	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "")
	v.SetDefault("CSV_DIR", "./data")
	v.SetDefault("ARCHIVE_DATABASE_URL", "")
	v.SetDefault("WRITE_RETRIES", 3)
	v.SetDefault("WRITE_RETRY_BASE", "500ms")
	v.SetDefault("DRY_RUN", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "auto")
}

// Load reads configuration from the environment and, when configFile is not
// empty, from that file. Environment variables take precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	// An empty variable disables optional columns and cells.
	v.AllowEmptyEnv(true)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		YesLabel:        v.GetString("YES_LABEL"),
		NoLabel:         v.GetString("NO_LABEL"),
		FoodColumn:      v.GetString("FOOD_COLUMN"),
		CommentsColumn:  v.GetString("COMMENTS_COLUMN"),
		PhoneColumn:     v.GetString("PHONE_COLUMN"),
		PhoneRegion:     v.GetString("PHONE_REGION"),
		Labels:          i18n.LabelsFor(i18n.ParseLanguage(v.GetString("ANSWER_LANGUAGE"))),
		Backend:         Backend(strings.ToLower(v.GetString("BACKEND"))),
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		CSVDir:          v.GetString("CSV_DIR"),
		ArchiveURL:      v.GetString("ARCHIVE_DATABASE_URL"),
		WriteRetries:    v.GetUint64("WRITE_RETRIES"),
		WriteRetryBase:  v.GetDuration("WRITE_RETRY_BASE"),
		DryRun:          v.GetBool("DRY_RUN"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
	}

	submissionsID := v.GetString("SUBMISSIONS_SPREADSHEET_ID")
	if submissionsID == "" {
		return nil, fmt.Errorf("SUBMISSIONS_SPREADSHEET_ID is required")
	}
	rsvpID := v.GetString("RSVP_SPREADSHEET_ID")
	if rsvpID == "" {
		return nil, fmt.Errorf("RSVP_SPREADSHEET_ID is required")
	}

	var err error
	if cfg.Submissions, err = location(v, submissionsID, "SUBMISSIONS_SHEET", "SUBMISSIONS_START_CELL"); err != nil {
		return nil, err
	}
	if cfg.Roster, err = location(v, rsvpID, "ROSTER_SHEET", "ROSTER_START_CELL"); err != nil {
		return nil, err
	}
	if cfg.Export, err = location(v, rsvpID, "EXPORT_SHEET", "EXPORT_START_CELL"); err != nil {
		return nil, err
	}
	// The export upload clears its sheet, which would wipe the invite list.
	if strings.EqualFold(strings.TrimSpace(cfg.Export.Sheet), strings.TrimSpace(cfg.Roster.Sheet)) {
		return nil, fmt.Errorf("EXPORT_SHEET and ROSTER_SHEET must differ, both are %q", cfg.Roster.Sheet)
	}

	if cfg.RosterAnswerColumn, err = sheet.ColumnIndex(v.GetString("ROSTER_ANSWER_COLUMN")); err != nil {
		return nil, fmt.Errorf("invalid ROSTER_ANSWER_COLUMN: %w", err)
	}
	if cfg.RosterTotalYes, err = optionalCell(v, "ROSTER_TOTAL_YES_CELL"); err != nil {
		return nil, err
	}
	if cfg.RosterTotalNo, err = optionalCell(v, "ROSTER_TOTAL_NO_CELL"); err != nil {
		return nil, err
	}

	if cfg.YesLabel == "" || cfg.NoLabel == "" {
		return nil, fmt.Errorf("YES_LABEL and NO_LABEL must not be empty")
	}
	if cfg.YesLabel == cfg.NoLabel {
		return nil, fmt.Errorf("YES_LABEL and NO_LABEL must differ, both are %q", cfg.YesLabel)
	}

	if cfg.Location, err = time.LoadLocation(v.GetString("TIMEZONE")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	switch cfg.Backend {
	case BackendGoogle, BackendCSV:
	default:
		return nil, fmt.Errorf("invalid BACKEND %q: want %q or %q", cfg.Backend, BackendGoogle, BackendCSV)
	}

	return cfg, nil
}

func location(v *viper.Viper, spreadsheetID, sheetKey, cellKey string) (SheetLocation, error) {
	name := v.GetString(sheetKey)
	if name == "" {
		return SheetLocation{}, fmt.Errorf("%s must not be empty", sheetKey)
	}
	start, err := sheet.ParseCellRef(v.GetString(cellKey))
	if err != nil {
		return SheetLocation{}, fmt.Errorf("invalid %s: %w", cellKey, err)
	}
	return SheetLocation{SpreadsheetID: spreadsheetID, Sheet: name, Start: start}, nil
}

func optionalCell(v *viper.Viper, key string) (*sheet.CellRef, error) {
	raw := v.GetString(key)
	if raw == "" {
		return nil, nil
	}
	ref, err := sheet.ParseCellRef(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &ref, nil
}
