package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no settings file found (run 'tasklines init' to create one)")
	ErrInvalid  = errors.New("invalid settings")
)

// Settings is the tasklines configuration. Values are passed explicitly to
// the parser, serializer and editor; nothing reads a package-level copy.
type Settings struct {
	Version            int    `yaml:"version"`
	GlobalFilter       string `yaml:"global_filter"`
	SetCreatedDate     bool   `yaml:"set_created_date"`
	SetDoneDate        bool   `yaml:"set_done_date"`
	SetCancelledDate   bool   `yaml:"set_cancelled_date"`
	RecurrencePosition string `yaml:"recurrence_position,omitempty"`

	// dir is the absolute path of the directory holding the settings file
	// (not serialized). Empty for built-in defaults.
	dir string `yaml:"-"`
}

// NewDefault returns the settings used when no file exists.
func NewDefault() Settings {
	return Settings{
		Version:            CurrentVersion,
		SetCreatedDate:     DefaultSetCreatedDate,
		SetDoneDate:        DefaultSetDoneDate,
		SetCancelledDate:   DefaultSetCancelledDate,
		RecurrencePosition: DefaultRecurrencePosition,
	}
}

// Dir returns the directory holding the settings file.
func (s *Settings) Dir() string {
	return s.dir
}

// SetDir sets the directory holding the settings file.
func (s *Settings) SetDir(dir string) {
	s.dir = dir
}

// Path returns the absolute path of the settings file.
func (s *Settings) Path() string {
	return filepath.Join(s.dir, ConfigFileName)
}

// ActivityLogPath returns the path of the activity log.
func (s *Settings) ActivityLogPath() string {
	return filepath.Join(s.dir, ActivityLogName)
}

// Filter builds the Global Filter described by the settings.
func (s *Settings) Filter() (*globalfilter.Filter, error) {
	return globalfilter.New(s.GlobalFilter)
}

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, s.Version, CurrentVersion)
	}
	if s.GlobalFilter != "" {
		if strings.TrimSpace(s.GlobalFilter) == "" || strings.ContainsAny(strings.TrimSpace(s.GlobalFilter), " \t") {
			return fmt.Errorf("%w: global_filter %q must be a single word or tag", ErrInvalid, s.GlobalFilter)
		}
	}
	if s.RecurrencePosition != "" && !slices.Contains(RecurrencePositions, s.RecurrencePosition) {
		return fmt.Errorf("%w: recurrence_position must be one of %s",
			ErrInvalid, strings.Join(RecurrencePositions, ", "))
	}
	return nil
}

// Save writes the settings to their file.
func (s *Settings) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	return os.WriteFile(s.Path(), data, fileMode)
}

// Init writes a default settings file into dir.
func Init(dir string) (*Settings, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	s := NewDefault()
	s.SetDir(absDir)

	if _, err := os.Stat(s.Path()); err == nil {
		return nil, clierr.Newf(clierr.ConfigAlreadyExists, "settings already exist in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	if err := s.Save(); err != nil {
		return nil, fmt.Errorf("writing settings: %w", err)
	}
	return &s, nil
}

// Load reads, migrates and validates the settings file in dir.
func Load(dir string) (*Settings, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // settings path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	s.dir = absDir

	// Migrate old versions forward before validating.
	oldVersion := s.Version
	if err := migrate(&s); err != nil {
		return nil, err
	}

	// Persist migrated settings so future loads skip re-migration.
	if s.Version != oldVersion {
		if err := s.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated settings: %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindDir walks upward from startDir looking for a directory containing
// the settings file.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.ConfigNotFound,
				"no settings file found (run 'tasklines init' to create one)")
		}
		dir = parent
	}
}

// LoadOrDefault finds the settings from startDir upward and falls back to
// defaults rooted at startDir when none exist.
func LoadOrDefault(startDir string) (*Settings, error) {
	dir, err := FindDir(startDir)
	if err != nil {
		absStart, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, fmt.Errorf("resolving path: %w", absErr)
		}
		s := NewDefault()
		s.SetDir(absStart)
		return &s, nil
	}
	return Load(dir)
}
