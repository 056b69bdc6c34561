// Package config provides configuration types and defaults for packsched.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/zjrosen/packscheduler/internal/auth"
	"github.com/zjrosen/packscheduler/internal/domain"
	"github.com/zjrosen/packscheduler/internal/export"
	"github.com/zjrosen/packscheduler/internal/fileutil"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/tracing"
)

// Config holds all configuration options for packsched.
type Config struct {
	DataDir   string          `mapstructure:"data_dir"`
	Records   RecordsConfig   `mapstructure:"records"`
	Registrar RegistrarConfig `mapstructure:"registrar"`
	Store     StoreConfig     `mapstructure:"store"`
	Session   SessionConfig   `mapstructure:"session"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
	Export    ExportConfig    `mapstructure:"export"`
	Flags     map[string]bool `mapstructure:"flags"`
}

// RecordsConfig names the flat record files. Relative paths resolve against DataDir.
type RecordsConfig struct {
	Courses  string `mapstructure:"courses" yaml:"courses"`
	Students string `mapstructure:"students" yaml:"students"`
	Faculty  string `mapstructure:"faculty" yaml:"faculty"`
}

// RegistrarConfig describes the single registrar account.
type RegistrarConfig struct {
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	ID        string `mapstructure:"id"`
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"` // bcrypt hash or legacy digest
}

// StoreConfig controls the SQLite term store.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// SessionConfig controls login sessions.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// AuthConfig controls password hashing.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// ExportConfig controls spreadsheet export.
type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		DataDir: DefaultDataDir,
		Records: RecordsConfig{
			Courses:  "course_records.txt",
			Students: "student_records.txt",
			Faculty:  "faculty_records.txt",
		},
		Registrar: RegistrarConfig{
			FirstName: "Wolf",
			LastName:  "Scheduler",
			ID:        "registrar",
			Email:     "registrar@ncsu.edu",
			Password:  auth.LegacyDigest("pw"),
		},
		Store: StoreConfig{
			Path: "term.db",
		},
		Session: SessionConfig{TTL: auth.DefaultSessionTTL},
		Auth:    AuthConfig{BcryptCost: auth.DefaultCost},
		Tracing: tracing.DefaultConfig(),
		Export:  ExportConfig{SheetName: export.DefaultSheetName},
	}
}

// DefaultDataDir is where record files and the term store live by default.
const DefaultDataDir = ".packsched"

// Resolve joins a relative path onto DataDir.
func (c Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// CoursesPath returns the resolved course records path.
func (c Config) CoursesPath() string { return c.Resolve(c.Records.Courses) }

// StudentsPath returns the resolved student records path.
func (c Config) StudentsPath() string { return c.Resolve(c.Records.Students) }

// FacultyPath returns the resolved faculty records path.
func (c Config) FacultyPath() string { return c.Resolve(c.Records.Faculty) }

// StorePath returns the resolved SQLite path.
func (c Config) StorePath() string { return c.Resolve(c.Store.Path) }

// BuildRegistrar constructs the registrar account.
func (r RegistrarConfig) BuildRegistrar() (*domain.Registrar, error) {
	reg, err := domain.NewRegistrar(r.FirstName, r.LastName, r.ID, r.Email, r.Password)
	if err != nil {
		return nil, fmt.Errorf("registrar: %w", err)
	}
	return reg, nil
}

// ValidateRecords ensures every record file is named.
func ValidateRecords(rec RecordsConfig) error {
	if rec.Courses == "" || rec.Students == "" || rec.Faculty == "" {
		return errors.New("records: courses, students and faculty files are required")
	}
	return nil
}

// ValidateTracing checks exporter and sample rate.
func ValidateTracing(cfg tracing.Config) error {
	if !tracing.ValidExporter(cfg.Exporter) {
		return fmt.Errorf("tracing: unknown exporter %q (valid: none, file, stdout, otlp)", cfg.Exporter)
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("tracing: sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}
	if cfg.Enabled && cfg.Exporter == tracing.ExporterOTLP && cfg.OTLPEndpoint == "" {
		return errors.New("tracing: otlp_endpoint is required for the otlp exporter")
	}
	return nil
}

// Validate checks the whole configuration, returning every problem found.
func Validate(cfg Config) error {
	var errs []error
	if err := ValidateRecords(cfg.Records); err != nil {
		errs = append(errs, err)
	}
	if _, err := cfg.Registrar.BuildRegistrar(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Session.TTL <= 0 {
		errs = append(errs, fmt.Errorf("session: ttl must be positive, got %s", cfg.Session.TTL))
	}
	if cfg.Store.Enabled && cfg.Store.Path == "" {
		errs = append(errs, errors.New("store: path is required when the store is enabled"))
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# packsched configuration

# Directory holding record files and the term store (default: .packsched)
data_dir: .packsched

# Flat record files, relative to data_dir unless absolute
records:
  courses: course_records.txt
  students: student_records.txt
  faculty: faculty_records.txt

# The registrar account. password holds a bcrypt hash or a legacy digest.
registrar:
  first_name: Wolf
  last_name: Scheduler
  id: registrar
  email: registrar@ncsu.edu
  password: "` + auth.LegacyDigest("pw") + `"

# SQLite term store used by term:run, roll:show and store:*
store:
  enabled: false
  path: term.db

# Login sessions expire after ttl without activity
session:
  ttl: 30m

# bcrypt cost for newly hashed passwords (4-31)
auth:
  bcrypt_cost: 10

# Spreadsheet export
export:
  sheet_name: Catalog

# Tracing configuration
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: .packsched/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags
# flags:
#   rehash-passwords: true     # upgrade legacy password digests on login
#   autosave-records: false    # write record files back after term:run
`
}

// WriteDefaultConfig creates a commented config file at configPath,
// creating its directory if needed.
func WriteDefaultConfig(configPath string) error {
	if err := fileutil.WriteAtomic(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write default config", err, "path", configPath)
		return err
	}
	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
