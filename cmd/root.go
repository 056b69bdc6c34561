package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/packscheduler/internal/config"
	"github.com/zjrosen/packscheduler/internal/log"
	"github.com/zjrosen/packscheduler/internal/paths"
	"github.com/zjrosen/packscheduler/internal/presentation"
)

var (
	version   = "dev"
	cfgFile   string
	outFormat string
	debugFlag bool
	cfg       config.Config

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "packsched",
	Short: "Course registration for a university term",
	Long: `packsched manages one registration term: a course catalog, student and
faculty directories, enrollment with waitlists and faculty assignment.

Records are read from flat files in the data directory (default: .packsched)
and can be mirrored into a SQLite term store.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .packsched/config.yaml, then ~/.config/packsched/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "",
		"directory holding record files and the term store")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "f", presentation.FormatJSON,
		"output format: json or table")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (PACKSCHED_LOG names the file, default debug.log)")

	bindFlags()
}

// bindFlags binds persistent flags to viper keys.
func bindFlags() {
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("data_dir", defaults.DataDir)
	viper.SetDefault("records.courses", defaults.Records.Courses)
	viper.SetDefault("records.students", defaults.Records.Students)
	viper.SetDefault("records.faculty", defaults.Records.Faculty)
	viper.SetDefault("registrar.first_name", defaults.Registrar.FirstName)
	viper.SetDefault("registrar.last_name", defaults.Registrar.LastName)
	viper.SetDefault("registrar.id", defaults.Registrar.ID)
	viper.SetDefault("registrar.email", defaults.Registrar.Email)
	viper.SetDefault("registrar.password", defaults.Registrar.Password)
	viper.SetDefault("store.enabled", defaults.Store.Enabled)
	viper.SetDefault("store.path", defaults.Store.Path)
	viper.SetDefault("session.ttl", defaults.Session.TTL)
	viper.SetDefault("auth.bcrypt_cost", defaults.Auth.BcryptCost)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("export.sheet_name", defaults.Export.SheetName)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Lookup order: project config, then user config.
		found := false
		for _, candidate := range paths.ConfigCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				viper.SetConfigFile(candidate)
				found = true
				break
			}
		}
		if !found {
			defaultPath := paths.ConfigCandidates()[0]
			if err := config.WriteDefaultConfig(defaultPath); err == nil {
				viper.SetConfigFile(defaultPath)
			}
			// If write fails, continue with defaults (no config file)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "packsched: reading config: %v\n", err)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
	cfg.DataDir = paths.ResolveDataDir(cfg.DataDir)
}

// setup starts logging and validates the loaded config before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("PACKSCHED_DEBUG") != "" {
		logPath := os.Getenv("PACKSCHED_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		if name := os.Getenv("PACKSCHED_LOG_LEVEL"); name != "" {
			level, err := log.ParseLevel(name)
			if err != nil {
				return fmt.Errorf("PACKSCHED_LOG_LEVEL: %w", err)
			}
			log.SetMinLevel(level)
		}
		log.Info(log.CatConfig, "packsched starting", "command", cmd.Name(), "config", viper.ConfigFileUsed(), "dataDir", cfg.DataDir)
	}

	if !presentation.ValidFormat(outFormat) {
		return fmt.Errorf("unknown --format %q (valid: json, table)", outFormat)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// configPath returns the file settings are written back to.
func configPath() string {
	if path := viper.ConfigFileUsed(); path != "" {
		return path
	}
	return paths.ConfigCandidates()[0]
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
