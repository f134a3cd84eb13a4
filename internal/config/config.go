package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverXML      = "xml"
	DriverPostgres = "postgres"
)

type Config struct {
	Env      string         `validate:"omitempty,oneof=local development production"` // Env is the current environment: local, development, production.
	Storage  StorageConfig  // Storage selects where employee records live
	Postgres PostgresConfig // Postgres holds the database configuration, used by the postgres driver
	Metrics  MetricsConfig  // Metrics holds the metrics export configuration
	Payslip  PayslipConfig  // Payslip holds the payslip export configuration
}

// StorageConfig struct holds the employee store settings.
type StorageConfig struct {
	Driver string `validate:"oneof=xml postgres"` // Driver is either xml or postgres.
	Path   string `validate:"required_if=Driver xml"` // Path is the employee file for the xml driver.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Dbname   string // Dbname is the name of the database.
}

// MetricsConfig struct holds where metrics are written at exit.
type MetricsConfig struct {
	Textfile string // Textfile is a .prom file path; empty disables the export.
}

// PayslipConfig struct holds the payslip export settings.
type PayslipConfig struct {
	OutputDir string `validate:"required"` // OutputDir is where payslip PDFs are written.
}

// Load reads the configuration from the YAML file at path, if any, applies
// defaults and TYCHE_ prefixed environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	vpr := viper.New()

	vpr.SetDefault("env", "local")
	vpr.SetDefault("storage.driver", DriverXML)
	vpr.SetDefault("storage.path", "employees.xml")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("metrics.textfile", "")
	vpr.SetDefault("payslip.output_dir", "payslips")

	vpr.SetEnvPrefix("TYCHE")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		vpr.SetConfigFile(path)
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Storage: StorageConfig{
			Driver: vpr.GetString("storage.driver"),
			Path:   vpr.GetString("storage.path"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		Metrics: MetricsConfig{
			Textfile: vpr.GetString("metrics.textfile"),
		},
		Payslip: PayslipConfig{
			OutputDir: vpr.GetString("payslip.output_dir"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Storage.Driver == DriverPostgres && cfg.Postgres.Host == "" {
		return nil, errors.New("invalid configuration: postgres.host is required for the postgres driver")
	}

	return cfg, nil
}

// MustLoad loads the configuration from the file named by CONFIG_PATH and
// panics on error. CONFIG_PATH may be empty.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
