package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	SMTP    SMTPConfig    `yaml:"smtp" envconfig:"SMTP"`
	Mail    MailConfig    `yaml:"mail" envconfig:"MAIL"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Goals   GoalsConfig   `yaml:"goals" envconfig:"GOALS"`
}

// PathsConfig contains the input file and output directory locations
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"Bases de Dados"`
	SalesFile  string `yaml:"sales_file" envconfig:"SALES_FILE" default:"Sales.xlsx"`
	StoresFile string `yaml:"stores_file" envconfig:"STORES_FILE" default:"Stores.csv"`
	EmailsFile string `yaml:"emails_file" envconfig:"EMAILS_FILE" default:"Emails.xlsx"`
	BackupDir  string `yaml:"backup_dir" envconfig:"BACKUP_DIR" default:"Backup Arquivos Lojas"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// SalesPath returns the full path of the sales workbook
func (p PathsConfig) SalesPath() string {
	return filepath.Join(p.DataDir, p.SalesFile)
}

// StoresPath returns the full path of the store directory CSV
func (p PathsConfig) StoresPath() string {
	return filepath.Join(p.DataDir, p.StoresFile)
}

// EmailsPath returns the full path of the manager email workbook
func (p PathsConfig) EmailsPath() string {
	return filepath.Join(p.DataDir, p.EmailsFile)
}

// SMTPConfig contains the mail transport configuration
type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"HOST" default:"localhost"`
	Port     int    `yaml:"port" envconfig:"PORT" default:"587"`
	Username string `yaml:"username" envconfig:"USERNAME"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	From     string `yaml:"from" envconfig:"FROM" default:"reports@localhost"`
}

// MailConfig contains the message composition configuration
type MailConfig struct {
	SenderName string `yaml:"sender_name" envconfig:"SENDER_NAME" default:"Sales Reporting"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// GoalsConfig contains the year and day indicator goals used to grade each
// store's results in the manager mails
type GoalsConfig struct {
	Year GoalValues `yaml:"year" envconfig:"YEAR"`
	Day  GoalValues `yaml:"day" envconfig:"DAY"`
}

// GoalValues holds the target values for one window
type GoalValues struct {
	Revenue       float64 `yaml:"revenue" envconfig:"REVENUE"`
	ProductCount  int     `yaml:"product_count" envconfig:"PRODUCT_COUNT"`
	AverageTicket float64 `yaml:"average_ticket" envconfig:"AVERAGE_TICKET"`
}

// RevenueGoal returns the revenue target as a decimal
func (g GoalValues) RevenueGoal() decimal.Decimal {
	return decimal.NewFromFloat(g.Revenue)
}

// AverageTicketGoal returns the average ticket target as a decimal
func (g GoalValues) AverageTicketGoal() decimal.Decimal {
	return decimal.NewFromFloat(g.AverageTicket)
}

// Default goal values, carried over from the previous reporting process
var (
	defaultYearGoals = GoalValues{Revenue: 1500000, ProductCount: 120, AverageTicket: 440}
	defaultDayGoals  = GoalValues{Revenue: 800, ProductCount: 3, AverageTicket: 400}
)

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from environment variables and the given
// YAML file. A missing file is not an error; environment takes precedence.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ONEPAGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	cfg.applyGoalDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.SMTP.Username == "" {
		envConfig.SMTP.Username = fileConfig.SMTP.Username
	}
	if envConfig.SMTP.Password == "" {
		envConfig.SMTP.Password = fileConfig.SMTP.Password
	}
	if fileConfig.SMTP.Host != "" && !isEnvSet("ONEPAGE_SMTP_HOST") {
		envConfig.SMTP.Host = fileConfig.SMTP.Host
	}
	if fileConfig.SMTP.Port != 0 && !isEnvSet("ONEPAGE_SMTP_PORT") {
		envConfig.SMTP.Port = fileConfig.SMTP.Port
	}
	if fileConfig.SMTP.From != "" && !isEnvSet("ONEPAGE_SMTP_FROM") {
		envConfig.SMTP.From = fileConfig.SMTP.From
	}
	if fileConfig.Mail.SenderName != "" && !isEnvSet("ONEPAGE_MAIL_SENDER_NAME") {
		envConfig.Mail.SenderName = fileConfig.Mail.SenderName
	}
	if fileConfig.Paths.DataDir != "" && !isEnvSet("ONEPAGE_PATHS_DATA_DIR") {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if fileConfig.Paths.BackupDir != "" && !isEnvSet("ONEPAGE_PATHS_BACKUP_DIR") {
		envConfig.Paths.BackupDir = fileConfig.Paths.BackupDir
	}
	if fileConfig.Paths.SalesFile != "" && !isEnvSet("ONEPAGE_PATHS_SALES_FILE") {
		envConfig.Paths.SalesFile = fileConfig.Paths.SalesFile
	}
	if fileConfig.Paths.StoresFile != "" && !isEnvSet("ONEPAGE_PATHS_STORES_FILE") {
		envConfig.Paths.StoresFile = fileConfig.Paths.StoresFile
	}
	if fileConfig.Paths.EmailsFile != "" && !isEnvSet("ONEPAGE_PATHS_EMAILS_FILE") {
		envConfig.Paths.EmailsFile = fileConfig.Paths.EmailsFile
	}
	if fileConfig.Paths.LogsDir != "" && !isEnvSet("ONEPAGE_PATHS_LOGS_DIR") {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if fileConfig.Logging.Level != "" && !isEnvSet("ONEPAGE_LOGGING_LEVEL") {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && !isEnvSet("ONEPAGE_LOGGING_OUTPUT") {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !isEnvSet("ONEPAGE_LOGGING_FILE_PATH") {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Goals.Year != (GoalValues{}) {
		envConfig.Goals.Year = fileConfig.Goals.Year
	}
	if fileConfig.Goals.Day != (GoalValues{}) {
		envConfig.Goals.Day = fileConfig.Goals.Day
	}
	return envConfig
}

func isEnvSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

// applyGoalDefaults fills in goal values that were not configured
func (c *Config) applyGoalDefaults() {
	if c.Goals.Year == (GoalValues{}) {
		c.Goals.Year = defaultYearGoals
	}
	if c.Goals.Day == (GoalValues{}) {
		c.Goals.Day = defaultDayGoals
	}
}

// validate checks the configuration for obviously broken values
func (c *Config) validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	if c.Paths.DataDir == "" || c.Paths.BackupDir == "" {
		return fmt.Errorf("data and backup directories must be configured")
	}

	return nil
}

// getConfigFilePath returns the default config file location, next to the
// executable's working directory
func getConfigFilePath() string {
	if path := os.Getenv("ONEPAGE_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
