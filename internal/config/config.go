package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"student-etl/internal/model"
)

const (
	configPathEnv  = "STUDENT_ETL_CONFIG"
	studentsDSNEnv = "STUDENTS_DSN"
	runsDBPathEnv  = "RUNS_DB_PATH"
	listenAddrEnv  = "LISTEN_ADDR"
	sourceEnv      = "ETL_SOURCE"
)

// Config holds every setting the pipeline needs. It is built once at
// startup and passed down explicitly; nothing reads it from globals.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Transform TransformConfig `yaml:"transform"`
}

// SourceConfig describes where raw rows come from.
type SourceConfig struct {
	Type string `yaml:"type"` // csv or json
	Path string `yaml:"path"` // file path or http(s) URL
}

// DatabaseConfig holds both stores: sqlite for run tracking, Postgres
// for the student load adapter.
type DatabaseConfig struct {
	RunsPath    string `yaml:"runsPath"`
	StudentsDSN string `yaml:"studentsDsn"`
}

// ServerConfig describes the registration API listener.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	OutputDir string `yaml:"outputDir"`
}

// SchedulerConfig defines when cmd/etl runs in cron mode.
type SchedulerConfig struct {
	CronExpression string `yaml:"cronExpression"`
}

// TransformConfig carries the injectable rule tables. Empty maps fall
// back to the built-in defaults so a minimal YAML file stays minimal.
type TransformConfig struct {
	ColumnMapping      map[string]string `yaml:"columnMapping"`
	DepartmentSynonyms map[string]string `yaml:"departmentSynonyms"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of the defaults.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(studentsDSNEnv); v != "" {
		c.Database.StudentsDSN = v
	}
	if v := os.Getenv(runsDBPathEnv); v != "" {
		c.Database.RunsPath = v
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(sourceEnv); v != "" {
		c.Source.Path = v
	}
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Source.Type == "" {
		c.Source.Type = def.Source.Type
	}
	if c.Database.RunsPath == "" {
		c.Database.RunsPath = def.Database.RunsPath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.OutputDir == "" {
		c.Server.OutputDir = def.Server.OutputDir
	}
	if c.Scheduler.CronExpression == "" {
		c.Scheduler.CronExpression = def.Scheduler.CronExpression
	}
	if len(c.Transform.ColumnMapping) == 0 {
		c.Transform.ColumnMapping = def.Transform.ColumnMapping
	}
	if len(c.Transform.DepartmentSynonyms) == 0 {
		c.Transform.DepartmentSynonyms = def.Transform.DepartmentSynonyms
	}
}

// Default returns the built-in configuration: the spreadsheet column map
// and the canonical department synonym table.
func Default() Config {
	return Config{
		Source: SourceConfig{Type: "csv", Path: "datasets/students_raw.csv"},
		Database: DatabaseConfig{
			RunsPath: "etl_runs.db",
		},
		Server:    ServerConfig{Addr: ":8080", OutputDir: "outputs"},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *"},
		Transform: TransformConfig{
			ColumnMapping:      DefaultColumnMapping(),
			DepartmentSynonyms: DefaultDepartmentSynonyms(),
		},
	}
}

// DefaultColumnMapping maps spreadsheet headers onto canonical fields.
func DefaultColumnMapping() map[string]string {
	return map[string]string{
		"Student ID": model.FieldStudentID,
		"Email":      model.FieldEmail,
		"First Name": model.FieldFirstName,
		"Last Name":  model.FieldLastName,
		"Year":       model.FieldYearLevel,
		"Department": model.FieldDepartment,
		"Status":     model.FieldStatus,
		"Phone":      model.FieldPhone,
		"DOB":        model.FieldDateOfBirth,
		"GPA":        model.FieldGPA,
	}
}

// DefaultDepartmentSynonyms maps lowercased free-text department names to
// their canonical form.
func DefaultDepartmentSynonyms() map[string]string {
	return map[string]string{
		"cs":                      "Computer Science",
		"compsci":                 "Computer Science",
		"computer science":        "Computer Science",
		"math":                    "Mathematics",
		"mathematics":             "Mathematics",
		"physics":                 "Physics",
		"business":                "Business Administration",
		"business administration": "Business Administration",
		"ee":                      "Electrical Engineering",
		"electrical engineering":  "Electrical Engineering",
	}
}
