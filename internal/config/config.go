// Package config resolves the connection parameters and template locations
// for the trip page tools. Resolution is layered: values from the YAML
// config file are overridden by environment variables, and the result is
// returned as a single immutable Settings value so no other package reads
// the environment directly.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tripbuilder/pkg/fsutils"
)

const (
	// DefaultConfigPath is the config file consulted when DB_CONFIG_FILE
	// is unset.
	DefaultConfigPath = "config/database.yaml"

	// DefaultTemplatesDir is used when TEMPLATES_DIR is unset.
	DefaultTemplatesDir = "templates"
)

// envKeys maps config file keys to the environment variables that
// override them.
var envKeys = map[string]string{
	"driver":   "DB_DRIVER",
	"host":     "DB_HOST",
	"port":     "DB_PORT",
	"dbname":   "DB_NAME",
	"user":     "DB_USER",
	"password": "DB_PASSWORD",
}

// Database holds the resolved connection parameters.
type Database struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
}

// Settings is the fully resolved configuration for one invocation.
type Settings struct {
	Database     Database
	TemplatesDir string
}

// Error reports missing or malformed configuration values.
type Error struct {
	Missing []string
	Reason  string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return "missing database configuration values: " + strings.Join(e.Missing, ", ")
	}
	return e.Reason
}

// fileConfig mirrors the config file layout. The section keeps the name the
// original deployment used even when another driver is selected.
type fileConfig struct {
	Postgresql map[string]string `yaml:"postgresql"`
}

// DriverName returns the database/sql driver name for the configured
// backend.
func (d Database) DriverName() string {
	if d.Driver == "sqlite" {
		return "sqlite"
	}
	return "pgx"
}

// DSN builds the data source string for DriverName. For sqlite the database
// name is the file path.
func (d Database) DSN() string {
	if d.Driver == "sqlite" {
		return d.Name
	}
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s",
		d.Host, d.Port, d.Name, d.User, d.Password)
}

// Load resolves the settings from the environment and the config file. The
// file is optional; environment values always win over file values.
func Load() (*Settings, error) {
	values := map[string]string{}

	path := os.Getenv("DB_CONFIG_FILE")
	if path == "" {
		path = DefaultConfigPath
	}
	if data, err := os.ReadFile(path); err == nil {
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, &Error{Reason: fmt.Sprintf("invalid config file %s: %v", path, err)}
		}
		for k, v := range fc.Postgresql {
			values[strings.ToLower(k)] = v
		}
	} else if !os.IsNotExist(err) {
		return nil, &Error{Reason: fmt.Sprintf("cannot read config file %s: %v", path, err)}
	}

	for key, env := range envKeys {
		if v, ok := os.LookupEnv(env); ok {
			values[key] = v
		}
	}

	db, err := resolveDatabase(values)
	if err != nil {
		return nil, err
	}

	templatesDir := os.Getenv("TEMPLATES_DIR")
	if templatesDir == "" {
		templatesDir = DefaultTemplatesDir
	}

	return &Settings{Database: db, TemplatesDir: templatesDir}, nil
}

// resolveDatabase validates the collected values. A sqlite backend only
// needs a database path; postgres needs the full parameter set.
func resolveDatabase(values map[string]string) (Database, error) {
	driver := strings.ToLower(values["driver"])
	if driver == "" {
		driver = "postgres"
	}
	if driver != "postgres" && driver != "pgx" && driver != "sqlite" {
		return Database{}, &Error{Reason: fmt.Sprintf("unsupported database driver %q", values["driver"])}
	}
	if driver == "pgx" {
		driver = "postgres"
	}

	required := []string{"host", "port", "dbname", "user", "password"}
	if driver == "sqlite" {
		required = []string{"dbname"}
	}

	var missing []string
	for _, key := range required {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Database{}, &Error{Missing: missing}
	}

	db := Database{
		Driver:   driver,
		Host:     values["host"],
		Name:     values["dbname"],
		User:     values["user"],
		Password: values["password"],
	}
	if driver == "sqlite" {
		return db, nil
	}

	port, err := strconv.Atoi(values["port"])
	if err != nil {
		return Database{}, &Error{Reason: fmt.Sprintf("invalid port number: %q", values["port"])}
	}
	db.Port = port
	return db, nil
}

// Save writes the connection parameters to a YAML config file, creating
// parent directories as needed. The write is atomic so a concurrent reader
// never sees a partial file.
func Save(path string, db Database) error {
	section := map[string]string{
		"driver": db.Driver,
		"dbname": db.Name,
	}
	if db.Driver != "sqlite" {
		section["host"] = db.Host
		section["port"] = strconv.Itoa(db.Port)
		section["user"] = db.User
		section["password"] = db.Password
	}

	data, err := yaml.Marshal(fileConfig{Postgresql: section})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := fsutils.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
