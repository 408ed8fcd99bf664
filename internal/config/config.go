package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Design   DesignConfig   `yaml:"design"`
	Output   OutputConfig   `yaml:"output"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig selects the store backend. Driver is sqlite, postgres or
// mysql; Path is only read by sqlite.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Charset  string `yaml:"charset"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

// DesignConfig holds Latin hypercube defaults used when a request does not
// carry its own.
type DesignConfig struct {
	Seed         *int64 `yaml:"seed"`
	LatinSamples int    `yaml:"latin_samples"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverSQLite
	}
	if c.Database.Path == "" {
		c.Database.Path = "uq.db"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "outputs"
	}
}

// DSN renders the connection string for the configured driver.
func (d DatabaseConfig) DSN() (string, error) {
	switch d.Driver {
	case DriverSQLite:
		return d.Path, nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode), nil
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset), nil
	}
	return "", fmt.Errorf("unknown database driver %q", d.Driver)
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	config.applyDefaults()

	return &config, nil
}
