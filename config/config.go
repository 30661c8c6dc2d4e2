// backend/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"` // "mysql" or "postgres"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	URL      string `yaml:"url"` // Full postgres DSN, overrides the fields above
}

type IngestionConfig struct {
	InputDir        string `yaml:"input_dir"`
	OutputDir       string `yaml:"output_dir"`
	HeaderRows      []int  `yaml:"header_rows"`
	TimeZone        string `yaml:"time_zone"`
	CollisionPolicy string `yaml:"collision_policy"`
	SchemaFile      string `yaml:"schema_file"`
	WriteManifest   bool   `yaml:"write_manifest"`
}

type ScraperConfig struct {
	URLTemplate       string        `yaml:"url_template"`
	TableID           string        `yaml:"table_id"`
	Years             string        `yaml:"years"`
	TeamName          string        `yaml:"team_name"`
	UserAgent         string        `yaml:"user_agent"`
	TimeoutStr        string        `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"-"` // Parsed from TimeoutStr
}

// TargetConfig overrides the defaults for one query target such as "games".
type TargetConfig struct {
	Name        string `yaml:"name"`
	OutputName  string `yaml:"output_name"`
	TableID     string `yaml:"table_id"`
	URLTemplate string `yaml:"url_template"`
	HeaderRows  []int  `yaml:"header_rows"`
	SchemaFile  string `yaml:"schema_file"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Targets   []TargetConfig  `yaml:"targets"`
}

var AppConfig Config

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references only. A bare $ is left untouched so
// passwords and URLs containing it survive.
func expandEnv(raw string) string {
	return envRef.ReplaceAllStringFunc(raw, func(ref string) string {
		return os.Getenv(ref[2 : len(ref)-1])
	})
}

// LoadConfig reads the YAML configuration into AppConfig. A .env file next to
// the working directory is loaded first and ${VAR} references in the YAML
// are expanded from the environment.
func LoadConfig(configPath string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if configPath == "" {
		potentialPaths := []string{
			"config.yaml",
			"config/config.yaml",
			"../config/config.yaml",
		}
		for _, p := range potentialPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
		if configPath == "" {
			return fmt.Errorf("config.yaml not found in standard locations")
		}
		log.Printf("Loading configuration from: %s\n", configPath)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(file)
	if err != nil {
		return err
	}

	for _, dir := range []string{cfg.Ingestion.InputDir, cfg.Ingestion.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	AppConfig = cfg
	return nil
}

// Parse expands environment references in raw YAML, decodes it and applies defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	expanded := expandEnv(string(raw))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Ingestion.InputDir == "" {
		c.Ingestion.InputDir = filepath.Join("data", "raw")
	}
	if c.Ingestion.OutputDir == "" {
		c.Ingestion.OutputDir = filepath.Join("data", "outputs")
	}
	if len(c.Ingestion.HeaderRows) == 0 {
		c.Ingestion.HeaderRows = []int{0}
	}
	if c.Ingestion.TimeZone == "" {
		c.Ingestion.TimeZone = "Europe/London"
	}

	if c.Scraper.TimeoutStr != "" {
		d, err := time.ParseDuration(c.Scraper.TimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse scraper timeout: %w", err)
		}
		c.Scraper.Timeout = d
	} else {
		c.Scraper.Timeout = 30 * time.Second // Default
	}
	if c.Scraper.RequestsPerSecond <= 0 {
		c.Scraper.RequestsPerSecond = 0.5
	}
	if c.Scraper.UserAgent == "" {
		c.Scraper.UserAgent = "statsprep/1.0"
	}
	return nil
}

// Target returns the settings for name with every unset field filled from
// the global ingestion and scraper sections.
func (c Config) Target(name string) TargetConfig {
	t := TargetConfig{Name: name}
	for _, candidate := range c.Targets {
		if candidate.Name == name {
			t = candidate
			break
		}
	}
	if t.OutputName == "" {
		t.OutputName = name
	}
	if t.TableID == "" {
		t.TableID = c.Scraper.TableID
	}
	if t.URLTemplate == "" {
		t.URLTemplate = c.Scraper.URLTemplate
	}
	if len(t.HeaderRows) == 0 {
		t.HeaderRows = c.Ingestion.HeaderRows
	}
	if t.SchemaFile == "" {
		t.SchemaFile = c.Ingestion.SchemaFile
	}
	return t
}
