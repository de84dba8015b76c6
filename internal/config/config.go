package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/benchwrap/benchwrap/internal/utils"
	"github.com/goccy/go-json"
)

const (
	DefaultServerURL = "http://141.5.110.112:7800"
	DefaultWorkers   = 4
	jobsDirName      = "jobs"
	logsDirName      = "logs"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".config", "benchwrap", "config.json")
	DefaultDataDir    = filepath.Join(utils.XDGDataHome(), "benchwrap")
)

var ErrInvalidWorkers = errors.New("config: workers must be at least 1")

type Config struct {
	ServerURL string   `json:"server_url"`
	DataDir   string   `json:"data_dir"`
	JobsDir   string   `json:"jobs_dir,omitempty"` // defaults to <data_dir>/jobs
	Workers   int      `json:"workers,omitempty"`
	Exclude   []string `json:"exclude,omitempty"` // doublestar patterns, relative to jobs_dir
	Path      string   `json:"-"`
}

// Validate normalizes paths and applies defaults in place.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if err := utils.ValidateURL(c.ServerURL); err != nil {
		return fmt.Errorf("server url: %w", err)
	}
	c.ServerURL = utils.NormalizeURL(c.ServerURL)

	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	dataDir, err := utils.ResolvePath(c.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	c.DataDir = dataDir

	if c.JobsDir == "" {
		c.JobsDir = filepath.Join(c.DataDir, jobsDirName)
	}
	jobsDir, err := utils.ResolvePath(c.JobsDir)
	if err != nil {
		return fmt.Errorf("jobs dir: %w", err)
	}
	c.JobsDir = jobsDir

	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}

	if c.Path != "" {
		path, err := utils.ResolvePath(c.Path)
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		c.Path = path
	}

	return nil
}

// LogFilePath is where the file log handler writes.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.DataDir, logsDirName, "benchwrap.log")
}

func (c *Config) Save() error {
	if c.Path == "" {
		return errors.New("config: path not set")
	}

	if err := utils.EnsureParent(c.Path, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.Path, data, 0o644)
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.Path = path
	return &cfg, nil
}
