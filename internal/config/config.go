// Package config loads flashai settings from a YAML file, FLASHAI_*
// environment variables and defaults.
package config

import (
	"github.com/abhisek/flashai/internal/llm"
)

// Config is the root configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Study StudyConfig `yaml:"study"`
	Log   LogConfig   `yaml:"log"`
	LLM   llm.Config  `yaml:"llm"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	// Path is the database file. Empty means the default data directory.
	Path string `yaml:"path" env:"FLASHAI_DB"`
}

// StudyConfig shapes study sessions.
type StudyConfig struct {
	BatchSize   int    `yaml:"batch_size" env:"FLASHAI_BATCH_SIZE" env-default:"10"`
	RetryPolicy string `yaml:"retry_policy" env:"FLASHAI_RETRY_POLICY" env-default:"restore"`

	// StudyAll makes the default study action review the whole deck
	// instead of the due cards only.
	StudyAll bool `yaml:"study_all" env:"FLASHAI_STUDY_ALL"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" env:"FLASHAI_LOG_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode" env:"FLASHAI_LOG_MODE" env-default:"production"`

	// File receives log output. "stderr" writes to the terminal; empty
	// means flashai.log in the data directory.
	File string `yaml:"file" env:"FLASHAI_LOG_FILE"`
}

// LogToStderr is the LogConfig.File value that sends logs to stderr.
const LogToStderr = "stderr"

// Redacted returns a copy of c safe to print.
func (c Config) Redacted() Config {
	c.LLM = c.LLM.Redacted()
	return c
}
