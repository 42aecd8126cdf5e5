// Package config loads kiroku's runtime configuration from config.yaml and
// the environment. Secrets (the database service key, the chat channel
// token) and the default destination bindings come from the environment in
// deployments; the file covers everything else.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/okonomi-dev/kiroku/pkg/types"
)

// Validation errors.
var (
	ErrAPIKeyMissing       = errors.New("notion api key is required")
	ErrChannelTokenMissing = errors.New("line channel token is required")
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	defaultAddr     = ":8787"
	defaultDataPath = "kiroku.db"
)

// defaultConfigHeader prefixes the scaffolded config.yaml.
const defaultConfigHeader = `# kiroku configuration
# Secrets are read from the environment:
#   NOTION_API_KEY, LINE_CHANNEL_TOKEN
# Default destination bindings:
#   NOTION_DB_TASKS, NOTION_DB_KNOWLEDGE
`

// fileConfig is the structure written to config.yaml on first run.
type fileConfig struct {
	Addr     string `yaml:"addr"`
	DataPath string `yaml:"data_path"`
}

// Config holds everything the process needs to run.
type Config struct {
	Addr             string
	DataPath         string
	NotionAPIKey     string
	NotionBaseURL    string
	LineChannelToken string
	LineBaseURL      string

	// Destinations maps the symbolic destination kinds to canonical
	// database identifiers. A kind may be unbound; using it then fails
	// with a config error at resolution time, not at startup.
	Destinations map[types.DestinationKind]string
}

// Load reads configuration from configDir/config.yaml, creating a default
// file on first run, then applies environment overrides.
func Load(configDir string) (*Config, error) {
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("addr", defaultAddr)
	v.SetDefault("data_path", defaultDataPath)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	// Secrets and bindings keep their historical environment names.
	_ = v.BindEnv("notion_api_key", "NOTION_API_KEY")
	_ = v.BindEnv("line_channel_token", "LINE_CHANNEL_TOKEN")
	_ = v.BindEnv("notion_db_tasks", "NOTION_DB_TASKS")
	_ = v.BindEnv("notion_db_knowledge", "NOTION_DB_KNOWLEDGE")
	_ = v.BindEnv("addr", "KIROKU_ADDR")
	_ = v.BindEnv("data_path", "KIROKU_DATA_PATH")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// A missing config.yaml is not an error; defaults and
		// environment cover everything.
	}

	cfg := &Config{
		Addr:             v.GetString("addr"),
		DataPath:         v.GetString("data_path"),
		NotionAPIKey:     v.GetString("notion_api_key"),
		LineChannelToken: v.GetString("line_channel_token"),
		Destinations:     map[types.DestinationKind]string{},
	}
	if id := v.GetString("notion_db_tasks"); id != "" {
		cfg.Destinations[types.KindTasks] = types.NormalizeID(id)
	}
	if id := v.GetString("notion_db_knowledge"); id != "" {
		cfg.Destinations[types.KindKnowledge] = types.NormalizeID(id)
	}

	return cfg, nil
}

// Validate checks that the secrets a running server cannot do without are
// present.
func (c *Config) Validate() error {
	if c.NotionAPIKey == "" {
		return ErrAPIKeyMissing
	}
	if c.LineChannelToken == "" {
		return ErrChannelTokenMissing
	}
	return nil
}

// ensureDefaultConfigFile creates configDir and a default config.yaml when
// the file does not exist yet.
func ensureDefaultConfigFile(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	body, err := yaml.Marshal(fileConfig{Addr: defaultAddr, DataPath: defaultDataPath})
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultConfigHeader), body...), 0o644)
}
