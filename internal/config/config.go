package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultViz          = "linear-regression"
	DefaultSteps        = 500
	DefaultLearningRate = 0.0001
	DefaultTheme        = "default"
	DefaultDataDir      = ".mllab"
	DefaultListen       = ":8080"
	DefaultTutorModel   = "gemini-2.5-flash"
	DefaultTemperature  = 0.7
	DefaultAPIKeyEnv    = "API_KEY"
)

type Config struct {
	Viz          string       `yaml:"viz"`
	Seed         int64        `yaml:"seed"`
	Steps        int          `yaml:"steps"`
	LearningRate float64      `yaml:"learning_rate"`
	IntervalMs   int          `yaml:"interval_ms"`
	Theme        string       `yaml:"theme"`
	DataDir      string       `yaml:"data_dir"`
	Tutor        TutorConfig  `yaml:"tutor"`
	Server       ServerConfig `yaml:"server"`
}

type TutorConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	APIKeyEnv   string  `yaml:"api_key_env"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		Viz:          DefaultViz,
		Seed:         1,
		Steps:        DefaultSteps,
		LearningRate: DefaultLearningRate,
		Theme:        DefaultTheme,
		DataDir:      DefaultDataDir,
		Tutor: TutorConfig{
			Model:       DefaultTutorModel,
			Temperature: DefaultTemperature,
			APIKeyEnv:   DefaultAPIKeyEnv,
		},
		Server: ServerConfig{
			Listen: DefaultListen,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Interval is the training period override; zero keeps the visualization's
// own period.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Params returns the visualization parameters the config sets.
func (c *Config) Params() map[string]float64 {
	if c.Viz != "linear-regression" || c.LearningRate <= 0 {
		return nil
	}
	return map[string]float64{"learning_rate": c.LearningRate}
}

// APIKey reads the tutor credential from the configured environment variable.
func (c *Config) APIKey() string {
	name := c.Tutor.APIKeyEnv
	if name == "" {
		name = DefaultAPIKeyEnv
	}
	return os.Getenv(name)
}
