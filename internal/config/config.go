// ABOUTME: slm configuration loaded from YAML and SLM_* environment variables
// ABOUTME: Resolves XDG paths and turns the model section into a mission.Model

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/harper/slm/internal/burdell"
	"github.com/harper/slm/internal/geodesy"
	"github.com/harper/slm/internal/medal"
	"github.com/harper/slm/internal/mission"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides: SLM_LOG_LEVEL -> log.level.
const EnvPrefix = "SLM"

// defaultDBFilename is the attempt history database inside the data dir.
const defaultDBFilename = "slm.db"

// Config stores slm configuration.
type Config struct {
	// DataDir holds the attempt history. Supports ~ expansion. Defaults to
	// ~/.local/share/slm.
	DataDir string      `mapstructure:"data_dir" yaml:"data_dir"`
	Log     LogConfig   `mapstructure:"log" yaml:"log"`
	Model   ModelConfig `mapstructure:"model" yaml:"model"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type EllipsoidConfig struct {
	SemiMajorAxis     float64 `mapstructure:"semi_major_axis" yaml:"semi_major_axis"`
	InverseFlattening float64 `mapstructure:"inverse_flattening" yaml:"inverse_flattening"`
}

type SolverConfig struct {
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

type LevelConfig struct {
	Step        float64 `mapstructure:"step" yaml:"step"`
	Coefficient float64 `mapstructure:"coefficient" yaml:"coefficient"`
	Leniency    float64 `mapstructure:"leniency" yaml:"leniency"`
}

type LevelsConfig struct {
	Pro     LevelConfig `mapstructure:"pro" yaml:"pro"`
	Amateur LevelConfig `mapstructure:"amateur" yaml:"amateur"`
	Newbie  LevelConfig `mapstructure:"newbie" yaml:"newbie"`
}

// ModelConfig is the tunable part of the scoring model.
type ModelConfig struct {
	Ellipsoid     EllipsoidConfig  `mapstructure:"ellipsoid" yaml:"ellipsoid"`
	Solver        SolverConfig     `mapstructure:"solver" yaml:"solver"`
	Medals        medal.Thresholds `mapstructure:"medals" yaml:"medals"`
	Levels        LevelsConfig     `mapstructure:"levels" yaml:"levels"`
	LeniencyScope string           `mapstructure:"leniency_scope" yaml:"leniency_scope"`
	Workers       int              `mapstructure:"workers" yaml:"workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("model.ellipsoid.semi_major_axis", 6378137.0)
	v.SetDefault("model.ellipsoid.inverse_flattening", 298.257223563)
	v.SetDefault("model.solver.max_iterations", geodesy.DefaultSettings.MaxIterations)
	v.SetDefault("model.solver.tolerance", geodesy.DefaultSettings.Tolerance)

	v.SetDefault("model.medals.platinum", medal.DefaultThresholds.Platinum)
	v.SetDefault("model.medals.gold", medal.DefaultThresholds.Gold)
	v.SetDefault("model.medals.silver", medal.DefaultThresholds.Silver)
	v.SetDefault("model.medals.bronze", medal.DefaultThresholds.Bronze)

	for _, l := range burdell.Levels {
		s := burdell.DefaultSettings(l)
		v.SetDefault("model.levels."+l.Key()+".step", s.Step)
		v.SetDefault("model.levels."+l.Key()+".coefficient", s.Coefficient)
		v.SetDefault("model.levels."+l.Key()+".leniency", s.Leniency)
	}
	v.SetDefault("model.leniency_scope", string(burdell.ScopeSegment))
	v.SetDefault("model.workers", runtime.NumCPU())
}

// Load reads the config file at path, or the default path when empty, then
// applies SLM_* environment overrides. A missing default file is fine; a
// missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	explicit := path != ""
	if !explicit {
		path = GetConfigPath()
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks every field and reports all problems together.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if _, err := c.Model.Build(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			errs = append(errs, "model."+line)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Build turns the model section into a validated mission.Model.
func (m ModelConfig) Build() (mission.Model, error) {
	var errs []error

	ellipsoid, err := geodesy.NewEllipsoid(m.Ellipsoid.SemiMajorAxis, m.Ellipsoid.InverseFlattening)
	if err != nil {
		errs = append(errs, fmt.Errorf("ellipsoid: %w", err))
	}

	scope, err := burdell.ParseScope(m.LeniencyScope)
	if err != nil {
		errs = append(errs, fmt.Errorf("leniency_scope: %w", err))
	}

	levels := map[burdell.Level]burdell.Settings{
		burdell.Pro:     m.Levels.Pro.settings(scope),
		burdell.Amateur: m.Levels.Amateur.settings(scope),
		burdell.Newbie:  m.Levels.Newbie.settings(scope),
	}

	model := mission.Model{
		Ellipsoid: ellipsoid,
		Solver: geodesy.Settings{
			MaxIterations: m.Solver.MaxIterations,
			Tolerance:     m.Solver.Tolerance,
		},
		Medals:  m.Medals,
		Levels:  levels,
		Workers: m.Workers,
	}

	if len(errs) > 0 {
		return mission.Model{}, errors.Join(errs...)
	}
	if err := model.Validate(); err != nil {
		return mission.Model{}, err
	}
	return model, nil
}

func (l LevelConfig) settings(scope burdell.Scope) burdell.Settings {
	return burdell.Settings{
		Step:        l.Step,
		Coefficient: l.Coefficient,
		Leniency:    l.Leniency,
		Scope:       scope,
	}
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDBPath returns the attempt history database path.
func (c *Config) GetDBPath() string {
	return filepath.Join(c.GetDataDir(), defaultDBFilename)
}

// defaultDataDir returns the default XDG data directory for slm.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "slm")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "slm", "config.yaml")
}
