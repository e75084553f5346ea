// Config loading for the gardenctl CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/gardenplot/internal/config"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	referenceFileName = "reference.toml"

	defaultConfigDirName = ".gardenplot"
	defaultDataDirName   = ".gardenplot-db"

	cfgKeyDataDir         = "data_dir"
	cfgKeyReferenceFile   = "reference_file"
	cfgKeyCollisionRadius = "collision_radius"
	cfgKeyLookupTolerance = "lookup_tolerance"
	cfgKeyLogLevel        = "log.level"
	cfgKeyLogFormat       = "log.format"

	envConfigDir = "GARDENPLOT_CONFIG_DIR"
	envDataDir   = "GARDENPLOT_DATA_DIR"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Gardenctl configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Reference data file (optional; default: reference.toml in this directory)
# reference_file:

# Spatial thresholds in canvas units
collision_radius: 25
lookup_tolerance: 20

log:
  level: info
  format: text
`

// cliViper holds the parsed config.yaml for subcommand access.
var cliViper *viper.Viper

// resolveConfigDir returns the configuration directory with precedence:
// --config-dir flag > GARDENPLOT_CONFIG_DIR env > $(CWD)/.gardenplot.
func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(cwd, defaultConfigDirName), nil
}

// resolveDataDir returns the data directory with precedence:
// --data-dir flag > config.yaml data_dir > GARDENPLOT_DATA_DIR env >
// $(CWD)/.gardenplot-db.
func resolveDataDir() (string, error) {
	if flagDataDir != "" {
		return flagDataDir, nil
	}
	if cliViper != nil {
		if dir := cliViper.GetString(cfgKeyDataDir); dir != "" {
			return dir, nil
		}
	}
	if dir := os.Getenv(envDataDir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(cwd, defaultDataDirName), nil
}

// loadConfig reads config.yaml from the config directory, creating both
// on first run, then loads the reference TOML file. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (types.Config, *config.ReferenceData, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyCollisionRadius, types.DefaultCollisionRadius)
	v.SetDefault(cfgKeyLookupTolerance, types.DefaultLookupTolerance)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, nil, fmt.Errorf("read config: %w", err)
		}
	}
	cliViper = v

	dataDir, err := resolveDataDir()
	if err != nil {
		return types.Config{}, nil, err
	}

	ref, err := loadReferenceData(v, configDir)
	if err != nil {
		return types.Config{}, nil, err
	}

	cfg := types.Config{
		DataDir:         dataDir,
		CollisionRadius: v.GetFloat64(cfgKeyCollisionRadius),
		LookupTolerance: v.GetFloat64(cfgKeyLookupTolerance),
		CanvasWidth:     ref.Garden.Width,
		CanvasHeight:    ref.Garden.Height,
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, ref, nil
}

// loadReferenceData loads the reference TOML, writing the built-in
// default file on first run.
func loadReferenceData(v *viper.Viper, configDir string) (*config.ReferenceData, error) {
	path := v.GetString(cfgKeyReferenceFile)
	if path == "" {
		path = filepath.Join(configDir, referenceFileName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.WriteDefault(path); err != nil {
			return nil, fmt.Errorf("write default reference data: %w", err)
		}
	}

	ref, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}
	return ref, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file
// does not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
