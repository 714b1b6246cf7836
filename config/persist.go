package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

// Starter returns the configuration written by "cladcpp config init"
func Starter() *Config {
	return &Config{
		Input: InputConfig{
			Directory:          ".",
			IncludeDirectories: []string{},
		},
		Output: OutputConfig{
			Directory:       "generated",
			HeaderExtension: DefaultHeaderExtension,
			SourceExtension: DefaultSourceExtension,
		},
		Log: LogConfig{Theme: DefaultLogTheme},
	}
}

// WriteFile marshals cfg as TOML to path. An existing file is rotated to
// path.back1 (and .back1 to .back2) unless it would be overwritten by identical content.
func WriteFile(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if existing, err := os.ReadFile(path); err == nil && string(existing) == string(data) {
		return nil
	}

	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	logger.Infow("Wrote config", logger.FieldFile, path, logger.FieldBytes, len(data))
	return nil
}

// createBackup creates rotating backups (.back1, .back2) before replacing a config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back2); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back2, logger.FieldError, err)
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}
