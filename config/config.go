// Package config loads cladcpp settings from defaults, a project file,
// CLADCPP_* environment variables and command-line flags.
package config

import "fmt"

// Config represents the complete cladcpp configuration
type Config struct {
	Input       InputConfig       `mapstructure:"input" toml:"input" yaml:"input"`
	Output      OutputConfig      `mapstructure:"output" toml:"output" yaml:"output"`
	Emit        EmitConfig        `mapstructure:"emit" toml:"emit" yaml:"emit"`
	Constraints ConstraintsConfig `mapstructure:"constraints" toml:"constraints" yaml:"constraints"`
	Log         LogConfig         `mapstructure:"log" toml:"log" yaml:"log"`
}

// InputConfig configures where schemas and their includes are found
type InputConfig struct {
	Directory          string   `mapstructure:"directory" toml:"directory" yaml:"directory"`                               // Root that output paths are made relative to
	IncludeDirectories []string `mapstructure:"include_directories" toml:"include_directories" yaml:"include_directories"` // Searched after the including file's directory
}

// OutputConfig configures where generated files land
type OutputConfig struct {
	Directory       string `mapstructure:"directory" toml:"directory" yaml:"directory"`                      // "-" writes to stdout
	HeaderDirectory string `mapstructure:"header_directory" toml:"header_directory" yaml:"header_directory"` // Empty means Directory
	HeaderExtension string `mapstructure:"header_extension" toml:"header_extension" yaml:"header_extension"`
	SourceExtension string `mapstructure:"source_extension" toml:"source_extension" yaml:"source_extension"`
}

// EmitConfig toggles optional generated code
type EmitConfig struct {
	UnionHelperConstructors bool `mapstructure:"union_helper_constructors" toml:"union_helper_constructors" yaml:"union_helper_constructors"`
	Properties              bool `mapstructure:"properties" toml:"properties" yaml:"properties"`
	JSON                    bool `mapstructure:"json" toml:"json" yaml:"json"`
}

// ConstraintsConfig configures schema checks
type ConstraintsConfig struct {
	MaxMessageSize int `mapstructure:"max_message_size" toml:"max_message_size" yaml:"max_message_size"` // 0 = unlimited
}

// LogConfig configures diagnostics output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" yaml:"theme"` // Color theme: everforest, gruvbox, plain
}

// Stdout is the output directory value that sends generated code to standard output
const Stdout = "-"

// ToStdout reports whether generated code goes to standard output
func (c *Config) ToStdout() bool {
	return c.Output.Directory == Stdout
}

// GetHeaderDirectory returns the declaration-file directory, falling back to the output directory
func (c *Config) GetHeaderDirectory() string {
	if c.Output.HeaderDirectory == "" {
		return c.Output.Directory
	}
	return c.Output.HeaderDirectory
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return DefaultLogTheme
	}
	return c.Log.Theme
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Input: %s, Output: %s, Header: %s (%s/%s), Emit: {helpers: %t, properties: %t, json: %t}, MaxMessageSize: %d}",
		c.Input.Directory, c.Output.Directory, c.GetHeaderDirectory(),
		c.Output.HeaderExtension, c.Output.SourceExtension,
		c.Emit.UnionHelperConstructors, c.Emit.Properties, c.Emit.JSON,
		c.Constraints.MaxMessageSize)
}
