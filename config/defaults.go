package config

import "github.com/spf13/viper"

const (
	// ProjectFileName is discovered by walking up from the working directory
	ProjectFileName = "cladcpp.toml"

	// EnvPrefix namespaces environment overrides (CLADCPP_OUTPUT_DIRECTORY, ...)
	EnvPrefix = "CLADCPP"

	DefaultHeaderExtension = ".h"
	DefaultSourceExtension = ".cpp"
	DefaultLogTheme        = "everforest"

	// DefaultFilePermissions applies to generated and starter files
	DefaultFilePermissions = 0644
	// DefaultDirPermissions applies to output directories created on demand
	DefaultDirPermissions = 0755
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input.directory", ".")
	v.SetDefault("input.include_directories", []string{})

	v.SetDefault("output.directory", ".")
	v.SetDefault("output.header_directory", "") // Empty: same as output.directory
	v.SetDefault("output.header_extension", DefaultHeaderExtension)
	v.SetDefault("output.source_extension", DefaultSourceExtension)

	v.SetDefault("emit.union_helper_constructors", false)
	v.SetDefault("emit.properties", false)
	v.SetDefault("emit.json", false)

	v.SetDefault("constraints.max_message_size", 0) // Unlimited

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// Keys lists every configuration key in display order
func Keys() []string {
	return []string{
		"input.directory",
		"input.include_directories",
		"output.directory",
		"output.header_directory",
		"output.header_extension",
		"output.source_extension",
		"emit.union_helper_constructors",
		"emit.properties",
		"emit.json",
		"constraints.max_message_size",
		"log.json",
		"log.theme",
	}
}
