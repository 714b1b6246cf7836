package config

import (
	"strings"

	"github.com/teranos/clad/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Directory == "" {
		return invalid("output.directory cannot be empty (use \".\" or \"-\" for stdout)")
	}

	// Extensions are appended verbatim and used to rewrite includes
	if !strings.HasPrefix(c.Output.HeaderExtension, ".") {
		return invalid("output.header_extension must start with \".\", got %q", c.Output.HeaderExtension)
	}
	if !strings.HasPrefix(c.Output.SourceExtension, ".") {
		return invalid("output.source_extension must start with \".\", got %q", c.Output.SourceExtension)
	}
	if c.Output.HeaderExtension == c.Output.SourceExtension && c.GetHeaderDirectory() == c.Output.Directory {
		return invalid("output.header_extension and output.source_extension are both %q", c.Output.HeaderExtension)
	}

	// Max message size: 0 = unlimited, negative = invalid
	if c.Constraints.MaxMessageSize < 0 {
		return invalid("constraints.max_message_size must be >= 0, got %d", c.Constraints.MaxMessageSize)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrInvalidConfig)
}
