// Package cpp emits C++ message-buffer code for a parsed CLAD schema: a
// declaration header, a definition source file and, when the schema declares
// unions, a tag header.
//
// Generation is in-memory. Nothing is written until every constraint has
// passed and all three files have been rendered.
package cpp

import "github.com/teranos/clad/config"

// Options toggles optional generated code
type Options struct {
	HeaderExtension string // Used when rewriting #include of other schemas

	UnionHelperConstructors bool
	Properties              bool
	JSON                    bool

	MaxMessageSize int // 0 disables the size ceiling
}

// OptionsFromConfig extracts emitter options from a loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HeaderExtension:         cfg.Output.HeaderExtension,
		UnionHelperConstructors: cfg.Emit.UnionHelperConstructors,
		Properties:              cfg.Emit.Properties,
		JSON:                    cfg.Emit.JSON,
		MaxMessageSize:          cfg.Constraints.MaxMessageSize,
	}
}

func (o Options) headerExtension() string {
	if o.HeaderExtension == "" {
		return config.DefaultHeaderExtension
	}
	return o.HeaderExtension
}
