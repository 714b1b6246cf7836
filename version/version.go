// Package version reports build information for cladcpp together with the
// layout hash of the C++ it generates.
package version

import (
	"fmt"
	"runtime"

	"github.com/teranos/clad/emitter/cpp"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Emitter names the code generator compiled into this binary
const Emitter = "C++ Lite"

// Info describes one cladcpp build. FormatHash changes only when generated
// code would change shape, so two builds with the same FormatHash produce
// identical output for identical schemas.
type Info struct {
	Version    string `json:"version" yaml:"version"`
	CommitHash string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime  string `json:"build_time" yaml:"build_time"`
	Emitter    string `json:"emitter" yaml:"emitter"`
	FormatHash string `json:"format_hash" yaml:"format_hash"`
	GoVersion  string `json:"go_version" yaml:"go_version"`
	Platform   string `json:"platform" yaml:"platform"`
}

// Get returns the current build's information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Emitter:    Emitter,
		FormatHash: cpp.FormatHash(),
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the one-line summary printed by `cladcpp version`
func (i Info) String() string {
	return fmt.Sprintf("cladcpp %s (%s emitter, format %s, commit %s, built %s)",
		i.Version, i.Emitter, i.FormatHash, i.CommitHash, i.BuildTime)
}
