package version

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "C++ Lite", info.Emitter)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), info.FormatHash)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestFormatHashIsStable(t *testing.T) {
	assert.Equal(t, Get().FormatHash, Get().FormatHash)
}

func TestString(t *testing.T) {
	info := Info{
		Version:    "1.2.0",
		CommitHash: "abc1234",
		BuildTime:  "2026-10-19",
		Emitter:    "C++ Lite",
		FormatHash: "0011223344556677",
	}
	assert.Equal(t, "cladcpp 1.2.0 (C++ Lite emitter, format 0011223344556677, commit abc1234, built 2026-10-19)", info.String())
}
