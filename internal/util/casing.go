package util

import (
	"strings"
	"unicode"
)

// PrettifyName turns a member name into the stem used for generated accessors.
// Leading underscores are dropped and the first letter is upper-cased:
// "_battery_level" -> "Battery_level", "x" -> "X".
func PrettifyName(s string) string {
	s = strings.TrimLeft(s, "_")
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			return string(runes)
		}
	}
	return s
}

// LowerFirst lower-cases the first rune of s, e.g. "RobotMode" -> "robotMode"
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// JSONName is the key a member is serialized under: its name without leading underscores
func JSONName(member string) string {
	return strings.TrimLeft(member, "_")
}
