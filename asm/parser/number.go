package parser

import (
	"strconv"
	"strings"
)

// ParseNumber parses value as an integer.
func ParseNumber(value string) (int64, error) {
	base, digits := SplitNumber(value)
	return strconv.ParseInt(digits, base, 64)
}

// SplitNumber splits the given number into its base and the actual
// digits. Recognized forms are 0x1f, 0b101, base#digits and plain
// decimal. Underscores are dropped. Defaults to base-10 if the base
// can not be determined.
func SplitNumber(v string) (int, string) {
	v = strings.ReplaceAll(v, "_", "")
	lower := strings.ToLower(v)

	switch {
	case strings.HasPrefix(lower, "0x"):
		return 16, v[2:]
	case strings.HasPrefix(lower, "0b"):
		return 2, v[2:]
	}

	index := strings.Index(v, "#")
	if index == -1 {
		return 10, v
	}

	base, err := strconv.ParseInt(v[:index], 10, 8)
	if err != nil || base < 2 || base > 36 {
		base = 10
	}

	return int(base), v[index+1:]
}
