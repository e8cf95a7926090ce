package utils

import (
	"strconv"
	"strings"
)

// GenerateHandle builds a handle from a user's name: lowercased first and
// last name concatenated, cut to maxLen. If the result is taken, a numeric
// suffix is appended (replacing trailing characters when at the limit).
func GenerateHandle(nameFirst, nameLast string, maxLen int, taken func(string) bool) string {
	base := strings.ToLower(nameFirst + nameLast)
	base = strings.ReplaceAll(base, " ", "")
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if !taken(base) {
		return base
	}

	for i := 0; ; i++ {
		suffix := strconv.Itoa(i)
		candidate := base
		if len(candidate)+len(suffix) > maxLen {
			candidate = candidate[:maxLen-len(suffix)]
		}
		candidate += suffix
		if !taken(candidate) {
			return candidate
		}
	}
}
