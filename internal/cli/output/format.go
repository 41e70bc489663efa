package output

import (
	"fmt"
	"strings"
)

// FormatHeader renders a markdown header at the given level.
func FormatHeader(level int, s string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + s
}

// FormatKeyValue renders a bolded markdown key/value line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}
