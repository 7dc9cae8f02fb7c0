// Utilities for deriving filesystem-safe folder names from playlist titles.
package shared

import (
	"strings"
)

// illegalNameChars maps every filesystem-illegal character to an underscore.
var illegalNameChars = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	`"`, "_",
	"/", "_",
	`\`, "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// maxNameLength bounds folder names to keep paths portable.
const maxNameLength = 100

// SanitizeName converts a playlist or album title into a valid folder name.
//
// Each of < > : " / \ | ? * becomes an underscore, runs of whitespace
// collapse to a single space, leading/trailing spaces and dots are trimmed,
// and the result is truncated to 100 characters. Sanitizing an already
// sanitized name returns it unchanged.
func SanitizeName(name string) string {
	s := illegalNameChars.Replace(name)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " .")

	if runes := []rune(s); len(runes) > maxNameLength {
		s = strings.Trim(string(runes[:maxNameLength]), " .")
	}

	return s
}
