package utils

import "regexp"

var (
	spacesRe = regexp.MustCompile(`[\s()]+`)
	unsafeRe = regexp.MustCompile(`[^a-zA-Z0-9_\-.]`)
)

// SanitizeFileName makes an uploaded file name safe to use as an object key:
// whitespace and parentheses become underscores, everything outside
// [a-zA-Z0-9_-.] is stripped.
func SanitizeFileName(name string) string {
	name = spacesRe.ReplaceAllString(name, "_")
	return unsafeRe.ReplaceAllString(name, "")
}
