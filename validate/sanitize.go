package validate

import "strings"

var sanitizeReplacer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "", "&", "")

// Sanitize strips markup-significant characters and truncates the result to
// maxLength runes. A maxLength of zero or less disables truncation.
//
// Sanitize is for values headed to non-executable display contexts only; it
// is not a substitute for the structural validators in this package.
func Sanitize(s string, maxLength int) string {
	s = sanitizeReplacer.Replace(s)
	if maxLength > 0 {
		if runes := []rune(s); len(runes) > maxLength {
			s = string(runes[:maxLength])
		}
	}
	return s
}
