package secret

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict substitutes ${VAR} and $VAR references in s from the
// process environment. Unlike plain os.ExpandEnv, a ${VAR} whose variable is
// unset is an error rather than a silent empty string. Write $$ for a
// literal dollar sign.
func ExpandEnvStrict(s string) (string, error) {
	const dollarSentinel = "\x00CONNHEALTH_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	if missing := missingEnvVars(s); len(missing) > 0 {
		return "", fmt.Errorf("secret: missing required environment variables: %s", strings.Join(missing, ", "))
	}

	s = os.ExpandEnv(s)
	return strings.ReplaceAll(s, dollarSentinel, "$"), nil
}

// missingEnvVars returns the sorted, deduplicated ${VAR} names in s that are
// absent from the environment.
func missingEnvVars(s string) []string {
	var missing []string
	for _, match := range envRefPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(match[1]); !ok {
			missing = append(missing, match[1])
		}
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}
