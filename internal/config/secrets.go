package config

import (
	"os"
	"sort"
)

// Environment variables the source families authenticate with.
const (
	EnvAWSAccessKey = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey = "AWS_SECRET_ACCESS_KEY"
	EnvHubToken     = "HF_TOKEN"
)

// RequiredSecrets returns the env var names the deploy's weight sources need,
// sorted and deduplicated. Public buckets and hubs still work without them;
// the list is advisory and surfaced by `thalamusd validate`.
func RequiredSecrets(d Deploy) []string {
	need := map[string]bool{}
	for _, mc := range d.Models {
		for _, w := range mc.Weights {
			switch w.Type {
			case SourceS3:
				need[EnvAWSAccessKey] = true
				need[EnvAWSSecretKey] = true
			case SourceHub:
				need[EnvHubToken] = true
			}
		}
	}
	out := make([]string, 0, len(need))
	for k := range need {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MissingSecrets filters RequiredSecrets down to the vars that are unset or
// empty in the process environment.
func MissingSecrets(d Deploy) []string {
	var missing []string
	for _, name := range RequiredSecrets(d) {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
