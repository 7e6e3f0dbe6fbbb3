package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions when unknown config keys are detected.
const maxLevenshteinDistance = 3

// knownKeys lists the valid keys of every table, keyed by the table's dotted
// path ("" is the top level). Each list is sorted so that ties in edit
// distance always produce the same suggestion.
var knownKeys = func() map[string][]string {
	format := []string{"enabled", "mime_type"}

	keys := map[string][]string{
		"": {
			"credentials_file", "delete_not_found", "destination", "export",
			"folder_id", "logging", "network", "transfers",
		},
		"export": {
			"document", "drawing", "extensions", "presentation", "spreadsheet", "transform_command",
		},
		"export.document":     format,
		"export.spreadsheet":  format,
		"export.presentation": format,
		"export.drawing":      format,
		"transfers":           {"retry_base_delay", "retry_max_attempts", "transfer_workers"},
		"logging":             {"log_format", "log_level"},
		"network":             {"connect_timeout", "data_timeout", "user_agent"},
	}

	for _, list := range keys {
		slices.Sort(list)
	}

	return keys
}()

// checkUnknownKeys inspects TOML metadata for undecoded keys and returns
// an error with "did you mean?" suggestions for each unknown key. Keys
// nested under an unknown table are not reported separately.
func checkUnknownKeys(md *toml.MetaData) error {
	var errs []error

	for _, key := range md.Undecoded() {
		if err := unknownKeyError(key); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// unknownKeyError describes one undecoded key, or returns nil when the key
// sits below a table that is itself unknown.
func unknownKeyError(key toml.Key) error {
	if len(key) == 0 {
		return nil
	}

	parent := strings.Join(key[:len(key)-1], ".")
	leaf := key[len(key)-1]

	known, ok := knownKeys[parent]
	if !ok || slices.Contains(known, leaf) {
		return nil
	}

	if suggestion := closestMatch(leaf, known); suggestion != "" {
		return fmt.Errorf("unknown config key %q, did you mean %q?", key.String(), suggestion)
	}

	return fmt.Errorf("unknown config key %q", key.String())
}

// closestMatch finds the closest known key by Levenshtein distance.
// Returns empty string if no match is within maxLevenshteinDistance.
func closestMatch(unknown string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, k := range known {
		if d := levenshtein(unknown, k); d < bestDist {
			bestDist = d
			best = k
		}
	}

	return best
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}

	if b == "" {
		return len(a)
	}

	// Single-row optimization: only the previous row is kept.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := range len(a) {
		curr[0] = i + 1

		for j := range len(b) {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}

			curr[j+1] = min(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}
