package exec

import (
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ValueVar carries the settled value into hook commands.
const ValueVar = "PULSE_VALUE"

// HookEnv layers the process environment, the dotenv file, the configured
// variables and finally the settled value. Later entries win. A missing
// dotenv file is skipped; an unreadable or malformed one is an error.
func HookEnv(value string, extra map[string]string, dotenvPath string) ([]string, error) {
	env := os.Environ()

	if dotenvPath != "" {
		vars, err := LoadDotenv(dotenvPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			env = append(env, sortedPairs(vars)...)
		}
	}

	env = append(env, sortedPairs(extra)...)
	env = append(env, ValueVar+"="+value)

	return MergeEnv(env, nil), nil
}

func sortedPairs(vars map[string]string) []string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+vars[k])
	}
	return pairs
}

// LoadDotenv reads KEY=value pairs from a dotenv file without touching the
// process environment.
func LoadDotenv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load dotenv %s", path)
	}
	return vars, nil
}

// MergeEnv collapses duplicate keys, keeping the last value. The result is
// sorted by key.
func MergeEnv(base, override []string) []string {
	envMap := make(map[string]string)

	for _, e := range append(append([]string{}, base...), override...) {
		idx := strings.Index(e, "=")
		if idx != -1 {
			envMap[e[:idx]] = e[idx+1:]
		}
	}

	return sortedPairs(envMap)
}
