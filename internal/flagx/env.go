package flagx

import (
	"os"
	"strconv"
	"time"
)

// EnvString returns the value of key, or fallback when it is unset or empty.
func EnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// EnvInt parses key as a base-10 integer. Unparsable values are ignored.
func EnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

// EnvBool parses key with strconv.ParseBool. Unparsable values are ignored.
func EnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

// EnvDuration accepts Go duration strings ("90s", "5m") in key, or a plain
// number of seconds in key+"_SECONDS".
func EnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
