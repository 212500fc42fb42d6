package app

import (
	"fmt"
	"net/url"
	"strings"
)

const defaultDBUser = "cricsync"

// injectServiceKey merges the service key into the connection URL as the
// password, so the key can live in a separate secret from the URL itself.
// An explicit password already present in the URL is replaced.
func injectServiceKey(raw, key string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse db url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("db url must be a postgres:// URL")
	}

	username := defaultDBUser
	if parsed.User != nil && parsed.User.Username() != "" {
		username = parsed.User.Username()
	}
	parsed.User = url.UserPassword(username, key)
	return parsed.String(), nil
}

func dbNameFromURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
}
