package secrets

import (
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups this app's secrets in the OS keychain.
	KeyringService = "scout-engine"

	omdbEnvVar         = "OMDB_API_KEY"
	omdbKeyringAccount = "omdb"
)

// OMDbAPIKey resolves the server-side OMDb key: environment first (the
// deployment path), OS keyring second (local development). Empty means the
// proxy is unconfigured and must answer 503.
func OMDbAPIKey() string {
	if v := strings.TrimSpace(os.Getenv(omdbEnvVar)); v != "" {
		return v
	}
	if pw, err := keyring.Get(KeyringService, omdbKeyringAccount); err == nil {
		return strings.TrimSpace(pw)
	}
	return ""
}

// SetOMDbAPIKey stores the key in the OS keyring for local development.
func SetOMDbAPIKey(key string) error {
	return keyring.Set(KeyringService, omdbKeyringAccount, key)
}
