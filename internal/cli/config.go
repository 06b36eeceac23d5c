package cli

import "os"

// Config holds CLI configuration
type Config struct {
	// ServerURL is the base HTTP URL of the typerace server
	ServerURL string
	// Verbose enables extra output
	Verbose bool
}

// DefaultConfig returns CLI defaults, honoring environment overrides
func DefaultConfig() *Config {
	serverURL := os.Getenv("TYPERACE_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8000"
	}
	return &Config{
		ServerURL: serverURL,
	}
}
