package common

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultLocalFile is the file name of the local store inside the data dir.
	DefaultLocalFile = "local.db"
	// InMemoryPath selects an in-memory SQLite database for a native store.
	InMemoryPath = ":memory:"
)

// --------------------------------------------------------------------------
// Configuration struct
// --------------------------------------------------------------------------

// Config holds all configuration parameters for the storage provider.
type Config struct {
	// DataDir is the directory of the persistent local store
	DataDir string
	// LocalPath overrides the path of the local store (default: DataDir/local.db)
	LocalPath string
	// SessionPath is the path of the session store (default: in memory)
	SessionPath string

	// Codec is the value encoding of the storage proxies (json, gob)
	Codec string

	// DescriptorFile is an optional YAML file with storage descriptors
	DescriptorFile string

	// Logging configuration
	LogLevel string
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		DataDir:     "data",
		SessionPath: InMemoryPath,
		Codec:       "json",
		LogLevel:    "info",
	}
}

// ResolvedLocalPath returns the path of the local store.
func (c *Config) ResolvedLocalPath() string {
	if strings.TrimSpace(c.LocalPath) != "" {
		return c.LocalPath
	}
	return filepath.Join(c.DataDir, DefaultLocalFile)
}

// ResolvedSessionPath returns the path of the session store.
func (c *Config) ResolvedSessionPath() string {
	if strings.TrimSpace(c.SessionPath) != "" {
		return c.SessionPath
	}
	return InMemoryPath
}

// Validate checks the values that cannot be checked by the flag parser.
func (c *Config) Validate() error {
	switch c.Codec {
	case "json", "gob":
	default:
		return fmt.Errorf("invalid codec %s. must be one of json, gob", c.Codec)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Stores")
	addField("Local Store", c.ResolvedLocalPath())
	addField("Session Store", c.ResolvedSessionPath())
	addField("Codec", c.Codec)

	addSection("Descriptors")
	if c.DescriptorFile == "" {
		addField("Descriptor File", "-")
	} else {
		addField("Descriptor File", c.DescriptorFile)
	}

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
