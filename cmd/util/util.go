package util

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/probe"
	"github.com/ValentinKolb/storagefor/lib/provision"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupConfigFlags adds the storage configuration flags to a command
func SetupConfigFlags(cmd *cobra.Command) {
	defaults := common.DefaultConfig()

	key := "data-dir"
	cmd.PersistentFlags().String(key, defaults.DataDir, WrapString("Directory of the persistent local store"))

	key = "local-path"
	cmd.PersistentFlags().String(key, "", WrapString("Path of the local store database (default: <data-dir>/local.db, ':memory:' keeps it in memory)"))

	key = "session-path"
	cmd.PersistentFlags().String(key, defaults.SessionPath, WrapString("Path of the session store database"))

	key = "codec"
	cmd.PersistentFlags().String(key, defaults.Codec, WrapString("Codec used to encode stored content (json, gob)"))

	key = "descriptors"
	cmd.PersistentFlags().String(key, "", WrapString("YAML file with the storage descriptors to register"))

	key = "log-level"
	cmd.PersistentFlags().String(key, defaults.LogLevel, WrapString("Level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig loads .env files and sets up viper to read STORAGEFOR_* variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("storagefor")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetConfig reads the storage configuration from viper
func GetConfig() common.Config {
	return common.Config{
		DataDir:        viper.GetString("data-dir"),
		LocalPath:      viper.GetString("local-path"),
		SessionPath:    viper.GetString("session-path"),
		Codec:          viper.GetString("codec"),
		DescriptorFile: viper.GetString("descriptors"),
		LogLevel:       viper.GetString("log-level"),
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// NewProvider creates a provider from the current configuration
func NewProvider() (*provision.Provider, error) {
	return provision.NewFromConfig(GetConfig())
}

// NewStores creates the store registry of the current configuration
func NewStores() *probe.Registry {
	return provision.NewStores(GetConfig())
}

// GetKind reads the --kind flag
func GetKind() (store.Kind, error) {
	kind, err := store.ParseKind(viper.GetString("kind"))
	if err != nil {
		return "", fmt.Errorf("invalid --kind: %w", err)
	}
	return kind, nil
}
