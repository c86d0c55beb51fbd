package provide

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/cmd/util"
	"github.com/ValentinKolb/storagefor/lib/keys"
	"github.com/ValentinKolb/storagefor/lib/provision"
	"github.com/ValentinKolb/storagefor/lib/proxy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
)

// ProvideCmd provisions a storage instance and optionally changes it
var ProvideCmd = &cobra.Command{
	Use:   "provide [key]",
	Short: "Provision the storage of a key and print its content",
	Long: `Provision the storage of a key from the descriptors in the --descriptors
file, apply the requested changes and print the resulting content as YAML.

Values of --set and --append are parsed as YAML, so "3" is a number, "true" a
boolean and "[a, b]" a list.`,
	Example: `  storagefor provide prefs --descriptors storage.yaml --set theme=light
  storagefor provide favorites --entity user:42 --append 17`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	key := "entity"
	ProvideCmd.Flags().String(key, "", util.WrapString("Entity the storage is attached to, as type:id (e.g. post:7)"))

	key = "legacy-key"
	ProvideCmd.Flags().String(key, "", util.WrapString("Use this storage key instead of the computed one"))

	key = "set"
	ProvideCmd.Flags().StringArray(key, nil, util.WrapString("Set a property of an object storage (key=value, repeatable)"))

	key = "append"
	ProvideCmd.Flags().StringArray(key, nil, util.WrapString("Append an item to an array storage (repeatable)"))

	key = "reset"
	ProvideCmd.Flags().Bool(key, false, util.WrapString("Reset the storage to its initial content before applying changes"))
}

func run(cmd *cobra.Command, args []string) error {
	p, err := util.NewProvider()
	if err != nil {
		return err
	}
	defer p.Close()

	var opts []provision.Option
	if legacy := viper.GetString("legacy-key"); legacy != "" {
		opts = append(opts, provision.WithLegacyKey(legacy))
	}

	var instance any
	if ref := viper.GetString("entity"); ref != "" {
		entity, err := keys.ParseRef(ref)
		if err != nil {
			return err
		}
		instance, err = p.ProvideEntityStorage(cmd, args[0], entity, opts...)
		if err != nil {
			return err
		}
	} else {
		instance, err = p.ProvideStorage(cmd, args[0], opts...)
		if err != nil {
			return err
		}
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	appends, _ := cmd.Flags().GetStringArray("append")
	reset := viper.GetBool("reset")

	switch s := instance.(type) {
	case *proxy.Object:
		if reset {
			if err := s.Reset(); err != nil {
				return err
			}
		}
		if len(appends) > 0 {
			return fmt.Errorf("--append needs an array storage, %s is an object", s.StorageKey())
		}
		props, err := parseSets(sets)
		if err != nil {
			return err
		}
		if len(props) > 0 {
			if err := s.SetProperties(props); err != nil {
				return err
			}
		}
		return printContent(s.StorageKey(), s.Content())
	case *proxy.Array:
		if reset {
			if err := s.Reset(); err != nil {
				return err
			}
		}
		if len(sets) > 0 {
			return fmt.Errorf("--set needs an object storage, %s is an array", s.StorageKey())
		}
		items := make([]any, 0, len(appends))
		for _, raw := range appends {
			items = append(items, parseValue(raw))
		}
		if len(items) > 0 {
			if err := s.Append(items...); err != nil {
				return err
			}
		}
		return printContent(s.StorageKey(), s.Items())
	case *proxy.Plain:
		if len(appends) > 0 {
			return fmt.Errorf("--append needs an array storage, %s is a plain object", s.StorageKey())
		}
		props, err := parseSets(sets)
		if err != nil {
			return err
		}
		for k, v := range props {
			s.Set(k, v)
		}
		return printContent(s.StorageKey(), s.Properties())
	default:
		return printContent(args[0], instance)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func parseSets(sets []string) (map[string]any, error) {
	props := make(map[string]any, len(sets))
	for _, set := range sets {
		k, v, ok := strings.Cut(set, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set %q (expected key=value)", set)
		}
		props[k] = parseValue(v)
	}
	return props, nil
}

// parseValue parses a YAML scalar or collection, falling back to the raw string
func parseValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	return v
}

func printContent(storageKey string, content any) error {
	fmt.Printf("# %s\n", storageKey)
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(content); err != nil {
		return err
	}
	return enc.Close()
}
