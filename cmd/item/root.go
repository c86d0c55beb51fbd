package item

import (
	"github.com/ValentinKolb/storagefor/cmd/util"
	"github.com/ValentinKolb/storagefor/lib/probe"
	"github.com/spf13/cobra"
)

var (
	stores *probe.Registry
	handle *probe.Handle

	// ItemCommands represents the raw item command group
	ItemCommands = &cobra.Command{
		Use:   "item",
		Short: "Read and write raw items of a native store",
		Long: `Read and write raw items of a native store. Values are printed as they
are stored, i.e. encoded by the codec of the proxy that wrote them.`,
	}
)

func init() {
	ItemCommands.PersistentFlags().String("kind", "local", util.WrapString("The store to operate on (local, session)"))

	// Add subcommands
	for _, c := range []*cobra.Command{getCmd, setCmd, removeCmd, keysCmd, clearCmd} {
		c.PreRunE = openStore
		c.PostRunE = closeStore
		ItemCommands.AddCommand(c)
	}
}

// openStore probes the store selected with --kind
func openStore(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	kind, err := util.GetKind()
	if err != nil {
		return err
	}
	stores = util.NewStores()
	handle = stores.Probe(kind)
	return nil
}

func closeStore(_ *cobra.Command, _ []string) error {
	if stores == nil {
		return nil
	}
	return stores.Close()
}
