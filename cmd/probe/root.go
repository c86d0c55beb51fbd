package probe

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/cmd/util"
	"github.com/spf13/cobra"
)

// ProbeCmd tests the native stores and reports which of them are usable
var ProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test the native stores and report whether they are usable",
	Long: `Test the native stores with a write-then-delete of a sentinel item.
A store that fails the test is replaced by an in-memory store; data written to
it is lost when the process exits.`,
	RunE: run,
}

func run(_ *cobra.Command, _ []string) error {
	conf := util.GetConfig()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())

	stores := util.NewStores()
	defer stores.Close()

	paths := map[string]string{
		"local":   conf.ResolvedLocalPath(),
		"session": conf.ResolvedSessionPath(),
	}
	failed := 0
	for _, h := range stores.ProbeAll() {
		status := "native"
		if !h.Native() {
			status = "fallback (in memory)"
			failed++
		}
		fmt.Printf("%-10s%-24s%s\n", h.Kind(), status, paths[string(h.Kind())])
	}
	if failed > 0 {
		fmt.Printf("\n%d store(s) are not usable, see the log for details\n", failed)
	}
	return nil
}
