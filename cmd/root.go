package cmd

import (
	"fmt"
	"github.com/ValentinKolb/storagefor/cmd/item"
	"github.com/ValentinKolb/storagefor/cmd/perf"
	"github.com/ValentinKolb/storagefor/cmd/probe"
	"github.com/ValentinKolb/storagefor/cmd/provide"
	"github.com/ValentinKolb/storagefor/cmd/util"
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "storagefor",
		Short: "persistent storage provider",
		Long: fmt.Sprintf(`storagefor (v%s)

Provisions one storage instance per key (and per entity) backed by a
local and a session key/value store. Stores that are not usable are
replaced by in-memory stores.

All flags can also be set via environment variables of the form
STORAGEFOR_<FLAG> (e.g. STORAGEFOR_DATA_DIR=/var/lib/storagefor).`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of storagefor",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("storagefor v%s\n", Version)
		},
	}
	metricsCmd = &cobra.Command{
		Use:   "metrics",
		Short: "Probe all stores and print the metrics in Prometheus text format",
		RunE: func(cmd *cobra.Command, args []string) error {
			stores := util.NewStores()
			defer stores.Close()
			stores.ProbeAll()
			metrics.WritePrometheus(os.Stdout, false)
			return nil
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(probe.ProbeCmd)
	RootCmd.AddCommand(item.ItemCommands)
	RootCmd.AddCommand(provide.ProvideCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(metricsCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupConfigFlags(RootCmd)
}

// setup binds the flags of the executed command and configures the loggers
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	conf := util.GetConfig()
	if err := conf.Validate(); err != nil {
		return err
	}
	return common.InitLoggers(conf.LogLevel)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
