package perf

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/storagefor/cmd/util"
	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/keys"
	"github.com/ValentinKolb/storagefor/lib/provision"
	"github.com/ValentinKolb/storagefor/lib/proxy"
	"github.com/ValentinKolb/storagefor/lib/store"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"
)

var (
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the storage provider",
		Long:    "Benchmarks provisioning, persisting proxies and raw item operations against the configured stores.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfKey        = "perf-bench"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfSkip       = make([]string, 0)

	// latency timers, one per benchmark
	timers = gometrics.NewRegistry()
)

// benchmark is a single named performance test
type benchmark struct {
	name string
	fn   func(b *testing.B, timer gometrics.Timer)
}

func init() {
	// add flags
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. item-set,item-get)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	PerfCmd.Flags().Int(key, 100, util.WrapString("How many different keys and entities to use for the tests"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	conf := util.GetConfig()
	c, err := codec.New(conf.Codec)
	if err != nil {
		return err
	}
	p, err := provision.NewFromConfig(conf, proxy.ObjectDescriptor(perfKey, c))
	if err != nil {
		return err
	}
	defer p.Close()

	local := p.GetStore(store.KindLocal)
	defer cleanup(local)

	fmt.Println("Performance testing tool for the storage provider")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Native local store: %t\n", local.Native())
	fmt.Println()

	fmt.Println("starting tests...")

	benchmarks := []benchmark{
		{"provide", func(b *testing.B, timer gometrics.Timer) {
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					timer.Time(func() {
						if _, err := p.ProvideStorage(nil, perfKey); err != nil {
							log.Printf("(provide) - error providing storage: %v\n", err)
						}
					})
				}
			})
		}},
		{"provide-entity", func(b *testing.B, timer gometrics.Timer) {
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					entity := keys.Ref{Type: "perf", ID: strconv.Itoa(counter % perfKeySpread)}
					timer.Time(func() {
						if _, err := p.ProvideEntityStorage(nil, perfKey, entity); err != nil {
							log.Printf("(provide-entity) - error providing storage: %v\n", err)
						}
					})
					counter++
				}
			})
		}},
		{"object-set", func(b *testing.B, timer gometrics.Timer) {
			v, err := p.ProvideStorage(nil, perfKey)
			if err != nil {
				b.Fatalf("(object-set) - error providing storage: %v", err)
			}
			obj := v.(*proxy.Object)
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					field := "field-" + strconv.Itoa(counter%perfKeySpread)
					timer.Time(func() {
						if err := obj.Set(field, counter); err != nil {
							log.Printf("(object-set) - error setting field: %v\n", err)
						}
					})
					counter++
				}
			})
		}},
		{"item-set", func(b *testing.B, timer gometrics.Timer) {
			getKey, _ := getKeys("item-set")
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					timer.Time(func() {
						if err := local.SetItem(getKey(counter), []byte("test")); err != nil {
							log.Printf("(item-set) - error setting key: %v\n", err)
						}
					})
					counter++
				}
			})
		}},
		{"item-get", func(b *testing.B, timer gometrics.Timer) {
			getKey, iter := getKeys("item-get")
			iter(func(k string) {
				if err := local.SetItem(k, []byte("test")); err != nil {
					log.Printf("(item-get) - error setting key: %v\n", err)
				}
			})
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					timer.Time(func() {
						if _, _, err := local.GetItem(getKey(counter)); err != nil {
							log.Printf("(item-get) - error getting key: %v\n", err)
						}
					})
					counter++
				}
			})
		}},
		{"item-remove", func(b *testing.B, timer gometrics.Timer) {
			getKey, iter := getKeys("item-remove")
			iter(func(k string) {
				if err := local.SetItem(k, []byte("test")); err != nil {
					log.Printf("(item-remove) - error setting key: %v\n", err)
				}
			})
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					timer.Time(func() {
						if err := local.RemoveItem(getKey(counter)); err != nil {
							log.Printf("(item-remove) - error removing key: %v\n", err)
						}
					})
					counter++
				}
			})
		}},
		{"mixed", func(b *testing.B, timer gometrics.Timer) {
			getKey, _ := getKeys("mixed")
			b.RunParallel(func(pb *testing.PB) {
				counter := 0
				for pb.Next() {
					key := getKey(counter)
					timer.Time(func() {
						var err error
						switch counter % 4 {
						case 0: // set
							err = local.SetItem(key, []byte("test"))
						case 1: // get
							_, _, err = local.GetItem(key)
						case 2: // remove
							err = local.RemoveItem(key)
						case 3: // provide
							_, err = p.ProvideStorage(nil, perfKey)
						}
						if err != nil {
							log.Printf("(mixed) - error performing operation (%d): %v\n", counter%4, err)
						}
					})
					counter++
				}
			})
		}},
	}

	results := make(map[string]testing.BenchmarkResult, len(benchmarks))
	for _, bm := range benchmarks {
		timer := gometrics.GetOrRegisterTimer(bm.name, timers)
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) {
				return
			}
			b.SetParallelism(perfNumThreads)
			bm.fn(b, timer)
		})
		results[bm.name] = result
		printResult(bm.name, result, timer)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, benchmarks, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	names := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		names[i] = fmt.Sprintf("%s-%s-%d", perfKey, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return names[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range names {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

// cleanup removes every item written by the benchmarks
func cleanup(s store.IStore) {
	all, err := s.Keys()
	if err != nil {
		log.Printf("(cleanup) - error listing keys: %v\n", err)
		return
	}
	for _, k := range all {
		if strings.HasPrefix(k, perfKey) || strings.HasPrefix(k, "storage:"+perfKey) {
			if err := s.RemoveItem(k); err != nil {
				log.Printf("(cleanup) - error removing key: %v\n", err)
			}
		}
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult, timer gometrics.Timer) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)
	ps := timer.Percentiles([]float64{0.5, 0.99})

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\tp50 %s\tp99 %s\n",
		test, nsPerOp, time.Duration(nsPerOp), opsPerSec, time.Duration(ps[0]), time.Duration(ps[1]))
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, benchmarks []benchmark, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	conf := util.GetConfig()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "P50Ns", "P99Ns", "Skipped",
		"LocalStore", "SessionStore", "Codec",
		"Threads", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results in execution order
	for _, bm := range benchmarks {
		result := results[bm.name]
		timer := gometrics.GetOrRegisterTimer(bm.name, timers)

		var nsPerOp, opsPerSec float64
		skipped := "true"
		if result.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}
		ps := timer.Percentiles([]float64{0.5, 0.99})

		row := []string{
			bm.name,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			skipped,
			conf.ResolvedLocalPath(),
			conf.ResolvedSessionPath(),
			conf.Codec,
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", bm.name, err)
		}
	}

	return nil
}
