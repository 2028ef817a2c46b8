package perf

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkv-db/pKV/cmd/util"
	"github.com/pkv-db/pKV/lib/keystore"
)

var (
	// PerfCmd measures the throughput of the embedded store on this machine.
	// It works on a throwaway store file; the configured keystore file is
	// never touched.
	PerfCmd = &cobra.Command{
		Use:               "perf",
		Short:             "Performance measurement tool for the embedded store",
		PersistentPreRunE: util.Setup,
		RunE:              run,
	}
)

func init() {
	key := "entries"
	PerfCmd.Flags().Int(key, 10_000, util.WrapString("How many entries to use for the measurements"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save the results as CSV"))
}

func run(_ *cobra.Command, _ []string) error {
	numEntries := viper.GetInt("entries")

	fmt.Println("Performance measurement tool for the pKV embedded store")
	fmt.Printf("\nEntries: %d\n\n", numEntries)

	dir, err := os.MkdirTemp("", "pkv-perf-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	client, err := keystore.New(filepath.Join(dir, "perf.db"), 0, nil)
	if err != nil {
		return err
	}
	defer client.Close()

	table, err := keystore.NewTable("perf").
		PrimaryField(keystore.FieldTypeU64).
		AddField("payload", keystore.FieldTypeString).
		AddField("bucket", keystore.FieldTypeU32).
		Build()
	if err != nil {
		return err
	}
	if err := client.CreateTable(table); err != nil {
		return err
	}

	entries := make([]*keystore.Entry, numEntries)
	for i := range entries {
		e, err := keystore.NewEntry().
			PrimaryField(keystore.U64(uint64(i))).
			AddField("payload", keystore.String(fmt.Sprintf("payload-%d", i))).
			AddField("bucket", keystore.U32(uint32(i%100))).
			Build()
		if err != nil {
			return err
		}
		entries[i] = e
	}

	registry := gometrics.NewRegistry()

	insertTimer := gometrics.NewRegisteredTimer("insert", registry)
	for _, e := range entries {
		e := e
		insertTimer.Time(func() {
			if err := client.Insert("perf", e); err != nil {
				fmt.Fprintf(os.Stderr, "(insert) - error: %v\n", err)
			}
		})
	}
	printResult("insert", insertTimer)

	getTimer := gometrics.NewRegisteredTimer("get", registry)
	for i := 0; i < numEntries; i++ {
		key := keystore.U64(uint64(i))
		getTimer.Time(func() {
			if _, err := client.Get("perf", key); err != nil {
				fmt.Fprintf(os.Stderr, "(get) - error: %v\n", err)
			}
		})
	}
	printResult("get", getTimer)

	queryTimer := gometrics.NewRegisteredTimer("query", registry)
	for i := 0; i < 100; i++ {
		criteria := map[string]keystore.Field{
			"bucket": keystore.U32(uint32(i)),
		}
		queryTimer.Time(func() {
			if _, err := client.Query("perf", criteria); err != nil {
				fmt.Fprintf(os.Stderr, "(query) - error: %v\n", err)
			}
		})
	}
	printResult("query", queryTimer)

	saveTimer := gometrics.NewRegisteredTimer("save", registry)
	for i := 0; i < 10; i++ {
		saveTimer.Time(func() {
			if err := client.Save(); err != nil {
				fmt.Fprintf(os.Stderr, "(save) - error: %v\n", err)
			}
		})
	}
	printResult("save", saveTimer)

	deleteTimer := gometrics.NewRegisteredTimer("delete", registry)
	for i := 0; i < numEntries; i++ {
		key := keystore.U64(uint64(i))
		deleteTimer.Time(func() {
			if err := client.Delete("perf", key); err != nil {
				fmt.Fprintf(os.Stderr, "(delete) - error: %v\n", err)
			}
		})
	}
	printResult("delete", deleteTimer)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry, numEntries); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// printResult prints the result of one measurement in a formatted way
func printResult(name string, timer gometrics.Timer) {
	mean := time.Duration(int64(timer.Mean()))
	p95 := time.Duration(int64(timer.Percentile(0.95)))
	opsPerSec := 0.0
	if timer.Mean() > 0 {
		opsPerSec = 1e9 / timer.Mean()
	}
	fmt.Printf("%-10s%8d ops\t%12v/op (p95 %v)\t%.0f ops/sec\n",
		name, timer.Count(), mean, p95, opsPerSec)
}

// writeResultsToCSV writes the timer snapshots to a CSV file
func writeResultsToCSV(csvPath string, registry gometrics.Registry, numEntries int) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Count", "MeanNs", "P95Ns", "OpsPerSec", "Entries"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	var writeErr error
	registry.Each(func(name string, metric interface{}) {
		timer, ok := metric.(gometrics.Timer)
		if !ok || writeErr != nil {
			return
		}

		opsPerSec := 0.0
		if timer.Mean() > 0 {
			opsPerSec = 1e9 / timer.Mean()
		}

		row := []string{
			name,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", timer.Mean()),
			fmt.Sprintf("%.0f", timer.Percentile(0.95)),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.Itoa(numEntries),
		}
		if err := writer.Write(row); err != nil {
			writeErr = fmt.Errorf("failed to write row for test %s: %v", name, err)
		}
	})

	return writeErr
}
