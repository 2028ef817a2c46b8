package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkv-db/pKV/cmd/db"
	"github.com/pkv-db/pKV/cmd/entry"
	"github.com/pkv-db/pKV/cmd/perf"
	"github.com/pkv-db/pKV/cmd/table"
	"github.com/pkv-db/pKV/cmd/util"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "pkv",
		Short: "embedded schema-typed key-value store",
		Long: fmt.Sprintf(`pKV (v%s)

An embedded, persistent key-value store with schema-typed values,
per-table expiration, and single-file persistence.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pKV v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(db.DatabaseCommands)
	RootCmd.AddCommand(table.TableCommands)
	RootCmd.AddCommand(entry.EntryCommands)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "file"
	RootCmd.PersistentFlags().String(key, "pkv.db", util.WrapString("path to the keystore file"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
