package db

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkv-db/pKV/cmd/util"
	"github.com/pkv-db/pKV/lib/keystore"
)

var (
	// DatabaseCommands represents the db command group
	DatabaseCommands = &cobra.Command{
		Use:               "db",
		Short:             "Manage the keystore file as a whole",
		PersistentPreRunE: util.Setup,
	}

	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Creates a new keystore file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			syncInterval := viper.GetDuration("sync-interval")

			client, err := keystore.New(util.StorePath(), syncInterval, nil)
			if err != nil {
				return err
			}
			defer client.Close()

			fmt.Printf("created keystore %s (sync interval: %v)\n", util.StorePath(), syncInterval)
			return nil
		},
	}

	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints statistics about the keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := util.OpenStore()
			if err != nil {
				return err
			}
			defer client.Close()

			info, err := client.Info()
			if err != nil {
				return err
			}

			fmt.Printf("file:            %s\n", info.Path)
			fmt.Printf("sync interval:   %v\n", info.SyncInterval)
			fmt.Printf("tables:          %d\n", len(info.Tables))
			fmt.Printf("entries:         %d\n", info.EntryCount)
			fmt.Printf("estimated size:  %d bytes (uncompressed estimate)\n", info.EstimatedBytes)
			if len(info.Tables) > 1 {
				fmt.Printf("entry spread:    %.2f (1.0 = perfectly even)\n",
					info.TableDistribution.DistributionQuality)
			}
			for _, t := range info.Tables {
				fmt.Printf("\ntable %q: %d entries", t.Name, t.Entries)
				if t.ExpireAfter > 0 {
					fmt.Printf(", expire after %v", t.ExpireAfter)
				}
				fmt.Println()
			}
			return nil
		},
	}

	tablesCmd = &cobra.Command{
		Use:   "tables",
		Short: "Lists all tables of the keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := util.OpenStore()
			if err != nil {
				return err
			}
			defer client.Close()

			names, err := client.ListTables()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	pruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Removes expired entries and saves the keystore",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := util.OpenStore()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Prune(); err != nil {
				return err
			}
			if err := client.Save(); err != nil {
				return err
			}
			fmt.Println("pruned and saved")
			return nil
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Prints entry size distribution statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := util.OpenStore()
			if err != nil {
				return err
			}
			defer client.Close()

			info, err := client.Info()
			if err != nil {
				return err
			}

			h := info.EntrySizes
			fmt.Printf("samples:        %d\n", h.GetCount())
			fmt.Printf("average size:   %d bytes\n", h.AverageSize())
			fmt.Printf("median size:    ~%d bytes\n", h.MedianEstimate())
			fmt.Printf("p95 size:       ~%d bytes\n", h.GetPercentileEstimate(95))

			boundaries, percentages := h.SizeDistribution()
			for i, pct := range percentages {
				if pct == 0 {
					continue
				}
				if i < len(boundaries) {
					fmt.Printf("  <= %8d bytes: %5.1f%%\n", boundaries[i], pct)
				} else {
					fmt.Printf("   > %8d bytes: %5.1f%%\n", boundaries[len(boundaries)-1], pct)
				}
			}

			if viper.GetBool("metrics") {
				fmt.Println()
				keystore.WriteMetrics(os.Stdout)
			}
			return nil
		},
	}
)

func init() {
	statsCmd.Flags().Bool("metrics",
		false, util.WrapString("additionally print process metrics in prometheus text format"))

	createCmd.Flags().Duration("sync-interval",
		0, util.WrapString("interval of the background prune+save worker (0 disables it)"))

	DatabaseCommands.AddCommand(createCmd)
	DatabaseCommands.AddCommand(infoCmd)
	DatabaseCommands.AddCommand(tablesCmd)
	DatabaseCommands.AddCommand(pruneCmd)
	DatabaseCommands.AddCommand(statsCmd)
}
