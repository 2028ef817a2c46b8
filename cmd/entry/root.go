package entry

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkv-db/pKV/cmd/util"
	"github.com/pkv-db/pKV/lib/keystore"
)

var (
	// EntryCommands represents the entry command group
	EntryCommands = &cobra.Command{
		Use:               "entry",
		Short:             "Perform entry operations on a table",
		PersistentPreRunE: util.Setup,
	}
)

func init() {
	EntryCommands.AddCommand(insertCmd)
	EntryCommands.AddCommand(updateCmd)
	EntryCommands.AddCommand(getCmd)
	EntryCommands.AddCommand(deleteCmd)
	EntryCommands.AddCommand(deleteManyCmd)
	EntryCommands.AddCommand(scanCmd)
	EntryCommands.AddCommand(queryCmd)
}

// buildEntry assembles an entry from a primary key literal and
// name=type:value field arguments
func buildEntry(primary string, fieldArgs []string) (*keystore.Entry, error) {
	primaryField, err := util.ParseFieldValue(primary)
	if err != nil {
		return nil, err
	}
	fields, err := util.ParseNamedFields(fieldArgs)
	if err != nil {
		return nil, err
	}

	builder := keystore.NewEntry().PrimaryField(primaryField)
	for name, f := range fields {
		builder = builder.AddField(name, f)
	}
	return builder.Build()
}

// withStore opens the store, runs fn, and saves if fn mutated the store
func withStore(mutating bool, fn func(client *keystore.Client) error) error {
	client, err := util.OpenStore()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := fn(client); err != nil {
		return err
	}
	if mutating {
		return client.Save()
	}
	return nil
}

var (
	insertCmd = &cobra.Command{
		Use:   "insert [table] [primary] [field=type:value ...]",
		Short: "Inserts a new entry",
		Long: util.WrapString(`Inserts a new entry. The primary key and all field values are given as
typed literals, e.g.:

  pkv entry insert users string:alice age=u32:30 note=string:hello`),
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEntry(args[1], args[2:])
			if err != nil {
				return err
			}
			return withStore(true, func(client *keystore.Client) error {
				if err := client.Insert(args[0], e); err != nil {
					return err
				}
				fmt.Println("inserted successfully")
				return nil
			})
		},
	}

	updateCmd = &cobra.Command{
		Use:   "update [table] [primary] [field=type:value ...]",
		Short: "Stores an entry, replacing any existing one (upsert)",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEntry(args[1], args[2:])
			if err != nil {
				return err
			}
			return withStore(true, func(client *keystore.Client) error {
				if err := client.Update(args[0], e); err != nil {
					return err
				}
				fmt.Println("updated successfully")
				return nil
			})
		},
	}

	getCmd = &cobra.Command{
		Use:   "get [table] [primary]",
		Short: "Reads the entry stored under a primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			primaryField, err := util.ParseFieldValue(args[1])
			if err != nil {
				return err
			}
			return withStore(false, func(client *keystore.Client) error {
				e, err := client.Get(args[0], primaryField)
				if err != nil {
					return err
				}
				fmt.Println(util.FormatEntry(e))
				return nil
			})
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete [table] [primary]",
		Short: "Deletes the entry stored under a primary key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			primaryField, err := util.ParseFieldValue(args[1])
			if err != nil {
				return err
			}
			return withStore(true, func(client *keystore.Client) error {
				if err := client.Delete(args[0], primaryField); err != nil {
					return err
				}
				fmt.Println("deleted successfully")
				return nil
			})
		},
	}

	deleteManyCmd = &cobra.Command{
		Use:   "delete-many [table] [field=type:value ...]",
		Short: "Deletes every entry matching the criteria",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := util.ParseNamedFields(args[1:])
			if err != nil {
				return err
			}
			return withStore(true, func(client *keystore.Client) error {
				deleted, err := client.DeleteMany(args[0], criteria)
				if err != nil {
					return err
				}
				fmt.Printf("deleted %d entries\n", deleted)
				return nil
			})
		},
	}

	scanCmd = &cobra.Command{
		Use:   "scan [table]",
		Short: "Prints all entries of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(false, func(client *keystore.Client) error {
				entries, err := client.Scan(args[0])
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Println(util.FormatEntry(e))
				}
				fmt.Printf("%d entries\n", len(entries))
				return nil
			})
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query [table] [field=type:value ...]",
		Short: "Prints every entry matching the criteria",
		Long: util.WrapString(`Prints every entry whose fields exactly match all given criteria.
Entries lacking a criteria field never match; without criteria every
entry matches.`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := util.ParseNamedFields(args[1:])
			if err != nil {
				return err
			}
			return withStore(false, func(client *keystore.Client) error {
				entries, err := client.Query(args[0], criteria)
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Println(util.FormatEntry(e))
				}
				fmt.Printf("%d matches\n", len(entries))
				return nil
			})
		},
	}
)
