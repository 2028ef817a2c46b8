package table

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkv-db/pKV/cmd/util"
	"github.com/pkv-db/pKV/lib/keystore"
)

var (
	// TableCommands represents the table command group
	TableCommands = &cobra.Command{
		Use:               "table",
		Short:             "Manage table schemas",
		PersistentPreRunE: util.Setup,
	}

	createCmd = &cobra.Command{
		Use:   "create [name] [primary-type] [field:type[:optional] ...]",
		Short: "Creates a table with the given schema",
		Long: util.WrapString(`Creates a table. The primary key type and every field are given as
positional arguments, e.g.:

  pkv table create users string age:u32 note:string:optional

Fields are required unless suffixed with :optional.`),
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			primaryType, err := keystore.ParseFieldType(args[1])
			if err != nil {
				return err
			}

			builder := keystore.NewTable(name).PrimaryField(primaryType)
			for _, spec := range args[2:] {
				parts := strings.Split(spec, ":")
				switch len(parts) {
				case 2:
					fieldType, err := keystore.ParseFieldType(parts[1])
					if err != nil {
						return err
					}
					builder = builder.AddField(parts[0], fieldType)
				case 3:
					if parts[2] != "optional" {
						return fmt.Errorf("invalid field spec %q, expected name:type[:optional]", spec)
					}
					fieldType, err := keystore.ParseFieldType(parts[1])
					if err != nil {
						return err
					}
					builder = builder.AddOptionalField(parts[0], fieldType)
				default:
					return fmt.Errorf("invalid field spec %q, expected name:type[:optional]", spec)
				}
			}

			if expireAfter := viper.GetDuration("expire-after"); expireAfter > 0 {
				builder = builder.AddExpiration(expireAfter)
			}

			table, err := builder.Build()
			if err != nil {
				return err
			}

			client, err := util.OpenStore()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.CreateTable(table); err != nil {
				return err
			}
			if err := client.Save(); err != nil {
				return err
			}
			fmt.Printf("created table %q\n", name)
			return nil
		},
	}

	dropCmd = &cobra.Command{
		Use:   "drop [name]",
		Short: "Drops a table and all its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := util.OpenStore()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DropTable(args[0]); err != nil {
				return err
			}
			if err := client.Save(); err != nil {
				return err
			}
			fmt.Printf("dropped table %q\n", args[0])
			return nil
		},
	}
)

func init() {
	createCmd.Flags().Duration("expire-after",
		0, util.WrapString("time-to-live for entries of this table, measured from their last write (0 disables expiration)"))

	TableCommands.AddCommand(createCmd)
	TableCommands.AddCommand(dropCmd)
}
