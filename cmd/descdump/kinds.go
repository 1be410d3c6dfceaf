package main

import (
	"fmt"

	"github.com/dball/descriptors/internal/fieldtypes"
	"github.com/dball/descriptors/internal/sys"
	"github.com/spf13/cobra"
)

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the field kinds and their default SQL types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			registry := fieldtypes.NewRegistry()
			for _, kind := range registry.Kinds() {
				typ, _ := registry.Get(kind)
				name, ok := sys.JdbcTypeName(typ.SQLType())
				if !ok {
					name = typ.SQLType().String()
				}
				mutability := "immutable"
				if typ.IsMutable() {
					mutability = "mutable"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-12s %s\n", kind, name, mutability)
			}
		},
	}
}
