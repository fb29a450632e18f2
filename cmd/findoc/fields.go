package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/findoc-reader/internal/common"
)

var fieldsJSON bool

var fieldsCmd = &cobra.Command{
	Use:   "fields [name]",
	Short: "Print the output keys, document aliases and chat rules",
	Long: `Print the output keys of both pipelines. With a name, print only that key;
the name is matched loosely, so "payment frequency" finds PaymentFrequency.`,
	Args: cobra.MaximumNArgs(1),
	RunE:  runFields,
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsJSON, "json", false, "print as JSON")
}

func runFields(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	tables := a.processor.FieldTables()
	if len(args) == 1 {
		var ok bool
		if tables, ok = tables.Filter(args[0]); !ok {
			return common.InvalidInputError(fmt.Sprintf("unknown field %q", args[0]))
		}
	}

	if fieldsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOCUMENT FIELD\tALIASES")
	for _, f := range tables.Document {
		fmt.Fprintf(tw, "%s\t%s\n", f.Field, strings.Join(f.Aliases, " | "))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CHAT FIELD\tRULE")
	for _, f := range tables.Chat {
		fmt.Fprintf(tw, "%s\t%s\n", f.Field, f.Rule)
	}
	return tw.Flush()
}
