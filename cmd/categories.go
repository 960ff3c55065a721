package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"brecha/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:         "categories",
	Short:       "List the classification catalog",
	Annotations: map[string]string{catalogOnly: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		output, err := clix.ParseOutput(cmd.Flags())
		if err != nil {
			return err
		}

		all := appInstance.Catalog.All()
		out := cmd.OutOrStdout()

		if output.JSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(all)
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"ID", "Name", "Definition"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetRowLine(true)
		for _, c := range all {
			table.Append([]string{fmt.Sprintf("%d", c.ID), c.Name, firstLine(c.Definition)})
		}
		table.Render()
		fmt.Fprintf(out, "%d categories from %s\n", len(all), appInstance.Catalog.Source())
		return nil
	},
}

// firstLine keeps the table readable; --json has the full definitions.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i]) + " ..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().Bool("json", false, "Print categories as JSON")
}
