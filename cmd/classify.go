package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"brecha/internal/clix"
	"brecha/pkg/categorizer"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title...>",
	Short: "Classify one project title",
	Example: `  brecha classify "Mejoramiento del servicio de agua potable en el distrito de San Juan"
  brecha classify --json Creación de pistas y veredas`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		output, err := clix.ParseOutput(cmd.Flags())
		if err != nil {
			return err
		}
		title, err := clix.TitleFromArgs(args)
		if err != nil {
			return err
		}

		result, err := appInstance.Classifier.Classify(cmd.Context(), title)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if output.JSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(result); err != nil {
				return err
			}
		} else {
			printResult(out, result)
		}

		if result.Degraded() {
			return fmt.Errorf("classification failed: %s", *result.Error)
		}
		return nil
	},
}

func printResult(out io.Writer, result *categorizer.Result) {
	if result.Degraded() {
		fmt.Fprintf(out, "%s %s\n", color.RedString("DEGRADED"), *result.Error)
		if result.ErrorDetail != nil {
			fmt.Fprintf(out, "  detail: %s\n", *result.ErrorDetail)
		}
		if result.RawResponse != nil {
			fmt.Fprintf(out, "  raw response: %s\n", *result.RawResponse)
		}
		return
	}

	status := color.GreenString("CLASSIFIED")
	if len(result.Labels) == 0 || (len(result.Labels) == 1 && result.Labels[0].IsSentinel()) {
		status = color.YellowString("UNCLASSIFIED")
	}
	fmt.Fprintf(out, "%s %d label(s)\n", status, len(result.Labels))
	if len(result.Labels) == 0 {
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Label", "Confianza", "Justificación"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(true)
	for _, l := range result.Labels {
		table.Append([]string{
			fmt.Sprintf("%d", l.ID),
			l.Label,
			fmt.Sprintf("%.2f", l.Confidence),
			strings.TrimSpace(l.Justification),
		})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Bool("json", false, "Print the raw classification result as JSON")
}
