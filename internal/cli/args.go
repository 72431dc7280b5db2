package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireSourceDir validates that exactly one source_dir argument is provided.
func RequireSourceDir(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <source_dir>

Usage: %s

Example:
  %s ./exports -d warehouse`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}

// RequireCSVFile validates that exactly one csv_file argument is provided.
func RequireCSVFile(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <csv_file>

Usage: %s

Example:
  %s ./exports/sales.csv --date-column order_date=%%d/%%m/%%Y`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
