package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "csvload",
	Short: "Load a directory of CSV files into PostgreSQL",
	Long: `csvload imports every CSV file in a directory into its own PostgreSQL table.

For each file it infers column types (BIGINT, NUMERIC(18,4), DATE, VARCHAR, TEXT),
creates a table named data_<yyyy><mm><file> and inserts the rows in chunked
transactions. A failed chunk is rolled back and skipped; the rest of the file
is still loaded.

Exit Codes:
  0  - Success
  1  - General error (one or more files failed)
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  13 - Interrupted (SIGINT/SIGTERM or timeout)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for csvload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
