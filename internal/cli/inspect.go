package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vvka-141/csvload/internal/db"
	"github.com/vvka-141/csvload/internal/files/filesystem"
	"github.com/vvka-141/csvload/internal/importer"
	"github.com/vvka-141/csvload/internal/logging"
	"github.com/vvka-141/csvload/internal/schema"
	"github.com/vvka-141/csvload/pkg/csvload"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <csv_file>",
	Short: "Show the inferred table for a CSV file without connecting",
	Long: `Inspect reads one CSV file, infers its column types and prints the
CREATE TABLE statement import would issue. Nothing is written to a database.

csvload.yaml next to the file (or --config) supplies date columns and the
delimiter, as for import.

Examples:
  csvload inspect ./exports/sales.csv
  csvload inspect ./exports/sales.csv --date-column order_date=%d/%m/%Y`,
	Args: RequireCSVFile,
	RunE: runInspect,
}

type inspectFlagValues struct {
	configPath  string
	dateColumns []string
	delimiter   string
}

var inspectFlags inspectFlagValues

func init() {
	rootCmd.AddCommand(inspectCmd)
	registerInspectFlags(inspectCmd)
}

func registerInspectFlags(cmd *cobra.Command) {
	addLoadFlags(cmd, &inspectFlags.configPath, &inspectFlags.dateColumns, &inspectFlags.delimiter)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	verbose := getVerboseFlag(cmd)

	fileCfg, err := loadFileConfig(filepath.Dir(path), inspectFlags.configPath)
	if err != nil {
		return err
	}
	dates, err := mergeDateColumns(fileCfg, inspectFlags.dateColumns)
	if err != nil {
		return err
	}
	delimiter, err := resolveDelimiter(inspectFlags.delimiter, fileCfg)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	cfg := csvload.ImportConfig{
		SourceDir:   filepath.Dir(path),
		DateColumns: dates,
		Delimiter:   delimiter,
		Verbose:     verbose,
	}
	im, err := importer.New(cfg, importer.DatabaseOpener(db.NewConnectorFactory(logger)), filesystem.NewOSFileSystem(), logger)
	if err != nil {
		return err
	}

	prep, err := im.Prepare(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "-- %s: %d rows, %d columns\n", path, prep.Dataset.RowCount(), len(prep.Profiles))
	for _, p := range prep.Profiles {
		line := fmt.Sprintf("--   %s %s (max width %d, unique %.2f", p.Column, p.SQLType(), p.MaxWidth, p.UniqueRatio)
		if p.DateAttempted {
			line += fmt.Sprintf(", dates parsed %.0f%%", 100*p.DateSuccessRate)
		}
		fmt.Fprintln(out, line+")")
	}
	fmt.Fprintln(out, schema.BuildDDL(prep.Table)+";")
	return nil
}
