package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/djewell11/cmti-tools/internal/domain"
	"github.com/djewell11/cmti-tools/internal/service/importer"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <source> <file.csv>",
		Short: "Import a source CSV into the inventory",
		Long: `Imports one data source into the inventory.

Sources:
  worksheet  curated CMTI worksheet
  omi        Ontario Mineral Inventory
  oam        Orphaned and Abandoned Mines compilation
  bcahm      BC Abandoned and Historic Mines
  nsmtd      Nova Scotia Mine Tailings Database`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			builder, err := builderFor(e, args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := importer.ReadTable(f)
			if err != nil {
				return err
			}

			result, err := e.pipeline.Run(cmd.Context(), builder, table)
			if err != nil {
				return err
			}

			run := result.Run
			fmt.Fprintf(cmd.OutOrStdout(),
				"%s: %d rows in, %d imported, %d dropped (run %s)\n",
				run.Source, run.RowsIn, run.RowsImported, run.RowsDropped, run.ID)
			if n := len(result.Violations); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(),
					"%d categorical values outside vocabulary (see log)\n", n)
			}
			return nil
		},
	}
	return cmd
}

func builderFor(e *env, source string) (importer.RowBuilder, error) {
	switch strings.ToLower(source) {
	case "worksheet":
		return importer.NewWorksheetBuilder(e.lookups, e.alloc), nil
	case "omi":
		return importer.NewOMIBuilder(e.lookups, e.alloc), nil
	case "oam":
		return importer.NewOAMBuilder(e.lookups, e.alloc), nil
	case "bcahm":
		return importer.NewBCAHMBuilder(e.lookups, e.alloc), nil
	case "nsmtd":
		return importer.NewNSMTDBuilder(e.lookups, e.alloc), nil
	default:
		return nil, domain.ErrValidation("unknown source %q", source)
	}
}
