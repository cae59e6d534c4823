package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/alanrrz/catchment-cli/internal/export"
	"github.com/alanrrz/catchment-cli/internal/spatial"
)

var (
	runSite      string
	runShapes    string
	runShapefile string
	runOut       string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve a site, filter its addresses against drawn shapes, and export mailable records",
	RunE: func(cmd *cobra.Command, args []string) error {
		polygons, err := loadShapes()
		if err != nil {
			return err
		}
		if len(polygons) == 0 {
			return eris.New("no shapes drawn yet; provide --shapes or --boundary before requesting results")
		}

		e, err := initPipeline()
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.Pipeline.Run(cmd.Context(), runSite, polygons)
		if err != nil {
			return err
		}

		for _, f := range result.FailedShards {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: shard %s failed: %v\n", f.Path, f.Err)
		}

		out := runOut
		if out == "" {
			out = result.Site.ExportFilename()
		}
		file, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer file.Close() //nolint:errcheck

		if err := export.WriteParsed(file, result.Rows); err != nil {
			return err
		}

		zap.L().Info("export written",
			zap.String("file", out),
			zap.Int("rows", len(result.Rows)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows (%d of %d records inside region, %d shards failed)\n",
			out, len(result.Rows), result.RecordsInside, result.RecordsLoaded, len(result.FailedShards))
		return nil
	},
}

// loadShapes reads drawn shapes from GeoJSON and/or a boundary shapefile.
func loadShapes() ([]*geom.Polygon, error) {
	var polygons []*geom.Polygon

	if runShapes != "" {
		data, err := os.ReadFile(runShapes)
		if err != nil {
			return nil, eris.Wrapf(err, "read %s", runShapes)
		}
		polys, err := spatial.FromGeoJSON(data)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polys...)
	}

	if runShapefile != "" {
		polys, err := spatial.FromShapefile(runShapefile)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, polys...)
	}

	return polygons, nil
}

func init() {
	runCmd.Flags().StringVar(&runSite, "site", "", "site ID or label (required)")
	runCmd.Flags().StringVar(&runShapes, "shapes", "", "GeoJSON file of drawn shapes")
	runCmd.Flags().StringVar(&runShapefile, "boundary", "", "boundary shapefile (.shp)")
	runCmd.Flags().StringVar(&runOut, "out", "", "output CSV path (default derived from site label)")
	_ = runCmd.MarkFlagRequired("site")
	rootCmd.AddCommand(runCmd)
}
