// Command uhimap computes urban-heat-island hotspots from a
// land-surface-temperature grid and a vegetation-index grid, and writes
// the result as a GeoJSON feature collection.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/heatgrid-data/uhimap/internal/config"
	"github.com/heatgrid-data/uhimap/internal/hotspot"
	"github.com/heatgrid-data/uhimap/internal/raster"
	"github.com/heatgrid-data/uhimap/internal/units"
	"github.com/heatgrid-data/uhimap/internal/vector"
	"github.com/heatgrid-data/uhimap/internal/version"
)

var (
	lstPath       = flag.String("lst", "", "Land-surface-temperature grid (.asc with a .prj sidecar)")
	ndviPath      = flag.String("ndvi", "", "Vegetation-index grid (.asc with a .prj sidecar)")
	nirPath       = flag.String("nir", "", "Near-infrared band grid; with -red, derives the vegetation index instead of -ndvi")
	redPath       = flag.String("red", "", "Red band grid; used together with -nir")
	aoiPath       = flag.String("aoi", "", "Area-of-interest polygon (GeoJSON file, WGS84)")
	modisScale    = flag.Bool("modis-scale", false, "Treat -lst as raw MOD11A1 counts and rescale to degrees Celsius")
	anomaly       = flag.Bool("anomaly", false, "Threshold each cell's deviation from the grid mean instead of its absolute value")
	threshold     = flag.Float64("threshold", 30.0, "Temperature threshold; only cells above it become hotspots")
	ndviThreshold = flag.Float64("ndvi-threshold", hotspot.DefaultSecondaryThreshold, "Vegetation threshold; cells at or above it are excluded")
	mode          = flag.String("mode", "polygon", "Output geometry per hotspot cell: polygon or point")
	simplify      = flag.Float64("simplify", 0, "Polygon simplification tolerance in meters (0 disables)")
	configPath    = flag.String("config", "", "Optional JSON config file; explicitly set flags override it")
	tileRows      = flag.Int("tile-rows", 0, "Rows per processing band for parallel runs (0 runs untiled)")
	outPath       = flag.String("o", "", "Output file (default stdout)")
	quiet         = flag.Bool("quiet", false, "Suppress progress logging")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("uhimap %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if err := run(); err != nil {
		log.Fatalf("uhimap: %s", describeError(err))
	}
}

func run() error {
	if *lstPath == "" || *aoiPath == "" {
		flag.Usage()
		return fmt.Errorf("-lst and -aoi are required")
	}
	useBands := *nirPath != "" || *redPath != ""
	if useBands && (*nirPath == "" || *redPath == "") {
		return fmt.Errorf("-nir and -red must be given together")
	}
	if useBands && *ndviPath != "" {
		return fmt.Errorf("-ndvi cannot be combined with -nir/-red")
	}
	if !useBands && *ndviPath == "" {
		flag.Usage()
		return fmt.Errorf("either -ndvi or -nir and -red are required")
	}

	// Record which flags were given on the command line so they can
	// override values from the config file.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := config.DefaultPipelineConfig()
	if *configPath != "" {
		loaded, err := config.LoadPipelineConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	tp := cfg.GetPrimaryThreshold()
	if set["threshold"] {
		tp = *threshold
	}
	ts := cfg.GetSecondaryThreshold()
	if set["ndvi-threshold"] {
		ts = *ndviThreshold
	}
	modeName := cfg.GetVectorMode()
	if set["mode"] {
		modeName = *mode
	}
	vectorMode, err := vector.ParseMode(modeName)
	if err != nil {
		return err
	}
	simplifyMeters := cfg.GetSimplifyToleranceMeters()
	if set["simplify"] {
		simplifyMeters = *simplify
	}
	rows := cfg.GetTileRows()
	if set["tile-rows"] {
		rows = *tileRows
	}
	scaleLST := cfg.GetModisScale()
	if set["modis-scale"] {
		scaleLST = *modisScale
	}
	anomalyLST := cfg.GetThresholdAnomaly()
	if set["anomaly"] {
		anomalyLST = *anomaly
	}

	aoiData, err := os.ReadFile(*aoiPath)
	if err != nil {
		return fmt.Errorf("reading AOI file: %w", err)
	}
	aoi, err := vector.ParseAOI(aoiData)
	if err != nil {
		return fmt.Errorf("parsing AOI file %s: %w", *aoiPath, err)
	}

	secondaryPath := *ndviPath
	if useBands {
		secondaryPath = *nirPath
	}
	p := hotspot.NewParams(*lstPath, secondaryPath, tp, aoi, vectorMode)
	if useBands {
		p.SecondaryRedPath = *redPath
	}
	p.ModisScale = scaleLST
	p.Anomaly = anomalyLST
	p.SecondaryThreshold = ts
	p.ValueKey = cfg.GetValueProperty()
	p.SimplifyTolerance = units.MetersToDegrees(simplifyMeters)
	p.PeriodDays = cfg.GetPeriodDays()
	p.DataSource = cfg.GetDataSource()
	if cfg.GetMetadataPerFeature() {
		p.MetadataPlacement = vector.MetadataPerFeature
	}

	if !*quiet {
		log.Printf("computing hotspots: lst=%s ndvi=%s threshold=%g ndvi-threshold=%g mode=%s tile-rows=%d",
			*lstPath, secondaryPath, tp, ts, vectorMode, rows)
	}

	var fc *vector.FeatureCollection
	if rows > 0 {
		fc, err = hotspot.ComputeTiled(context.Background(), p, rows)
	} else {
		fc, err = hotspot.Compute(p)
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	data = append(data, '\n')

	dest := "stdout"
	if *outPath != "" {
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		dest = *outPath
	} else {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}

	if !*quiet {
		log.Printf("wrote %d features to %s", len(fc.Features), dest)
	}
	return nil
}

// describeError prefixes the message with the failure kind so scripted
// callers can tell a missing input from a bad one.
func describeError(err error) string {
	var nf *raster.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("input not found: %v", err)
	}
	var fe *raster.FormatError
	if errors.As(err, &fe) {
		return fmt.Sprintf("malformed input: %v", err)
	}
	var ae *raster.AlignmentError
	if errors.As(err, &ae) {
		return fmt.Sprintf("grids incompatible: %v", err)
	}
	var pe *raster.ProjectionError
	if errors.As(err, &pe) {
		return fmt.Sprintf("projection failure: %v", err)
	}
	return err.Error()
}
