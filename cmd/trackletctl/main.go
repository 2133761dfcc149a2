// Command trackletctl runs the clustering engine over a CSV of points.
//
// Input is a CSV with columns x,y or x,y,dt (header row optional). In
// cluster mode the tool writes one label per point; in gridsearch mode it
// clusters under every velocity hypothesis and writes per-cluster
// summaries. An optional HTML scatter plot of the cluster assignment can
// be written for debugging.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/tracklet/cluster"
	"github.com/banshee-data/tracklet/gridsearch"
	"github.com/banshee-data/tracklet/points"
)

func main() {
	defaults := cluster.DefaultParams()
	var (
		input     = flag.String("input", "", "input CSV path with columns x,y[,dt] (required)")
		output    = flag.String("output", "", "output CSV path (default stdout)")
		mode      = flag.String("mode", "cluster", "operation mode: cluster or gridsearch")
		eps       = flag.Float64("eps", defaults.Eps, "neighborhood radius")
		minSize   = flag.Int("min-cluster-size", defaults.MinClusterSize, "minimum points per cluster")
		algorithm = flag.String("algorithm", defaults.Algorithm.String(), "clustering algorithm: dbscan, dbscan-kdtree, or hotspot2d")
		vxList    = flag.String("vx", "", "comma-separated x velocities (gridsearch mode)")
		vyList    = flag.String("vy", "", "comma-separated y velocities (gridsearch mode)")
		workers   = flag.Int("workers", 0, "concurrent hypotheses in gridsearch mode (0 = all CPUs)")
		plot      = flag.String("plot", "", "write an HTML scatter plot of the clustering to this path (cluster mode)")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		log.Fatal("missing required -input")
	}

	alg, err := cluster.ParseAlgorithm(*algorithm)
	if err != nil {
		log.Fatalf("bad -algorithm: %v", err)
	}

	xs, ys, dts, err := readPoints(*input)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *input, err)
	}
	log.Printf("loaded %d points from %s", len(xs), *input)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}

	switch *mode {
	case "cluster":
		err = runCluster(out, xs, ys, cluster.Params{Eps: *eps, MinClusterSize: *minSize, Algorithm: alg}, *plot)
	case "gridsearch":
		err = runGridSearch(out, xs, ys, dts, *vxList, *vyList, gridsearch.Options{
			Eps:            *eps,
			MinClusterSize: *minSize,
			Algorithm:      alg,
			Workers:        *workers,
		})
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *mode, err)
	}
}

func runCluster(out io.Writer, xs, ys []float64, params cluster.Params, plotPath string) error {
	result, err := cluster.FindClustersWith(xs, ys, params)
	if err != nil {
		return err
	}

	noise := 0
	for _, l := range result.Labels() {
		if l == cluster.Noise {
			noise++
		}
	}
	log.Printf("found %d clusters (%d noise points of %d)", result.NumClusters(), noise, result.Len())

	w := csv.NewWriter(out)
	if err := w.Write([]string{"index", "x", "y", "label"}); err != nil {
		return err
	}
	for i, l := range result.Labels() {
		rec := []string{
			strconv.Itoa(i),
			formatFloat(xs[i]),
			formatFloat(ys[i]),
			strconv.Itoa(l),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if plotPath != "" {
		if err := writeClusterPlot(plotPath, xs, ys, result); err != nil {
			return fmt.Errorf("failed to write plot: %w", err)
		}
		log.Printf("wrote cluster plot to %s", plotPath)
	}
	return nil
}

func runGridSearch(out io.Writer, xs, ys, dts []float64, vxList, vyList string, opts gridsearch.Options) error {
	if dts == nil {
		return fmt.Errorf("gridsearch mode requires a dt column in the input CSV")
	}
	vxs, err := parseFloatList(vxList)
	if err != nil {
		return fmt.Errorf("bad -vx: %w", err)
	}
	vys, err := parseFloatList(vyList)
	if err != nil {
		return fmt.Errorf("bad -vy: %w", err)
	}
	if len(vxs) == 0 || len(vys) == 0 {
		return fmt.Errorf("gridsearch mode requires -vx and -vy")
	}

	pts := make([]points.TimedPoint, len(xs))
	for i := range xs {
		pts[i] = points.TimedPoint{X: xs[i], Y: ys[i], DT: dts[i]}
	}

	result, err := gridsearch.Search(pts, vxs, vys, opts)
	if err != nil {
		return err
	}
	log.Printf("search %s: %d hypotheses, %d clusters", result.SearchID, len(result.Hypotheses), len(result.Summaries))

	w := csv.NewWriter(out)
	if err := w.Write([]string{"search_id", "cluster_id", "vx", "vy", "arc_length", "size"}); err != nil {
		return err
	}
	for _, s := range result.Summaries {
		rec := []string{
			result.SearchID,
			strconv.Itoa(s.ClusterID),
			formatFloat(s.VX),
			formatFloat(s.VY),
			formatFloat(s.ArcLength),
			strconv.Itoa(s.Size),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// readPoints loads x,y[,dt] rows. A non-numeric first row is treated as a
// header. dts is nil when the input has no third column.
func readPoints(path string) (xs, ys, dts []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	return parsePoints(f)
}

func parsePoints(r io.Reader) (xs, ys, dts []float64, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, err
		}
		line++
		if len(rec) < 2 {
			return nil, nil, nil, fmt.Errorf("line %d: expected at least 2 columns, got %d", line, len(rec))
		}

		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			if line == 1 {
				continue // header row
			}
			return nil, nil, nil, fmt.Errorf("line %d: bad coordinate: %q", line, rec)
		}

		xs = append(xs, x)
		ys = append(ys, y)
		if len(rec) >= 3 {
			dt, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("line %d: bad dt: %q", line, rec[2])
			}
			dts = append(dts, dt)
		}
	}

	if dts != nil && len(dts) != len(xs) {
		return nil, nil, nil, fmt.Errorf("dt column present on only %d of %d rows", len(dts), len(xs))
	}
	return xs, ys, dts, nil
}

func parseFloatList(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
