// Command gtree-stats runs repeated random-tree experiments and reports
// averaged structural statistics of canonical G-trees: height, rotation
// counts and rank distribution, with variances across repetitions.
//
// Trees are built from uniformly random keys under the default geometric
// ranker, so the reported heights describe what the rank distribution —
// the tree's only source of balance — delivers in practice. With -plot the
// mean height curve is written as a PNG.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"golang.org/x/term"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	gtree "github.com/g-trees/gtree-experiments"
)

type experiment struct {
	size        int
	meanHeight  float64
	varHeight   float64
	meanRotate  float64
	varRotate   float64
	perfectH    float64
	maxRankSeen uint64
}

func main() {
	gtrace.CoreTracer = gologadapter.New()

	sizesFlag := flag.String("sizes", "128,512,2048,8192,32768", "comma-separated tree sizes")
	reps := flag.Int("reps", 100, "repetitions per size")
	seed := flag.Int64("seed", 1, "random seed")
	plotFile := flag.String("plot", "", "write mean-height curve to this PNG file")
	flag.Parse()

	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gtree-stats: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	results := make([]experiment, 0, len(sizes))
	for _, n := range sizes {
		results = append(results, runExperiment(rng, n, *reps))
	}

	report(results, *reps)

	if *plotFile != "" {
		if err := plotHeights(results, *plotFile); err != nil {
			fmt.Fprintf(os.Stderr, "gtree-stats: plot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("height curve written to %s\n", *plotFile)
	}
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid size %q", part)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// randomTree inserts n random keys, skipping the occasional duplicate.
func randomTree(rng *rand.Rand, n int) *gtree.Tree[uint64] {
	tree, err := gtree.New(gtree.Config[uint64]{Ranker: gtree.GeometricRanker[uint64]{}})
	if err != nil {
		panic(err)
	}
	for tree.Len() < n {
		next, err := tree.Insert(rng.Uint64())
		if err != nil {
			continue
		}
		tree = next
	}
	return tree
}

func runExperiment(rng *rand.Rand, size, reps int) experiment {
	heights := make([]float64, reps)
	rotations := make([]float64, reps)
	exp := experiment{size: size, perfectH: math.Ceil(math.Log2(float64(size + 1)))}
	for i := range reps {
		tree := randomTree(rng, size)
		stats := gtree.Collect(tree)
		if !stats.Valid {
			// Collect runs the invariant checker; a failure here is a bug
			// in the tree implementation, not in the experiment.
			panic("invariant violation in random tree")
		}
		heights[i] = float64(stats.Height)
		rotations[i] = float64(stats.Rotations)
		for rank := range stats.RankDistribution {
			if rank > exp.maxRankSeen {
				exp.maxRankSeen = rank
			}
		}
	}
	exp.meanHeight, exp.varHeight = meanVariance(heights)
	exp.meanRotate, exp.varRotate = meanVariance(rotations)
	return exp
}

func meanVariance(xs []float64) (mean, variance float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(xs))
	return mean, variance
}

func report(results []experiment, reps int) {
	width := 80
	if term.IsTerminal(0) {
		if w, _, err := term.GetSize(0); err == nil && w > 0 {
			width = w
		}
	}
	header := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgGreen)

	header.Printf("%-10s %-18s %-18s %-12s %-10s\n",
		"n", "height (var)", "rotations (var)", "perfect h", "max rank")
	fmt.Println(strings.Repeat("-", min(width, 72)))
	for _, r := range results {
		value.Printf("%-10d %-18s %-18s %-12.0f %-10d\n",
			r.size,
			fmt.Sprintf("%.2f (%.2f)", r.meanHeight, r.varHeight),
			fmt.Sprintf("%.0f (%.0f)", r.meanRotate, r.varRotate),
			r.perfectH,
			r.maxRankSeen)
	}
	fmt.Printf("%d repetitions per size; heights averaged over canonical trees\n", reps)
}

func plotHeights(results []experiment, file string) error {
	p := plot.New()
	p.Title.Text = "G-tree height vs. size"
	p.X.Label.Text = "keys"
	p.Y.Label.Text = "height"

	measured := make(plotter.XYs, len(results))
	perfect := make(plotter.XYs, len(results))
	for i, r := range results {
		measured[i].X = float64(r.size)
		measured[i].Y = r.meanHeight
		perfect[i].X = float64(r.size)
		perfect[i].Y = r.perfectH
	}
	measuredLine, err := plotter.NewLine(measured)
	if err != nil {
		return err
	}
	perfectLine, err := plotter.NewLine(perfect)
	if err != nil {
		return err
	}
	perfectLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(measuredLine, perfectLine)
	p.Legend.Add("mean height", measuredLine)
	p.Legend.Add("perfect height", perfectLine)
	return p.Save(6*vg.Inch, 4*vg.Inch, file)
}
