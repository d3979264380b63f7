package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/porenet/pkg/network/generate"
	"github.com/matzehuels/porenet/pkg/pipeline"
	"github.com/matzehuels/porenet/pkg/sweep"
)

// sweepFlags are the pipeline options settable from the command line. Only
// flags the user actually set override the config file.
type sweepFlags struct {
	depth    float64
	surface  float64
	steps    int
	mode     string
	seed     uint64
	workers  int
	nodes    int
	edges    int
	variants []string
	refresh  bool
}

func (f *sweepFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.depth, "depth", 0, "soil depth (default 100)")
	fs.Float64Var(&f.surface, "surface-fraction", 0, "fraction of the depth counted as surface (default 0.01)")
	fs.IntVar(&f.steps, "steps", 0, fmt.Sprintf("water table levels per sweep (default %d)", pipeline.DefaultSteps))
	fs.StringVar(&f.mode, "mode", "", "waterlogged pores: remove (default) or detach")
	fs.Uint64Var(&f.seed, "seed", 0, fmt.Sprintf("base random seed (default %d)", pipeline.DefaultSeed))
	fs.IntVarP(&f.workers, "workers", "w", 0, "variants swept in parallel")
	fs.IntVarP(&f.nodes, "nodes", "n", 0, "pores per variant (overrides every variant)")
	fs.IntVarP(&f.edges, "edges", "e", 0, "channels per uniform/preferential variant")
	fs.StringArrayVar(&f.variants, "variant", nil, "variant as [name=]kind:nodes[:edges], repeatable")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")

	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions(
		[]string{"remove", "detach"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("variant", completeVariantSpecs)
}

// resolve layers the set flags over the config file's options.
func (f *sweepFlags) resolve(cmd *cobra.Command, base pipeline.Options) (pipeline.Options, error) {
	opts := base
	opts.Variants = slices.Clone(base.Variants)

	changed := cmd.Flags().Changed
	if changed("depth") {
		opts.Depth = f.depth
	}
	if changed("surface-fraction") {
		opts.SurfaceFraction = pipeline.Fraction(f.surface)
	}
	if changed("steps") {
		opts.Steps = f.steps
	}
	if changed("mode") {
		opts.Mode = f.mode
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("refresh") {
		opts.Refresh = f.refresh
	}
	if len(f.variants) > 0 {
		opts.Variants = opts.Variants[:0]
		for _, s := range f.variants {
			v, err := parseVariant(s)
			if err != nil {
				return opts, err
			}
			opts.Variants = append(opts.Variants, v)
		}
	}
	if changed("nodes") || changed("edges") {
		if len(opts.Variants) == 0 {
			opts.Variants = pipeline.DefaultVariants()
		}
		for i := range opts.Variants {
			if changed("nodes") {
				opts.Variants[i].Nodes = f.nodes
			}
			if changed("edges") && usesEdges(opts.Variants[i].Kind) {
				opts.Variants[i].Edges = f.edges
			}
		}
	}
	return opts, nil
}

// parseVariant parses "[name=]kind:nodes[:edges]".
func parseVariant(s string) (sweep.Variant, error) {
	var v sweep.Variant
	if name, rest, ok := strings.Cut(s, "="); ok {
		v.Name, s = name, rest
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return v, fmt.Errorf("variant %q: want [name=]kind:nodes[:edges]", s)
	}
	v.Kind = parts[0]
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return v, fmt.Errorf("variant %q: nodes: %w", s, err)
	}
	v.Nodes = n
	if len(parts) == 3 {
		if v.Edges, err = strconv.Atoi(parts[2]); err != nil {
			return v, fmt.Errorf("variant %q: edges: %w", s, err)
		}
	}
	return v, nil
}

func usesEdges(kind string) bool {
	return kind == "" || kind == generate.KindUniform || kind == generate.KindPreferential
}
