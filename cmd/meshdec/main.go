// meshdec is a CLI utility for simplifying textured triangle meshes with
// seam-aware quadric-error decimation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/meshdec/internal/config"
	"github.com/Faultbox/meshdec/internal/logger"
	"github.com/Faultbox/meshdec/pkg/decimate"
	"github.com/Faultbox/meshdec/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	// Shift the subcommand out so the shared flag set parses the rest.
	os.Args = append(os.Args[:1], os.Args[2:]...)
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "info":
		cmdInfo(flag.Args())
	case "seams":
		cmdSeams(flag.Args())
	case "simplify":
		cmdSimplify(cfg, flag.Args())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshdec - seam-aware mesh decimation utility

Usage:
  meshdec <command> [options]

Commands:
  info <file.obj>                   Show mesh statistics
  seams <file.obj>                  List UV seam edges
  simplify <in.obj> <out.obj>       Decimate a mesh

Options (simplify):
  -target-percent <p>     Percentage of vertices to keep (default 50)
  -target-vertices <n>    Absolute vertex count to stop at
  -strictness <0|1|2>     0 none, 1 foldover, 2 foldover+seams (default 2)
  -workers <n>            Workers for the initial cost pass
  -sequential             Disable the parallel cost pass
  -reject-non-manifold    Fail on non-manifold edges

Examples:
  meshdec info rock.obj
  meshdec simplify -target-percent 25 tree.obj tree_lod2.obj
  meshdec simplify -target-vertices 500 -strictness 1 town.obj town_lod.obj`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshdec info <file.obj>")
		os.Exit(1)
	}

	m, err := formats.LoadOBJ(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	seams, err := decimate.DetectSeams(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	b := m.ComputeBounds()
	fmt.Printf("Mesh:       %s\n", args[0])
	fmt.Printf("Vertices:   %d\n", m.VertexCount())
	fmt.Printf("Texcoords:  %d\n", m.TexcoordCount())
	fmt.Printf("Faces:      %d\n", m.LiveFaceCount())
	fmt.Printf("Seam edges: %d (%d seam vertices)\n", seams.EdgeCount(), seams.SeamVertexCount())
	fmt.Printf("Bounds:     min (%.3f, %.3f, %.3f)  max (%.3f, %.3f, %.3f)\n",
		b.Min.X(), b.Min.Y(), b.Min.Z(), b.Max.X(), b.Max.Y(), b.Max.Z())
}

func cmdSeams(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshdec seams <file.obj>")
		os.Exit(1)
	}

	m, err := formats.LoadOBJ(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	seams, err := decimate.DetectSeams(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	edges := seams.SeamEdges()
	fmt.Printf("%d seam edges across %d vertices\n", len(edges), seams.SeamVertexCount())
	for _, e := range edges {
		fmt.Printf("  %d - %d\n", e[0], e[1])
	}
}

func cmdSimplify(cfg *config.Config, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshdec simplify [options] <in.obj> <out.obj>")
		os.Exit(1)
	}
	inPath, outPath := args[0], args[1]

	m, err := formats.LoadOBJ(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	policy := decimate.NonManifoldIgnore
	if cfg.Simplify.RejectNonManifold {
		policy = decimate.NonManifoldReject
	}
	opts := decimate.Options{
		TargetVertices: cfg.Simplify.TargetVertices,
		TargetPercent:  cfg.Simplify.TargetPercent,
		Strictness:     decimate.Strictness(cfg.Simplify.Strictness),
		NonManifold:    policy,
		Logger:         logger.Log,
	}

	var res *decimate.Result
	if cfg.Parallel.Enabled {
		popts := decimate.ParallelOptions{
			Options:             opts,
			NumWorkers:          cfg.Parallel.Workers,
			MinEdgesForParallel: cfg.Parallel.MinEdges,
		}
		pres, perr := decimate.DecimateParallel(context.Background(), m, popts)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", perr)
			os.Exit(1)
		}
		res = &pres.Result
		logger.Log.Debug("parallel stats",
			zap.String("run_id", pres.RunID.String()),
			zap.Int("workers", pres.Workers),
			zap.Duration("cost_pass", pres.CostPassTime),
			zap.Duration("total", pres.TotalTime),
		)
	} else {
		runID := uuid.New()
		opts.Logger = logger.Log.With(zap.String("run_id", runID.String()))
		res, err = decimate.Decimate(m, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := formats.SaveOBJ(outPath, res.Mesh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d -> %d vertices (%d collapses, stop: %s)\n",
		inPath, m.VertexCount(), res.FinalVertexCount, res.Collapses, res.StopReason)
	fmt.Printf("Wrote %s\n", outPath)
}
