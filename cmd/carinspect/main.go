// carinspect is a CLI utility for checking vehicle models before driving them.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/carview/internal/assets"
	"github.com/Faultbox/carview/internal/config"
	"github.com/Faultbox/carview/internal/vehicle"
	"github.com/Faultbox/carview/pkg/scene"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "tree":
		cmdTree(args)
	case "wheels":
		cmdWheels(args)
	case "env":
		cmdEnv(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`carinspect - vehicle model utility

Usage:
  carinspect <command> [options]

Commands:
  info <model>              Show mesh count and required extensions
  tree <model> [filter]     Print the node hierarchy
  wheels <model>            Build wheel pivots and print each hub
  env <file.hdr>            Decode an environment map and show radiance stats

Options (all model commands):
  -assets <dir>             Asset root to resolve relative paths against

Options (wheels):
  -policy first|centroid    Hub position policy (default first)
  -names <file.yaml>        Wheel name table (bare map or full config)
  -tree                     Also print the rigged hierarchy

Examples:
  carinspect info public/model/1992_porsche_911_964_turbo_s_36.glb
  carinspect tree -assets public model/car.glb wheel
  carinspect wheels -policy centroid -names wheels.yaml car.glb`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// openModel resolves and decodes the first positional argument.
func openModel(fs *flag.FlagSet, root string, usage string) *assets.Model {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: carinspect "+usage)
		os.Exit(1)
	}

	m := assets.NewManager()
	defer m.Close()
	if root != "" {
		if err := m.AddRoot(root); err != nil {
			fail(err)
		}
	}
	path, err := m.Resolve(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	model, err := assets.DecodeModelFile(path, assets.DefaultDecoderConfig())
	if err != nil {
		fail(err)
	}
	return model
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	root := fs.String("assets", "", "Asset root")
	fs.Parse(args)

	model := openModel(fs, *root, "info <model>")

	nodes := 0
	model.Root.Traverse(func(*scene.Node) { nodes++ })

	fmt.Printf("Model:      %s\n", fs.Arg(0))
	fmt.Printf("Nodes:      %d\n", nodes)
	fmt.Printf("Meshes:     %d\n", model.MeshCount)
	fmt.Printf("Compressed: %v\n", model.Compressed)
	if len(model.Extensions) > 0 {
		exts := append([]string(nil), model.Extensions...)
		sort.Strings(exts)
		fmt.Printf("Extensions: %s\n", strings.Join(exts, ", "))
	}
}

func cmdTree(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	root := fs.String("assets", "", "Asset root")
	fs.Parse(args)

	model := openModel(fs, *root, "tree <model> [filter]")

	if fs.NArg() < 2 {
		fmt.Print(model.Root.Dump())
		return
	}

	filter := strings.ToLower(fs.Arg(1))
	count := 0
	for _, m := range model.Root.Meshes() {
		if strings.Contains(strings.ToLower(m.Name), filter) {
			fmt.Println(m.Name)
			count++
		}
	}
	fmt.Fprintf(os.Stderr, "\n(%d meshes matched)\n", count)
}

func cmdWheels(args []string) {
	fs := flag.NewFlagSet("wheels", flag.ExitOnError)
	root := fs.String("assets", "", "Asset root")
	policy := fs.String("policy", "first", "Hub position policy: first or centroid")
	names := fs.String("names", "", "Wheel name table (YAML)")
	showTree := fs.Bool("tree", false, "Print the rigged hierarchy")
	fs.Parse(args)

	pivotPolicy, err := vehicle.ParsePivotPolicy(*policy)
	if err != nil {
		fail(err)
	}

	table := vehicle.DefaultWheelNames()
	if *names != "" {
		raw, err := config.LoadWheelNames(*names)
		if err != nil {
			fail(err)
		}
		if table, err = vehicle.ParseWheelNames(raw); err != nil {
			fail(err)
		}
	}

	model := openModel(fs, *root, "wheels <model>")

	// Rig in the same frame the viewer drives in
	vehicle.PrepareModel(model.Root, vehicle.DefaultTuning())
	wheels := vehicle.BuildPivots(model.Root, table, vehicle.PivotOptions{Policy: pivotPolicy})

	fmt.Printf("Policy: %s\n\n", pivotPolicy)
	for _, w := range wheels {
		if w == nil {
			continue
		}
		world := w.Node.WorldPosition()
		fmt.Printf("  %-3s parts=%d hub=(%.4f, %.4f, %.4f) world=(%.3f, %.3f, %.3f)\n",
			w.ID, w.Parts,
			w.Hub.X(), w.Hub.Y(), w.Hub.Z(),
			world.X(), world.Y(), world.Z())
		if w.Parts == 0 {
			fmt.Fprintf(os.Stderr, "warning: no mesh matched wheel %s\n", w.ID)
		}
	}

	if *showTree {
		fmt.Println()
		fmt.Print(model.Root.Dump())
	}
}

func cmdEnv(args []string) {
	fs := flag.NewFlagSet("env", flag.ExitOnError)
	root := fs.String("assets", "", "Asset root")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: carinspect env <file.hdr>")
		os.Exit(1)
	}

	m := assets.NewManager()
	defer m.Close()
	if *root != "" {
		if err := m.AddRoot(*root); err != nil {
			fail(err)
		}
	}
	env, err := m.LoadEnvironment(fs.Arg(0))
	if err != nil {
		fail(err)
	}

	fmt.Printf("File:     %s\n", env.Path)
	fmt.Printf("Size:     %dx%d\n", env.Width, env.Height)
	fmt.Printf("Format:   %s\n", env.Format)
	fmt.Printf("Mapping:  %s\n", env.Mapping)
	fmt.Printf("Mean:     (%.4f, %.4f, %.4f)\n", env.Mean.X(), env.Mean.Y(), env.Mean.Z())
	fmt.Printf("Peak:     %.4f\n", env.Peak)
}
