// binpack - 3D Bin Packing Optimizer
//
// Generates, solves and reports on three-dimensional bin packing
// instances: random-key genetic search over an Empty-Maximal-Space
// placement heuristic, with PDF, DXF, PNG and QR-label exports.
//
// Build:
//   go build -o binpack ./cmd/binpack
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o binpack.exe ./cmd/binpack
//   GOOS=darwin  GOARCH=amd64 go build -o binpack-darwin ./cmd/binpack

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maruel/natural"

	"github.com/HaiAu2501/Bin-Packing-Problem/internal/dataset"
	"github.com/HaiAu2501/Bin-Packing-Problem/internal/engine"
	"github.com/HaiAu2501/Bin-Packing-Problem/internal/export"
	"github.com/HaiAu2501/Bin-Packing-Problem/internal/importer"
	"github.com/HaiAu2501/Bin-Packing-Problem/internal/model"
	"github.com/HaiAu2501/Bin-Packing-Problem/internal/project"
)

const usageText = `binpack - 3D Bin Packing Optimizer

Usage:
  binpack <command> [flags]

Commands:
  generate   Cut a random instance out of a bin and write it as .dat
  solve      Run the genetic search on an instance
  report     Re-evaluate a stored solution and export views of it
  import     Build an instance from a CSV or XLSX item list
  labels     Render QR item labels for a stored solution
  compare    Run what-if solver configurations side by side
  presets    List built-in and custom solver presets
  list       List instances in a directory

Run "binpack <command> -h" for command flags.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "generate":
		err = runGenerate(args)
	case "solve":
		err = runSolve(args)
	case "report":
		err = runReport(args)
	case "import":
		err = runImport(args)
	case "labels":
		err = runLabels(args)
	case "compare":
		err = runCompare(args)
	case "presets":
		err = runPresets(args)
	case "list":
		err = runList(args)
	case "help", "-h", "--help":
		fmt.Print(usageText)
	default:
		fmt.Fprintf(os.Stderr, "binpack: unknown command %q\n\n%s", cmd, usageText)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "binpack %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

// newLogger builds the stderr text logger handed to the search driver.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadAppConfig reads ~/.binpack/config.json. A corrupt or unreadable file
// is reported as a warning and replaced with the defaults.
func loadAppConfig() model.AppConfig {
	cfg, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring unreadable config %s: %v\n", project.DefaultConfigPath(), err)
		return model.DefaultAppConfig()
	}
	return cfg
}

func saveAppConfig(cfg model.AppConfig) {
	if err := project.SaveAppConfig(project.DefaultConfigPath(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}
}

// parseExtent accepts "100x80x60" and "100 80 60" style dimension triples.
func parseExtent(s string) (model.Extent, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == 'x' || r == 'X' || r == ',' || r == ' '
	})
	if len(fields) != 3 {
		return model.Extent{}, fmt.Errorf("expected three dimensions, got %q", s)
	}
	var dims [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return model.Extent{}, fmt.Errorf("bad dimension %q in %q", f, s)
		}
		dims[i] = v
	}
	return model.Extent{X: dims[0], Y: dims[1], Z: dims[2]}, nil
}

// solutionFile is the JSON shape "solve -solution" writes and
// "report"/"labels" read back. Config records the solver settings that
// produced the vector; files written by hand may leave it zero.
type solutionFile struct {
	RunID    string             `json:"run_id,omitempty"`
	Problem  string             `json:"problem"`
	Fitness  float64            `json:"fitness"`
	Config   model.SolverConfig `json:"config"`
	Solution []float64          `json:"solution"`
}

func writeSolutionFile(path string, sf solutionFile) error {
	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readSolutionFile(path string) (solutionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return solutionFile{}, err
	}
	var sf solutionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return solutionFile{}, fmt.Errorf("failed to parse solution file: %w", err)
	}
	if len(sf.Solution) == 0 {
		return solutionFile{}, fmt.Errorf("solution file %s has no solution vector", path)
	}
	return sf, nil
}

func runGenerate(args []string) error {
	cfg := loadAppConfig()

	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	items := fs.Int("items", 100, "items per bin (10 to 1000)")
	bins := fs.Int("bins", cfg.DefaultBinCount, "bins the instance should need")
	binSpec := fs.String("bin", cfg.DefaultBinSize.String(), "bin size as WxHxD")
	samples := fs.Int("samples", -1, "extra cuts trimmed from the top of the bin (-1 = items/10)")
	seed := fs.Int64("seed", 0, "RNG seed (0 = time-based)")
	out := fs.String("out", "", "output .dat file (default <data dir>/<items>.<bins>.dat)")
	name := fs.String("name", "", "instance name (default derived from the output file)")
	fs.Parse(args)

	binSize, err := parseExtent(*binSpec)
	if err != nil {
		return err
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	path := *out
	if path == "" {
		path = filepath.Join(cfg.DataDir, fmt.Sprintf("%d.%d.dat", *items, *bins))
	}
	instanceName := *name
	if instanceName == "" {
		instanceName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	p, err := dataset.Generate(dataset.GeneratorConfig{
		Name:     instanceName,
		BinSize:  binSize,
		Items:    *items,
		BinCount: *bins,
		Samples:  *samples,
		Seed:     *seed,
	})
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(path, p); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d items per bin, bin %s, %d bins (seed %d)\n",
		path, len(p.Items), p.BinSize, p.BinCount, *seed)

	cfg.TouchRecent(path)
	saveAppConfig(cfg)
	return nil
}

func runSolve(args []string) error {
	cfg := loadAppConfig()
	base := cfg.DefaultSolver

	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	data := fs.String("data", "", "instance .dat file (required)")
	preset := fs.String("preset", "", "start from a named solver preset (see binpack presets)")
	pop := fs.Int("pop", base.PopulationSize, "population size")
	gen := fs.Int("gen", base.Generations, "generations")
	mut := fs.Float64("mut", base.MutationRate, "per-operator mutation probability")
	tournament := fs.Int("tournament", base.TournamentSize, "tournament size")
	elite := fs.Int("elite", base.EliteCount, "elite chromosomes copied unchanged")
	seed := fs.Int64("seed", base.Seed, "RNG seed (0 = time-based)")
	workers := fs.Int("workers", base.Workers, "parallel fitness evaluators")
	solutionOut := fs.String("solution", "", "write the best solution vector to this JSON file")
	pdfOut := fs.String("pdf", "", "write a PDF packing report to this file")
	dxfOut := fs.String("dxf", "", "write a DXF wireframe to this file")
	pngOut := fs.String("png", "", "write a PNG slice sheet to this file")
	labelsOut := fs.String("labels", "", "write a QR label sheet to this file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *data == "" {
		return fmt.Errorf("missing required -data flag")
	}

	p, err := dataset.ParseFile(*data)
	if err != nil {
		return err
	}

	solverCfg := base
	if *preset != "" {
		solverCfg, err = resolvePreset(*preset)
		if err != nil {
			return err
		}
	}
	// Flags the user actually passed override the preset or config base.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pop":
			solverCfg.PopulationSize = *pop
		case "gen":
			solverCfg.Generations = *gen
		case "mut":
			solverCfg.MutationRate = *mut
		case "tournament":
			solverCfg.TournamentSize = *tournament
		case "elite":
			solverCfg.EliteCount = *elite
		case "seed":
			solverCfg.Seed = *seed
		case "workers":
			solverCfg.Workers = *workers
		}
	})

	res, err := engine.Solve(p, solverCfg, newLogger(*verbose))
	if err != nil {
		return err
	}

	if violations := engine.ValidatePacking(res.BestResult); len(violations) > 0 {
		for _, msg := range engine.FormatViolations(violations) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		return fmt.Errorf("best packing failed validation with %d violations", len(violations))
	}

	fmt.Printf("Problem %s: %d items into %s bins\n", p.Name, p.TotalItems(), p.BinSize)
	fmt.Printf("Best fitness: %.4f (run %s)\n", res.BestFitness, res.RunID)
	fmt.Printf("Bins used: %d of %d\n", res.BestResult.UsedBins, p.BinCount)
	for i, b := range res.BestResult.Bins {
		fill := 100 * float64(b.Load) / float64(p.BinVolume())
		fmt.Printf("  Bin %d: %d items, load %d (%.1f%% full)\n", i+1, len(b.Placements), b.Load, fill)
	}
	fmt.Printf("Evaluations: %d over %d generations\n", res.Evaluations, res.Generations)

	if *solutionOut != "" {
		sf := solutionFile{
			RunID:    res.RunID,
			Problem:  p.Name,
			Fitness:  res.BestFitness,
			Config:   solverCfg,
			Solution: res.BestSolution,
		}
		if err := writeSolutionFile(*solutionOut, sf); err != nil {
			return fmt.Errorf("writing solution file: %w", err)
		}
		fmt.Printf("- Solution: %s\n", *solutionOut)
	}
	if err := writeExports(p, res.BestResult, solverCfg, *pdfOut, *dxfOut, *pngOut, *labelsOut); err != nil {
		return err
	}

	rec := project.RunRecord{
		RunID:       res.RunID,
		Problem:     p.Name,
		Instance:    *data,
		Fitness:     res.BestFitness,
		BinsUsed:    res.BestResult.UsedBins,
		Generations: res.Generations,
		Evaluations: res.Evaluations,
		Config:      solverCfg,
	}
	if err := project.AppendRun(project.DefaultHistoryPath(), rec, 0); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run history: %v\n", err)
	}

	cfg.TouchRecent(*data)
	saveAppConfig(cfg)
	return nil
}

// writeExports renders every requested view of a finished packing.
func writeExports(p *model.Problem, result model.PackingResult, cfg model.SolverConfig, pdfOut, dxfOut, pngOut, labelsOut string) error {
	if pdfOut != "" {
		if err := export.WritePDF(pdfOut, p, result, cfg); err != nil {
			return fmt.Errorf("writing PDF report: %w", err)
		}
		fmt.Printf("- PDF report: %s\n", pdfOut)
	}
	if dxfOut != "" {
		if err := export.WriteDXF(dxfOut, result); err != nil {
			return fmt.Errorf("writing DXF wireframe: %w", err)
		}
		fmt.Printf("- DXF wireframe: %s\n", dxfOut)
	}
	if pngOut != "" {
		if err := export.WritePNG(pngOut, result); err != nil {
			return fmt.Errorf("writing PNG slices: %w", err)
		}
		fmt.Printf("- PNG slices: %s\n", pngOut)
	}
	if labelsOut != "" {
		if err := export.WriteLabels(labelsOut, p, result); err != nil {
			return fmt.Errorf("writing label sheet: %w", err)
		}
		fmt.Printf("- Labels: %s\n", labelsOut)
	}
	return nil
}

// evaluateStored loads an instance plus a stored solution vector and
// re-evaluates the packing it encodes.
func evaluateStored(dataPath, solutionPath string) (*model.Problem, model.PackingResult, solutionFile, error) {
	p, err := dataset.ParseFile(dataPath)
	if err != nil {
		return nil, model.PackingResult{}, solutionFile{}, err
	}
	sf, err := readSolutionFile(solutionPath)
	if err != nil {
		return nil, model.PackingResult{}, solutionFile{}, err
	}
	if sf.Problem != "" && sf.Problem != p.Name {
		fmt.Fprintf(os.Stderr, "Warning: solution was recorded for %q, instance is %q\n", sf.Problem, p.Name)
	}

	result, err := engine.NewEvaluator(p).EvaluateResult(sf.Solution)
	if err != nil {
		return nil, model.PackingResult{}, solutionFile{}, err
	}
	if sf.Fitness != 0 && result.Fitness != sf.Fitness {
		fmt.Fprintf(os.Stderr, "Warning: stored fitness %.4f, re-evaluated %.4f\n", sf.Fitness, result.Fitness)
	}
	return p, result, sf, nil
}

func runReport(args []string) error {
	cfg := loadAppConfig()

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	data := fs.String("data", "", "instance .dat file (required)")
	solution := fs.String("solution", "", "solution JSON file from solve -solution (required)")
	pdfOut := fs.String("pdf", "", "write a PDF packing report to this file")
	dxfOut := fs.String("dxf", "", "write a DXF wireframe to this file")
	pngOut := fs.String("png", "", "write a PNG slice sheet to this file")
	labelsOut := fs.String("labels", "", "write a QR label sheet to this file")
	fs.Parse(args)

	if *data == "" || *solution == "" {
		return fmt.Errorf("missing required -data or -solution flag")
	}
	if *pdfOut == "" && *dxfOut == "" && *pngOut == "" && *labelsOut == "" {
		return fmt.Errorf("no export target given: pass -pdf, -dxf, -png or -labels")
	}

	p, result, sf, err := evaluateStored(*data, *solution)
	if err != nil {
		return err
	}

	solverCfg := cfg.DefaultSolver
	if sf.Config.PopulationSize > 0 {
		solverCfg = sf.Config
	}

	fmt.Printf("Problem %s: fitness %.4f, %d of %d bins\n", p.Name, result.Fitness, result.UsedBins, p.BinCount)
	if err := writeExports(p, result, solverCfg, *pdfOut, *dxfOut, *pngOut, *labelsOut); err != nil {
		return err
	}

	cfg.TouchRecent(*data)
	saveAppConfig(cfg)
	return nil
}

func runLabels(args []string) error {
	fs := flag.NewFlagSet("labels", flag.ExitOnError)
	data := fs.String("data", "", "instance .dat file (required)")
	solution := fs.String("solution", "", "solution JSON file from solve -solution (required)")
	out := fs.String("out", "", "output label sheet PDF (required)")
	fs.Parse(args)

	if *data == "" || *solution == "" || *out == "" {
		return fmt.Errorf("missing required -data, -solution or -out flag")
	}

	p, result, _, err := evaluateStored(*data, *solution)
	if err != nil {
		return err
	}
	if err := export.WriteLabels(*out, p, result); err != nil {
		return err
	}
	fmt.Printf("- Labels: %s\n", *out)
	return nil
}

func runImport(args []string) error {
	cfg := loadAppConfig()

	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "CSV or XLSX item list (required)")
	binSpec := fs.String("bin", cfg.DefaultBinSize.String(), "bin size as WxHxD")
	bins := fs.Int("bins", cfg.DefaultBinCount, "bins the instance should need")
	out := fs.String("out", "", "output .dat file (required)")
	name := fs.String("name", "", "instance name (default derived from the input file)")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return fmt.Errorf("missing required -in or -out flag")
	}
	binSize, err := parseExtent(*binSpec)
	if err != nil {
		return err
	}

	var res importer.ImportResult
	switch ext := strings.ToLower(filepath.Ext(*in)); ext {
	case ".csv", ".txt":
		res = importer.ImportCSV(*in)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(*in)
	default:
		return fmt.Errorf("unsupported item list format %q (expected .csv or .xlsx)", ext)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "Error: %s\n", e)
	}
	if len(res.Items) == 0 {
		return fmt.Errorf("no importable items in %s", *in)
	}

	instanceName := *name
	if instanceName == "" {
		instanceName = strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
	}

	p, err := model.NewProblem(instanceName, binSize, res.Extents(), *bins)
	if err != nil {
		return err
	}
	if err := dataset.WriteFile(*out, p); err != nil {
		return err
	}

	fmt.Printf("Wrote %s: %d items, bin %s, %d bins", *out, len(p.Items), p.BinSize, p.BinCount)
	if len(res.Errors) > 0 {
		fmt.Printf(" (%d rows skipped)", len(res.Errors))
	}
	fmt.Println()

	cfg.TouchRecent(*out)
	saveAppConfig(cfg)
	return nil
}

func runCompare(args []string) error {
	cfg := loadAppConfig()
	base := cfg.DefaultSolver

	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	data := fs.String("data", "", "instance .dat file (required)")
	pop := fs.Int("pop", base.PopulationSize, "base population size")
	gen := fs.Int("gen", base.Generations, "base generations")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *data == "" {
		return fmt.Errorf("missing required -data flag")
	}

	p, err := dataset.ParseFile(*data)
	if err != nil {
		return err
	}

	base.PopulationSize = *pop
	base.Generations = *gen
	scenarios := engine.BuildDefaultScenarios(base)

	results, err := engine.CompareConfigs(p, scenarios, newLogger(*verbose))
	if err != nil {
		return err
	}

	fmt.Printf("Problem %s: %d items into %s bins\n\n", p.Name, p.TotalItems(), p.BinSize)
	fmt.Printf("%-22s %-10s %-6s %-8s %s\n", "Scenario", "Fitness", "Bins", "Waste", "Evaluations")
	for _, r := range results {
		fmt.Printf("%-22s %-10.4f %-6d %-8s %d\n",
			r.Scenario.Name, r.BestFitness, r.BinsUsed,
			fmt.Sprintf("%.1f%%", r.WastePercent), r.Evaluations)
	}
	return nil
}

// resolvePreset looks up a solver preset by name, custom presets first.
func resolvePreset(name string) (model.SolverConfig, error) {
	custom, err := project.LoadCustomPresets(project.DefaultPresetsPath())
	if err != nil {
		return model.SolverConfig{}, fmt.Errorf("loading custom presets: %w", err)
	}
	for _, p := range custom {
		if p.Name == name {
			return p.Config, nil
		}
	}
	if p, ok := model.GetPreset(name); ok {
		return p.Config, nil
	}
	return model.SolverConfig{}, fmt.Errorf("unknown preset %q (built-in: %s)",
		name, strings.Join(model.GetPresetNames(), ", "))
}

func runPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	fs.Parse(args)

	custom, err := project.LoadCustomPresets(project.DefaultPresetsPath())
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-6s %-6s %-6s %-8s %s\n", "Preset", "Pop", "Gen", "Mut", "Workers", "Description")
	for _, p := range model.SolverPresets {
		printPreset(p)
	}
	for _, p := range custom {
		printPreset(p)
	}
	return nil
}

func printPreset(p model.SolverPreset) {
	fmt.Printf("%-12s %-6d %-6d %-6.2f %-8d %s\n",
		p.Name, p.Config.PopulationSize, p.Config.Generations,
		p.Config.MutationRate, p.Config.Workers, p.Description)
}

func runList(args []string) error {
	cfg := loadAppConfig()

	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dir := fs.String("dir", cfg.DataDir, "directory to scan for .dat instances")
	fs.Parse(args)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".dat") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		fmt.Printf("No .dat instances in %s\n", *dir)
		return nil
	}
	sort.Sort(natural.StringSlice(names))

	history, err := project.LoadHistory(project.DefaultHistoryPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring unreadable history: %v\n", err)
	}

	fmt.Printf("%-20s %-14s %-8s %-6s %-12s %s\n", "Instance", "Bin", "Items", "Bins", "Item volume", "Best fitness")
	for _, fname := range names {
		p, err := dataset.ParseFile(filepath.Join(*dir, fname))
		if err != nil {
			fmt.Printf("%-20s unreadable: %v\n", fname, err)
			continue
		}
		best := "-"
		if rec, ok := history.BestFor(p.Name); ok {
			best = fmt.Sprintf("%.4f (run %s)", rec.Fitness, rec.RunID)
		}
		fmt.Printf("%-20s %-14s %-8d %-6d %-12d %s\n",
			fname, p.BinSize, len(p.Items), p.BinCount, p.TotalVolume, best)
	}
	return nil
}
