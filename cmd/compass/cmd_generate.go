package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"compass/internal/codegen"
	"compass/internal/graphstore"
	"compass/internal/logging"
)

var generateFlags struct {
	graphDir string
	pkg      string
	output   string
	check    bool
}

var generateCmd = &cobra.Command{
	Use:   "generate <graph-id>",
	Short: "Generate Go step definitions from a stored graph",
	Long: "Renders executable step-definition source for the graph and writes it under\n" +
		"the project's generated directory. With --check, compares the existing file's\n" +
		"embedded spec hash against the graph instead of writing.",
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&generateFlags.graphDir, "graphs", "", "Graph store directory (default from project config)")
	f.StringVar(&generateFlags.pkg, "package", codegen.DefaultPackage, "Package name for the generated file")
	f.StringVarP(&generateFlags.output, "output", "o", "", "Output path (default <generated_dir>/<graph-id>.go)")
	f.BoolVar(&generateFlags.check, "check", false, "Check the existing output for staleness instead of writing")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	graphID := args[0]

	graphDir := generateFlags.graphDir
	if graphDir == "" {
		graphDir = cfg.GraphDir
	}
	store, err := graphstore.NewFileStore(graphDir)
	if err != nil {
		return err
	}
	g, err := store.Load(cmd.Context(), graphID)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", graphID, err)
	}

	outPath := generateFlags.output
	if outPath == "" {
		outPath = filepath.Join(cfg.GeneratedDir, graphID+".go")
	}

	if generateFlags.check {
		existing, err := os.ReadFile(outPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", outPath, err)
		}
		stale, err := codegen.IsStale(existing, g.SpecHash)
		if err != nil {
			return err
		}
		if stale {
			return fmt.Errorf("%s is stale: regenerate from graph %s", outPath, graphID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", outPath)
		return nil
	}

	src, err := codegen.Generate(g, codegen.Options{Package: generateFlags.pkg})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, src, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	logging.New("generate").Info("wrote step definitions",
		"graph_id", graphID, "path", outPath, "spec_hash", g.SpecHash)
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", outPath)
	return nil
}
