package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"compass/internal/builder"
	"compass/internal/feature"
	"compass/internal/graph"
	"compass/internal/graphstore"
	"compass/internal/logging"
)

var compileFlags struct {
	graphDir   string
	authorship string
	parallel   int
}

var compileCmd = &cobra.Command{
	Use:   "compile [feature files...]",
	Short: "Compile feature files into persisted action graphs",
	Long: "Compiles each scenario of the given feature files into an action graph and\n" +
		"persists it under its content-derived id. Without arguments, compiles every\n" +
		".feature file under the project's feature directory.",
	RunE: runCompile,
}

func init() {
	f := compileCmd.Flags()
	f.StringVar(&compileFlags.graphDir, "graphs", "", "Graph store directory (default from project config)")
	f.StringVar(&compileFlags.authorship, "authorship", "human", "Graph authorship (human, machine)")
	f.IntVar(&compileFlags.parallel, "parallel", 4, "Feature files compiled concurrently")
}

type compileReport struct {
	File     string
	Scenario string
	GraphID  string
	Nodes    int
	Review   []string
}

func runCompile(cmd *cobra.Command, args []string) error {
	logger := logging.New("compile")

	files := args
	if len(files) == 0 {
		var err error
		files, err = collectFeatureFiles(cfg.FeatureDir)
		if err != nil {
			return err
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no feature files found under %s", cfg.FeatureDir)
	}

	graphDir := compileFlags.graphDir
	if graphDir == "" {
		graphDir = cfg.GraphDir
	}
	store, err := graphstore.NewFileStore(graphDir)
	if err != nil {
		return err
	}

	authorship := graph.AuthorHuman
	if compileFlags.authorship == string(graph.AuthorMachine) {
		authorship = graph.AuthorMachine
	}

	var mu sync.Mutex
	var reports []compileReport

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(compileFlags.parallel)
	for _, file := range files {
		g.Go(func() error {
			f, err := feature.ParseFile(file)
			if err != nil {
				return err
			}
			for _, sc := range f.Scenarios {
				compiled, err := builder.Build(sc.Steps, authorship)
				if err != nil {
					return fmt.Errorf("%s: scenario %q: %w", file, sc.Name, err)
				}
				if _, err := store.Save(ctx, compiled); err != nil {
					return fmt.Errorf("%s: scenario %q: %w", file, sc.Name, err)
				}

				report := compileReport{
					File:     file,
					Scenario: sc.Name,
					GraphID:  compiled.ID,
					Nodes:    len(compiled.Nodes),
				}
				for _, n := range compiled.Nodes {
					if n.NeedsReview {
						report.Review = append(report.Review, n.Step.Text)
					}
				}
				mu.Lock()
				reports = append(reports, report)
				mu.Unlock()

				logger.Debug("compiled scenario",
					"file", file, "scenario", sc.Name, "graph_id", compiled.ID)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].File != reports[j].File {
			return reports[i].File < reports[j].File
		}
		return reports[i].Scenario < reports[j].Scenario
	})

	out := cmd.OutOrStdout()
	for _, r := range reports {
		name := r.Scenario
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(out, "%s: %s -> %s (%d nodes)\n", r.File, name, r.GraphID, r.Nodes)
		for _, step := range r.Review {
			fmt.Fprintf(out, "  needs review: %s\n", step)
		}
	}
	fmt.Fprintf(out, "Compiled %d scenario(s) into %s\n", len(reports), graphDir)
	return nil
}

func collectFeatureFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".feature") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
