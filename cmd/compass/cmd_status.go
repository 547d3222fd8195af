package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"compass/internal/builder"
	"compass/internal/codegen"
	"compass/internal/feature"
	"compass/internal/graphstore"
)

var listFlags struct {
	graphDir string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored action graphs",
	RunE:  runList,
}

var statusCmd = &cobra.Command{
	Use:   "status <generated.go> <file.feature>",
	Short: "Check generated step code against its feature source",
	Long: "Compares the spec hash embedded in generated step code with the hash of the\n" +
		"feature's current steps. The feature must contain exactly one scenario.\n" +
		"Generation never performs this check; it runs only when asked for here.",
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

func init() {
	listCmd.Flags().StringVar(&listFlags.graphDir, "graphs", "", "Graph store directory (default from project config)")
}

func runList(cmd *cobra.Command, _ []string) error {
	graphDir := listFlags.graphDir
	if graphDir == "" {
		graphDir = cfg.GraphDir
	}
	store, err := graphstore.NewFileStore(graphDir)
	if err != nil {
		return err
	}
	ids, err := store.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintf(out, "No graphs in %s\n", graphDir)
		return nil
	}
	for _, id := range ids {
		g, err := store.Load(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  nodes=%d  spec=%s  authorship=%s\n",
			g.ID, len(g.Nodes), g.SpecHash[:12], g.Metadata.Authorship)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	generatedPath, featurePath := args[0], args[1]

	src, err := os.ReadFile(generatedPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", generatedPath, err)
	}
	embedded, err := codegen.EmbeddedSpecHash(src)
	if err != nil {
		return err
	}

	f, err := feature.ParseFile(featurePath)
	if err != nil {
		return err
	}
	if len(f.Scenarios) != 1 {
		return fmt.Errorf("%s holds %d scenarios, status needs exactly one", featurePath, len(f.Scenarios))
	}
	current := builder.HashSteps(f.Scenarios[0].Steps)

	if embedded != current {
		return fmt.Errorf("%s is stale (embedded %s, current %s): recompile and regenerate",
			generatedPath, embedded[:12], current[:12])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fresh: %s matches %s\n", generatedPath, featurePath)
	return nil
}
