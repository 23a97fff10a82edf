package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"workdex/internal/ledger"
	"workdex/internal/render"
)

// regenerateCmd rebuilds the derived views from the YAML source of truth
var regenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Regenerate the markdown view and app version file from the index",
	Long: `Validates the work index and, only if it passes, regenerates the
derived views: the human-readable markdown document and the app version
JSON. Regeneration is refused for an invalid index - the generated views
must never launder a broken state into something agents will trust.`,
	RunE: runRegenerate,
}

// showCmd renders the derived document in the terminal
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Render the work index document in the terminal",
	RunE:  runShow,
}

func runRegenerate(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	l, err := loadIndex(cfg, ws)
	if err != nil {
		return err
	}

	result := ledger.Validate(l)
	if !result.Valid {
		fmt.Println(errStyle.Render("cannot regenerate: validation failed"))
		printFindings(result)
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}
	printFindings(result) // warnings only at this point

	// The two derived views are independent; write them concurrently.
	var g errgroup.Group
	g.Go(func() error {
		doc := render.Markdown(l, cfg.Paths.IndexFile)
		mdPath := filepath.Join(ws, cfg.Paths.MarkdownFile)
		if err := os.WriteFile(mdPath, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write markdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return render.WriteVersionFile(filepath.Join(ws, cfg.Paths.VersionFile), l)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("regenerated %s", cfg.Paths.MarkdownFile)))
	fmt.Println(okStyle.Render(fmt.Sprintf("updated %s", cfg.Paths.VersionFile)))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	l, err := loadIndex(cfg, ws)
	if err != nil {
		return err
	}

	result := ledger.Validate(l)
	if !result.Valid {
		printFindings(result)
		return fmt.Errorf("refusing to render an invalid index (%d error(s))", len(result.Errors))
	}

	doc := render.Markdown(l, cfg.Paths.IndexFile)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Plain text beats no output when the terminal profile is unknown.
		fmt.Print(doc)
		return nil
	}
	out, err := renderer.Render(doc)
	if err != nil {
		fmt.Print(doc)
		return nil
	}
	fmt.Print(out)
	return nil
}
