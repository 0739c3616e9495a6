package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/tradocflow/tradocflow/internal/tm"
	"github.com/tradocflow/tradocflow/internal/tm/archive"
	"github.com/tradocflow/tradocflow/internal/tm/index"
)

var (
	tmProjectID string
	tmSource    string
	tmTarget    string
)

var tmCmd = &cobra.Command{
	Use:   "tm",
	Short: "Query and populate the translation memory",
}

var tmSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Run search_similar against a project's translation memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		idx, arc, err := openStores(cfg, tmProjectID)
		if err != nil {
			return err
		}
		defer idx.Close()
		defer arc.CloseProject(tmProjectID)

		engine := tm.NewEngine(idx, arc, time.Duration(cfg.TM.CacheTTLSeconds)*time.Second)
		pair := tm.LanguagePair{Source: langcode.Code(tmSource), Target: langcode.Code(tmTarget)}

		matches, err := engine.SearchSimilar(context.Background(), args[0], pair)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Printf("%.2f\t%s\t%s\n", m.Similarity, m.SourceText, m.TargetText)
		}
		return nil
	},
}

func openStores(cfg interface {
	ProjectIndexPath(string) string
	ProjectArchiveDir(string) string
}, projectID string) (*index.Store, *archive.Store, error) {
	idx, err := index.Open(cfg.ProjectIndexPath(projectID))
	if err != nil {
		return nil, nil, err
	}
	arc, err := archive.Open(cfg.ProjectArchiveDir(projectID))
	if err != nil {
		idx.Close()
		return nil, nil, err
	}
	return idx, arc, nil
}

func init() {
	tmSearchCmd.Flags().StringVar(&tmProjectID, "project", "default", "project id")
	tmSearchCmd.Flags().StringVar(&tmSource, "source", "en", "source language")
	tmSearchCmd.Flags().StringVar(&tmTarget, "target", "es", "target language")
	tmCmd.AddCommand(tmSearchCmd)
}
