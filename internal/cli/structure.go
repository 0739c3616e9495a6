package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradocflow/tradocflow/internal/langcode"
	"github.com/tradocflow/tradocflow/internal/structure"
)

var structureLang string

var structureCmd = &cobra.Command{
	Use:   "structure <file>",
	Short: "Print the block structure and language features of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result := structure.Analyze(string(src), langcode.Code(structureLang))
		for _, s := range result.Structures {
			fmt.Printf("%-10s [%d,%d) level=%d\n", s.Kind, s.Start, s.End, s.Level)
		}
		fmt.Printf("sentences=%d avg_len=%.1f\n", result.Features.SentenceCount, result.Features.AverageSentenceLength)
		return nil
	},
}

func init() {
	structureCmd.Flags().StringVar(&structureLang, "lang", "en", "document language")
}
