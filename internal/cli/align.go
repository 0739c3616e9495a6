package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradocflow/tradocflow/internal/align"
	"github.com/tradocflow/tradocflow/internal/langcode"
)

var (
	alignSourceLang string
	alignTargetLang string
)

var alignCmd = &cobra.Command{
	Use:   "align <source-file> <target-file>",
	Short: "Align sentences between a source and target document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcBytes, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		tgtBytes, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		aligner := align.New(align.DefaultConfig())
		alignments := aligner.AlignText(string(srcBytes), string(tgtBytes),
			langcode.Code(alignSourceLang), langcode.Code(alignTargetLang))

		for _, a := range alignments {
			fmt.Printf("%d<->%d\tconfidence=%.2f\tmethod=%s\n", a.SourcePosition, a.TargetPosition, a.Confidence, a.Method)
		}
		return nil
	},
}

func init() {
	alignCmd.Flags().StringVar(&alignSourceLang, "source", "en", "source language")
	alignCmd.Flags().StringVar(&alignTargetLang, "target", "es", "target language")
}
