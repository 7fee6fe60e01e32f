package cmd

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/Erfan-XRay/MTPulse/internal/ui"
)

//go:embed guide.md
var guideMarkdown string

var guideCmd = &cobra.Command{
	Use:     "guide",
	GroupID: GroupInfo,
	Short:   "Show the operator guide",
	RunE:    runGuide,
}

func init() {
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	if !ui.ShouldUseColor() {
		fmt.Print(guideMarkdown)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Styled rendering is best effort; plain markdown still reads.
		fmt.Print(guideMarkdown)
		return nil
	}

	out, err := renderer.Render(guideMarkdown)
	if err != nil {
		fmt.Print(guideMarkdown)
		return nil
	}
	fmt.Print(out)
	return nil
}
