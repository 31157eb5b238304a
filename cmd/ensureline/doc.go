package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/ensureline/internal/docs"
	"github.com/aretw0/ensureline/internal/presentation/tui"
)

var docOpts struct {
	raw   bool
	width int
}

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Show the documentation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if docOpts.raw {
			_, err := fmt.Fprint(out, docs.Markdown)
			return err
		}

		render, err := tui.NewRenderer(docOpts.width)
		if err != nil {
			return err
		}
		text, err := render(docs.Markdown)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, text)
		return err
	},
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.Flags().BoolVar(&docOpts.raw, "raw", false, "print the markdown source")
	docCmd.Flags().IntVar(&docOpts.width, "width", 80, "wrap width")
}
