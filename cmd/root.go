package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brushwork",
	Short: "Brushwork - 2D CSG level geometry tool",
	Long: `Brushwork builds level geometry from an ordered list of polygon brushes.
Each brush is combined with the level through union, edge union, intersection
or complement. The result is baked into extruded walls and convex rooms,
rendered into snapshots, or edited in a visual editor.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
