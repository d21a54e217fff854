package cmd

import (
	"fmt"

	"github.com/bloodmagesoftware/brushwork/level"
	"github.com/spf13/cobra"
)

var (
	combineStrict bool
)

var combineCmd = &cobra.Command{
	Use:   "combine {level}",
	Short: "Replay a level and print a summary of its geometry",
	Long:  `Combines every brush of the level in order and prints the resulting walls, nodes and rooms. Brushes that cannot be combined are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}

		config, err := getProject()
		if err != nil {
			return err
		}

		levelPath := config.LevelPath(args[0])
		lvl, err := loadLevel(levelPath)
		if err != nil {
			return err
		}

		c, rejected := replay(lvl, config)
		tree := c.Root()
		baked := level.Bake(lvl.Name, tree)

		doubleSided := 0
		for _, wall := range baked.Walls {
			if wall.DoubleSided {
				doubleSided++
			}
		}

		fmt.Printf("Level %s (%s)\n", lvl.Name, levelPath)
		fmt.Printf("  Brushes:  %d\n", len(lvl.Brushes))
		fmt.Printf("  Rejected: %d\n", len(rejected))
		fmt.Printf("  Nodes:    %d\n", tree.Len())
		fmt.Printf("  Walls:    %d (%d double-sided)\n", len(baked.Walls), doubleSided)
		fmt.Printf("  Rooms:    %d\n", len(baked.Rooms))

		if combineStrict && len(rejected) > 0 {
			return fmt.Errorf("%d of %d brushes rejected", len(rejected), len(lvl.Brushes))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(combineCmd)
	combineCmd.Flags().BoolVar(&combineStrict, "strict", false, "Fail if any brush is rejected")
}
