package cmd

import (
	"fmt"

	"github.com/bloodmagesoftware/brushwork/level"
	"github.com/spf13/cobra"
)

var (
	bakeOutput string
)

var bakeCmd = &cobra.Command{
	Use:   "bake {level}",
	Short: "Bake a level into walls and rooms",
	Long:  `Replays the level and writes the extruded walls and convex rooms as YAML. The output defaults to the project output directory.`,
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

		c, _ := replay(lvl, config)
		baked := level.Bake(lvl.Name, c.Root())

		outputPath := bakeOutput
		if outputPath == "" {
			outputPath = config.OutputPath(levelName(levelPath) + ".yaml")
		}
		if err := baked.Save(outputPath); err != nil {
			return fmt.Errorf("saving baked level: %w", err)
		}

		fmt.Printf("Baked %d walls and %d rooms: %s\n", len(baked.Walls), len(baked.Rooms), outputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bakeCmd)
	bakeCmd.Flags().StringVarP(&bakeOutput, "output", "o", "", "Output file (default <output_dir>/<level>.yaml)")
}
