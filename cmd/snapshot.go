package cmd

import (
	"fmt"

	"github.com/bloodmagesoftware/brushwork/snapshot"
	"github.com/spf13/cobra"
)

var (
	snapshotOutput string
	snapshotScale  float64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot {level}",
	Short: "Render a level into a QOI image",
	Long:  `Replays the level and renders rooms and walls from above into a QOI image.`,
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

		opts := snapshotOptions(config)
		if snapshotScale > 0 {
			opts.Scale = snapshotScale
		}
		outputPath := snapshotOutput
		if outputPath == "" {
			outputPath = config.OutputPath(levelName(levelPath) + ".qoi")
		}
		if err := snapshot.WriteFile(outputPath, c.Root(), opts); err != nil {
			return err
		}

		fmt.Printf("Snapshot saved: %s\n", outputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "Output file (default <output_dir>/<level>.qoi)")
	snapshotCmd.Flags().Float64Var(&snapshotScale, "scale", 0, "Pixels per world unit (default from brushwork.yaml)")
}
