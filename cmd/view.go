package cmd

import (
	"errors"
	"log"
	"os"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/widget/material"
	"github.com/bloodmagesoftware/brushwork/editor"
	"github.com/bloodmagesoftware/brushwork/level"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view {level}",
	Short: "Edit the specified level",
	Long:  `Creates a new level if the file doesn't exist, then opens the visual editor for that level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}

		config, err := getProject()
		if err != nil {
			return err
		}

		levelFilePath := config.LevelPath(args[0])
		lvl := level.New()
		lvl.Name = levelName(levelFilePath)
		if _, err := os.Stat(levelFilePath); err == nil {
			log.Printf("loading level %s", levelFilePath)
			if lvl, err = loadLevel(levelFilePath); err != nil {
				return err
			}
			log.Printf("loaded level %s with %d brushes", levelFilePath, len(lvl.Brushes))
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}

		editorConfig := editor.Config{
			LevelFilePath: levelFilePath,
			SnapshotPath:  config.OutputPath(levelName(levelFilePath) + ".qoi"),
			Snapshot:      snapshotOptions(config),
			CsgOptions:    csgOptions(config),
		}

		go func() {
			window := new(app.Window)
			window.Option(app.Title("Brushwork - " + lvl.Name))
			window.Perform(system.ActionMaximize)
			err := run(window, editorConfig, lvl)
			if err != nil {
				log.Fatal(err)
			}
			os.Exit(0)
		}()
		app.Main()

		return nil
	},
}

func run(window *app.Window, config editor.Config, lvl *level.Level) error {
	theme := material.NewTheme()
	ed := editor.NewEditor(theme, config, lvl)
	defer ed.Close()
	ed.SetInvalidate(window.Invalidate)

	var ops op.Ops
	for {
		switch e := window.Event().(type) {
		case app.DestroyEvent:
			if ed.HasUnsavedChanges() {
				log.Printf("warning: closing %s with unsaved changes", config.LevelFilePath)
			}
			return e.Err
		case app.FrameEvent:
			// This graphics context is used for managing the rendering state.
			gtx := app.NewContext(&ops, e)

			// Layout the editor
			ed.Layout(gtx)

			// Pass the drawing operations to the GPU.
			e.Frame(gtx.Ops)
		}
	}
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
