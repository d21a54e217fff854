package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bloodmagesoftware/brushwork/csg"
	"github.com/bloodmagesoftware/brushwork/level"
	"github.com/bloodmagesoftware/brushwork/project"
	"github.com/bloodmagesoftware/brushwork/snapshot"
)

// getProject loads brushwork.yaml from the project root.
// Outside of a project the current directory is used with default settings.
func getProject() (*project.Config, error) {
	projectRoot, err := project.FindProjectRoot()
	if errors.Is(err, project.ErrConfigNotFound) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		return project.DefaultConfig(cwd), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project root: %w", err)
	}

	config, err := project.LoadConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	return config, nil
}

func csgOptions(config *project.Config) []csg.Option {
	return []csg.Option{csg.WithWallHeight(config.WallHeight)}
}

func snapshotOptions(config *project.Config) snapshot.Options {
	opts := snapshot.DefaultOptions()
	opts.Scale = config.Snapshot.Scale
	opts.Padding = config.Snapshot.Padding
	return opts
}

// levelName is the file name of a level without its extension
func levelName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// loadLevel reads a level file and names it after the file if it has no name
func loadLevel(path string) (*level.Level, error) {
	lvl := level.New()
	if err := lvl.Load(path); err != nil {
		return nil, err
	}
	if lvl.Name == "" {
		lvl.Name = levelName(path)
	}
	return lvl, nil
}

// replay combines all brushes of a level into fresh geometry
func replay(lvl *level.Level, config *project.Config) (*csg.Csg, []level.Rejection) {
	c := csg.New(csgOptions(config)...)
	rejected := lvl.Replay(c)
	for _, r := range rejected {
		fmt.Printf("  Skipped %s %v\n", lvl.Name, r)
	}
	return c, rejected
}
