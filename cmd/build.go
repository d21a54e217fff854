package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/bloodmagesoftware/brushwork/csg"
	"github.com/bloodmagesoftware/brushwork/level"
	"github.com/bloodmagesoftware/brushwork/project"
	"github.com/bloodmagesoftware/brushwork/snapshot"
	"github.com/spf13/cobra"
)

var (
	buildTimeout   time.Duration
	buildSnapshots bool
	buildStrict    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bake every level of the project",
	Long: `Bakes all levels in the levels directory into the output directory, optionally with a snapshot per level.
The build fails if a level takes longer than the timeout. The timed out level keeps baking in the background
until the process exits. Rejected brushes are skipped and counted; --strict turns them into a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := getProject()
		if err != nil {
			return err
		}

		fmt.Printf("Baking levels with %s timeout per level...\n", buildTimeout)

		count, rejected := 0, 0
		for built, err := range bakeLevels(config, buildTimeout) {
			if err != nil {
				return fmt.Errorf("building levels: %w", err)
			}

			bakedPath := config.OutputPath(built.name + ".yaml")
			if err := built.baked.Save(bakedPath); err != nil {
				return fmt.Errorf("saving baked level %s: %w", built.name, err)
			}
			if buildSnapshots {
				if err := snapshot.WriteFile(config.OutputPath(built.name+".qoi"), built.tree, snapshotOptions(config)); err != nil {
					return err
				}
			}

			fmt.Printf("  Baked: %s -> %s\n", filepath.Base(built.path), bakedPath)
			count++
			rejected += built.rejected
		}

		if buildStrict && rejected > 0 {
			return fmt.Errorf("%d brushes rejected", rejected)
		}
		fmt.Printf("\n✅ Build complete: %d levels in %s, %d brushes rejected\n", count, config.OutputPath(""), rejected)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().DurationVarP(&buildTimeout, "timeout", "t", 30*time.Second, "Maximum time to bake a single level")
	buildCmd.Flags().BoolVarP(&buildSnapshots, "snapshots", "s", false, "Also render a snapshot per level")
	buildCmd.Flags().BoolVar(&buildStrict, "strict", false, "Fail if any brush is rejected")
}

// builtLevel is the result of baking one level file
type builtLevel struct {
	path  string
	name  string // path relative to the levels directory, without extension
	baked *level.Baked
	tree  *csg.Tree
	// rejected is the number of brushes skipped during replay
	rejected int
}

// bakeLevels creates an iterator that yields every level in the levels
// directory, baked. Each level gets its own timeout; the iteration stops
// after the first error.
func bakeLevels(config *project.Config, timeout time.Duration) iter.Seq2[builtLevel, error] {
	return func(yield func(builtLevel, error) bool) {
		levelsDir := filepath.Join(config.Root(), config.LevelsDir)

		// Find all YAML level files
		var matches []string
		err := filepath.WalkDir(levelsDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".yaml") {
				matches = append(matches, path)
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			yield(builtLevel{}, fmt.Errorf("walking levels directory: %w", err))
			return
		}

		for _, levelPath := range matches {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)

			type result struct {
				level builtLevel
				err   error
			}
			resultChan := make(chan result, 1)

			go func() {
				lvl, err := loadLevel(levelPath)
				if err != nil {
					resultChan <- result{err: err}
					return
				}

				relPath, err := filepath.Rel(levelsDir, levelPath)
				if err != nil {
					resultChan <- result{err: fmt.Errorf("getting relative path for %s: %w", levelPath, err)}
					return
				}

				c, rejected := replay(lvl, config)
				tree := c.Root()
				resultChan <- result{level: builtLevel{
					path:     levelPath,
					name:     strings.TrimSuffix(relPath, ".yaml"),
					baked:    level.Bake(lvl.Name, tree),
					tree:     tree,
					rejected: len(rejected),
				}}
			}()

			select {
			case <-ctx.Done():
				cancel()
				yield(builtLevel{path: levelPath}, fmt.Errorf("baking %s timed out after %s", levelPath, timeout))
				return
			case res := <-resultChan:
				cancel()
				if !yield(res.level, res.err) || res.err != nil {
					return
				}
			}
		}
	}
}
