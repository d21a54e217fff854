package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "brushwork.yaml"

// ErrConfigNotFound is returned when no brushwork.yaml exists above the working directory
var ErrConfigNotFound = errors.New(configFileName + " not found")

// Config represents the project configuration from brushwork.yaml.
type Config struct {
	Name      string `yaml:"name"`
	LevelsDir string `yaml:"levels_dir,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
	// WallHeight is the height of extruded walls in world units.
	WallHeight float64        `yaml:"wall_height,omitempty"`
	Snapshot   SnapshotConfig `yaml:"snapshot,omitempty"`

	root string
}

// SnapshotConfig controls rendered level previews.
type SnapshotConfig struct {
	// Scale is the number of pixels per world unit.
	Scale float64 `yaml:"scale,omitempty"`
	// Padding is the empty border around the level in pixels.
	Padding int `yaml:"padding,omitempty"`
}

const (
	defaultLevelsDir       = "levels"
	defaultOutputDir       = "build"
	defaultWallHeight      = 3
	defaultSnapshotScale   = 32
	defaultSnapshotPadding = 16
)

// FindProjectRoot walks up from the current working directory looking for brushwork.yaml.
// Returns the directory containing brushwork.yaml, or an error wrapping ErrConfigNotFound.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return findProjectRoot(cwd)
}

func findProjectRoot(start string) (string, error) {
	dir := start
	for {
		configPath := filepath.Join(dir, configFileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w in any parent directory of %s", ErrConfigNotFound, start)
		}
		dir = parent
	}
}

// LoadConfig loads and parses the brushwork.yaml file from the given project root.
// Missing optional fields get their defaults.
func LoadConfig(projectRoot string) (*Config, error) {
	configPath := filepath.Join(projectRoot, configFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrConfigNotFound, projectRoot)
		}
		return nil, fmt.Errorf("reading %s: %w", configFileName, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFileName, err)
	}

	// Validate required fields
	if config.Name == "" {
		return nil, fmt.Errorf("'name' field is required in %s", configFileName)
	}
	if config.WallHeight < 0 {
		return nil, fmt.Errorf("'wall_height' must not be negative in %s", configFileName)
	}
	if config.Snapshot.Scale < 0 || config.Snapshot.Padding < 0 {
		return nil, fmt.Errorf("snapshot 'scale' and 'padding' must not be negative in %s", configFileName)
	}

	config.applyDefaults()
	config.root = projectRoot
	return &config, nil
}

// DefaultConfig returns the configuration used when a directory has no brushwork.yaml
func DefaultConfig(root string) *Config {
	config := &Config{Name: filepath.Base(root), root: root}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.LevelsDir == "" {
		c.LevelsDir = defaultLevelsDir
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.WallHeight == 0 {
		c.WallHeight = defaultWallHeight
	}
	if c.Snapshot.Scale == 0 {
		c.Snapshot.Scale = defaultSnapshotScale
	}
	if c.Snapshot.Padding == 0 {
		c.Snapshot.Padding = defaultSnapshotPadding
	}
}

// Root returns the directory the config was loaded from
func (c *Config) Root() string {
	return c.root
}

// LevelPath resolves a level argument. Anything that looks like a path is
// used as is, a bare name is looked up in the levels directory.
func (c *Config) LevelPath(nameOrPath string) string {
	if strings.ContainsRune(nameOrPath, filepath.Separator) || strings.ContainsRune(nameOrPath, '/') ||
		filepath.Ext(nameOrPath) == ".yaml" {
		return nameOrPath
	}
	return filepath.Join(c.root, c.LevelsDir, nameOrPath+".yaml")
}

// OutputPath returns a path inside the output directory
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.root, c.OutputDir, name)
}
