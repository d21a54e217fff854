package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Config
		wantErr bool
	}{
		{
			name:    "defaults",
			content: "name: crypt\n",
			want: Config{
				Name:       "crypt",
				LevelsDir:  "levels",
				OutputDir:  "build",
				WallHeight: 3,
				Snapshot:   SnapshotConfig{Scale: 32, Padding: 16},
			},
		},
		{
			name: "overrides",
			content: `name: crypt
levels_dir: maps
output_dir: out
wall_height: 2.5
snapshot:
    scale: 8
    padding: 4
`,
			want: Config{
				Name:       "crypt",
				LevelsDir:  "maps",
				OutputDir:  "out",
				WallHeight: 2.5,
				Snapshot:   SnapshotConfig{Scale: 8, Padding: 4},
			},
		},
		{
			name:    "missing name",
			content: "levels_dir: maps\n",
			wantErr: true,
		},
		{
			name:    "negative wall height",
			content: "name: crypt\nwall_height: -1\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			content: "name: [crypt\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			config, err := LoadConfig(dir)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got config %+v", config)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tt.want.root = dir
			if *config != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, *config)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "name: crypt\n")

	nested := filepath.Join(root, "levels", "act1")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, err := findProjectRoot(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != root {
		t.Errorf("expected %s, got %s", root, found)
	}
}

func TestLevelPath(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "name: crypt\nlevels_dir: maps\n")
	config, err := LoadConfig(root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "cellar", want: filepath.Join(root, "maps", "cellar.yaml")},
		{arg: "cellar.yaml", want: "cellar.yaml"},
		{arg: filepath.Join("other", "cellar.yaml"), want: filepath.Join("other", "cellar.yaml")},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			if got := config.LevelPath(tt.arg); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "crypt")
	config := DefaultConfig(root)

	if config.Name != "crypt" {
		t.Errorf("expected name from directory, got %q", config.Name)
	}
	if config.Root() != root {
		t.Errorf("expected root %s, got %s", root, config.Root())
	}
	if got, want := config.LevelPath("hall"), filepath.Join(root, "levels", "hall.yaml"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if config.WallHeight != 3 || config.Snapshot.Scale != 32 {
		t.Errorf("defaults not applied: %+v", config)
	}
}
