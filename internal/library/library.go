package library

import (
	"fmt"
	"os"
	"path/filepath"

	"git.lost.host/meutraa/frets/internal/game"
	"gopkg.in/yaml.v3"
)

// Song is one entry of the manifest. Paths are relative to the manifest.
type Song struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Artist     string `yaml:"artist"`
	Chart      string `yaml:"chart"`
	Audio      string `yaml:"audio"`
	Difficulty string `yaml:"difficulty"`
}

type Library struct {
	Dir   string `yaml:"-"`
	Songs []Song `yaml:"songs"`
}

func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if nil != err {
		return nil, fmt.Errorf("unable to read library: %w", err)
	}
	var lib Library
	if err := yaml.Unmarshal(data, &lib); nil != err {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	lib.Dir = filepath.Dir(path)

	seen := map[string]bool{}
	for i, s := range lib.Songs {
		if s.ID == "" {
			return nil, fmt.Errorf("song %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("song %q is listed twice", s.ID)
		}
		seen[s.ID] = true
		if s.Difficulty != "" {
			if _, err := game.ParseDifficulty(s.Difficulty); nil != err {
				return nil, fmt.Errorf("song %q: %w", s.ID, err)
			}
		}
	}
	return &lib, nil
}

func (l *Library) Find(id string) (*Song, bool) {
	for i := range l.Songs {
		if l.Songs[i].ID == id {
			return &l.Songs[i], true
		}
	}
	return nil, false
}

// Path resolves a manifest path, empty stays empty
func (l *Library) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Dir, p)
}

// DefaultDifficulty is the difficulty the manifest suggests, medium when it does not
func (s *Song) DefaultDifficulty() game.Difficulty {
	if d, err := game.ParseDifficulty(s.Difficulty); nil == err {
		return d
	}
	return game.Medium
}
