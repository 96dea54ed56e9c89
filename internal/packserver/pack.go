// Package packserver serves a directory of question packs in the same wire
// format the client fetches remotely.
package packserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abhisek/mcqquiz/internal/quiz"
	"github.com/abhisek/mcqquiz/internal/source"
)

// Pack is one question file in the served directory.
type Pack struct {
	// Name is the file name without extension; it is the URL path segment.
	Name        string
	Title       string
	Description string
	Version     string
	Questions   []quiz.Question
}

type packHeader struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// LoadDir reads every *.json file in dir as a pack. A file is either a bare
// question array, titled after its file name, or an object with title,
// description, version and questions. Files that fail validation abort the
// load so a broken pack is never served.
func LoadDir(dir string) ([]Pack, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	sort.Strings(paths)

	var packs []Pack
	for _, p := range paths {
		if filepath.Base(p) == "modules.json" {
			continue
		}
		pack, err := loadPack(p)
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

func loadPack(path string) (Pack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Pack{}, fmt.Errorf("read pack: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pack := Pack{Name: name, Title: name}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var h packHeader
		if err := json.Unmarshal(trimmed, &h); err != nil {
			return Pack{}, fmt.Errorf("pack %s: %w", name, err)
		}
		if h.Title != "" {
			pack.Title = h.Title
		}
		pack.Description = h.Description
		pack.Version = h.Version
	}
	if err := source.ValidateVersion(pack.Version); err != nil {
		return Pack{}, fmt.Errorf("pack %s: %w", name, err)
	}

	pack.Questions, err = source.DecodeQuestions(raw)
	if err != nil {
		return Pack{}, fmt.Errorf("pack %s: %w", name, err)
	}
	for _, q := range pack.Questions {
		if err := q.Validate(); err != nil {
			return Pack{}, fmt.Errorf("pack %s: %w", name, err)
		}
	}
	return pack, nil
}
