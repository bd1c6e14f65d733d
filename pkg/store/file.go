package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// Subdirectories of a FileStore root.
const (
	PromptDir = "prompts"
	MapDir    = "json"
)

// promptStamp names prompt files by local time, one per second.
const promptStamp = "20060102_150405"

// FileStore writes generations below a root directory.
type FileStore struct {
	root string
	now  func() time.Time
}

// NewFileStore creates the prompts/ and json/ directories under root.
func NewFileStore(root string) (*FileStore, error) {
	for _, dir := range []string{PromptDir, MapDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	return &FileStore{root: root, now: time.Now}, nil
}

// Root returns the store's root directory.
func (s *FileStore) Root() string { return s.root }

// SavePrompt writes prompts/<YYYYMMDD_HHMMSS>.md. A second prompt within the
// same second gets a numeric suffix instead of overwriting the first.
func (s *FileStore) SavePrompt(ctx context.Context, g *Generation) (string, error) {
	stamp(g, s.now)
	base := g.CreatedAt.Format(promptStamp)
	path := filepath.Join(s.root, PromptDir, base+".md")
	for i := 2; ; i++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			path = filepath.Join(s.root, PromptDir, fmt.Sprintf("%s_%d.md", base, i))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save prompt: %w", err)
		}
		_, werr := f.WriteString(g.Prompt)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return "", fmt.Errorf("save prompt: %w", werr)
		}
		return path, nil
	}
}

// SaveMap writes json/<central>.json. The central label becomes a file name
// and must pass ValidateLabel.
func (s *FileStore) SaveMap(ctx context.Context, g *Generation) (string, error) {
	path, err := s.mapPath(g.Central)
	if err != nil {
		return "", err
	}
	if g.Map == nil {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "no category map to save for %q", g.Central)
	}
	if err := catmap.WriteFile(g.Map, path); err != nil {
		return "", err
	}
	return path, nil
}

// LoadMap reads json/<central>.json.
func (s *FileStore) LoadMap(ctx context.Context, central string) (*catmap.Map, error) {
	path, err := s.mapPath(central)
	if err != nil {
		return nil, err
	}
	m, err := catmap.ReadFile(path)
	if apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "no saved map for %q", central)
	}
	return m, err
}

// List returns the stems of json/*.json.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, MapDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Close does nothing for a file store.
func (s *FileStore) Close() error { return nil }

// CheckCentral reports whether central can be used as a map file name.
func (s *FileStore) CheckCentral(central string) error {
	return apperrors.ValidateLabel(central)
}

func (s *FileStore) mapPath(central string) (string, error) {
	if err := s.CheckCentral(central); err != nil {
		return "", err
	}
	return filepath.Join(s.root, MapDir, central+".json"), nil
}

func stamp(g *Generation, now func() time.Time) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now()
	}
}

var _ Store = (*FileStore)(nil)
