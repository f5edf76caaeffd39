package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avenue-assistant/internal/jsonx"
	"github.com/avenue-assistant/internal/session"
	"github.com/valyala/bytebufferpool"
	"go.uber.org/zap"
)

// FileBackend persists snapshots as a 2-space-indented JSON file,
// written atomically via a temp file and rename.
type FileBackend struct {
	path   string
	logger *zap.Logger
}

// NewFileBackend creates a backend writing to path.
func NewFileBackend(path string, logger *zap.Logger) *FileBackend {
	return &FileBackend{path: path, logger: logger}
}

// Load reads the snapshot file. A missing file yields an empty
// snapshot with no error; a malformed one returns an error the manager
// downgrades to a warning.
func (b *FileBackend) Load(ctx context.Context) (map[string][]session.Message, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return map[string][]session.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", b.path, err)
	}

	snap := map[string][]session.Message{}
	if err := jsonx.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", b.path, err)
	}
	return snap, nil
}

// Save writes the snapshot atomically.
func (b *FileBackend) Save(ctx context.Context, snap map[string][]session.Message) error {
	data, err := jsonx.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.Write(data)
	buf.WriteByte('\n')

	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
