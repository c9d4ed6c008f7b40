package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sink receives periodic auto-backups. A failing sink never fails the
// operation that triggered the backup.
type Sink interface {
	Write(b *Backup) error
}

// FileSink writes auto-backup files into a directory, one timestamped
// file per backup.
type FileSink struct {
	dir   string
	event string
}

// NewFileSink creates the backup directory if needed.
func NewFileSink(dir, event string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &FileSink{dir: dir, event: event}, nil
}

// Write stores the backup as <event>-auto-backup-<yyyymmdd-hhmmss>.json.
func (s *FileSink) Write(b *Backup) error {
	name := fmt.Sprintf("%s-auto-backup-%s.json",
		slug(s.event), b.ExportDate.Format("20060102-150405"))
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()
	if err := WriteBackup(f, b); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync backup file: %w", err)
	}
	return nil
}

// slug makes an event label safe for filenames.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteByte('-')
		}
	}
	out := strings.Trim(sb.String(), "-")
	if out == "" {
		return "race"
	}
	return out
}
