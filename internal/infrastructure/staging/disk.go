package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"AplusBackend/internal/ports"
)

// Disk keeps files under a root directory.
type Disk struct {
	root string
}

var (
	_ ports.UploadStager = (*Disk)(nil)
	_ ports.FileWriter   = (*Disk)(nil)
)

// NewDisk returns a stager rooted at dir. The directory is created lazily.
func NewDisk(dir string) *Disk {
	return &Disk{root: dir}
}

// Root returns the base directory.
func (d *Disk) Root() string {
	return d.root
}

// Save writes data as <uuid>_<name>, so repeated names never overwrite each other.
func (d *Disk) Save(name string, data []byte) (string, error) {
	return d.Write(uuid.NewString()+"_"+SanitizeName(name), data)
}

// Write stores data under the base of name.
func (d *Disk) Write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	path := filepath.Join(d.root, SanitizeName(name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// SanitizeName strips directory components from a client supplied filename.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(strings.TrimSpace(name))
	switch base {
	case "", ".", "..", "/":
		return "upload"
	}
	return base
}
