package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiskSaveKeepsDuplicates(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "uploads")
	disk := NewDisk(root)

	first, err := disk.Save("notes.pdf", []byte("one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := disk.Save("notes.pdf", []byte("two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first == second {
		t.Fatal("staged paths must differ for equal names")
	}
	if filepath.Dir(first) != root || !strings.HasSuffix(first, "_notes.pdf") {
		t.Fatalf("unexpected path: %s", first)
	}

	got, err := os.ReadFile(first)
	if err != nil || string(got) != "one" {
		t.Fatalf("unexpected content %q (%v)", got, err)
	}
}

func TestDiskWriteExactName(t *testing.T) {
	t.Parallel()

	disk := NewDisk(t.TempDir())
	path, err := disk.Write("image.png", []byte("png"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "image.png" {
		t.Fatalf("unexpected path: %s", path)
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"notes.pdf":           "notes.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\me\doc.pdf`: "doc.pdf",
		"":                    "upload",
		"..":                  "upload",
		"/":                   "upload",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Fatalf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
