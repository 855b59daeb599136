package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/reelstats-cli/internal/utils"
)

func TestSafeWriteFileCreatesParent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "out.txt")
	if err := utils.SafeWriteFile(p, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "x" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := utils.UniquePath(dir, "movies", ".report.md")
	if filepath.Base(first) != "movies.report.md" {
		t.Fatalf("first = %s", first)
	}
	if err := os.WriteFile(first, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	second := utils.UniquePath(dir, "movies", ".report.md")
	if filepath.Base(second) != "movies__2.report.md" {
		t.Fatalf("second = %s", second)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Top Movies 2023": "top-movies-2023",
		"  __x__ ":        "x",
		"ÄÖ":              "",
		"tmdb_5000.csv":   "tmdb-5000-csv",
	}
	for in, want := range cases {
		if got := utils.Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/data")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "data") {
		t.Fatalf("got %s", got)
	}
	if got, _ := utils.ExpandHome("rel/./x"); got != filepath.Join("rel", "x") {
		t.Fatalf("got %s", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, utils.ProjectFile), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "reports", "run")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := utils.FindProjectRoot(nested)
	if err != nil || got != root {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := utils.FindProjectRoot(t.TempDir()); err == nil {
		t.Fatal("expected not found")
	}
}
