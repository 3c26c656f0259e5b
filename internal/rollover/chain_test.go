package rollover

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestResolveOrdersOldestFirst(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app.log"))
	touch(t, filepath.Join(dir, "app.log.1"))
	touch(t, filepath.Join(dir, "app.log.2"))

	want := []string{
		filepath.Join(dir, "app.log.2"),
		filepath.Join(dir, "app.log.1"),
		filepath.Join(dir, "app.log"),
	}
	got := Resolve(filepath.Join(dir, "app.log"))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveSingleFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app.log"))

	got := Resolve(filepath.Join(dir, "app.log"))
	want := []string{filepath.Join(dir, "app.log")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveFromRotatedFragment(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app.log"))
	touch(t, filepath.Join(dir, "app.log.1"))

	// Opening a rotated fragment resolves the whole chain.
	got := Resolve(filepath.Join(dir, "app.log.1"))
	want := []string{
		filepath.Join(dir, "app.log.1"),
		filepath.Join(dir, "app.log"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveExcludesUnrelatedSiblings(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app.log"))
	touch(t, filepath.Join(dir, "app.log.bak"))
	touch(t, filepath.Join(dir, "app.log.1.gz"))
	touch(t, filepath.Join(dir, "app.log2"))
	touch(t, filepath.Join(dir, "other.log"))

	got := Resolve(filepath.Join(dir, "app.log"))
	want := []string{filepath.Join(dir, "app.log")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveNumericSortNotLexical(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "app.log"))
	touch(t, filepath.Join(dir, "app.log.2"))
	touch(t, filepath.Join(dir, "app.log.10"))

	want := []string{
		filepath.Join(dir, "app.log.10"),
		filepath.Join(dir, "app.log.2"),
		filepath.Join(dir, "app.log"),
	}
	got := Resolve(filepath.Join(dir, "app.log"))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolveStable(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "srv.out"))
	touch(t, filepath.Join(dir, "srv.out.1"))
	touch(t, filepath.Join(dir, "srv.out.3"))

	first := Resolve(filepath.Join(dir, "srv.out"))
	second := Resolve(filepath.Join(dir, "srv.out"))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve not stable: %v vs %v", first, second)
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/var/log/app.log", "/var/log/app.log"},
		{"/var/log/app.log.3", "/var/log/app.log"},
		{"/var/log/app.out.12", "/var/log/app.out"},
		{"/var/log/archive.2", "/var/log/archive.2"}, // no log-like extension before the suffix
		{"/var/log/app.log.bak", "/var/log/app.log.bak"},
	}
	for _, tt := range tests {
		if got := Base(tt.in); got != tt.want {
			t.Errorf("Base(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameSet(t *testing.T) {
	a := []string{"x.log.1", "x.log"}
	b := []string{"x.log", "x.log.1"}
	if !SameSet(a, b) {
		t.Error("SameSet should ignore order")
	}
	if SameSet(a, []string{"x.log"}) {
		t.Error("SameSet should detect differing length")
	}
	if SameSet(a, []string{"x.log", "x.log.2"}) {
		t.Error("SameSet should detect differing members")
	}
}
