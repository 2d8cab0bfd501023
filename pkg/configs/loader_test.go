package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

var testSchema = `
str?: string
list?: [...int]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderAssignFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.cue", `
str: "bar"
list: [1, 2, 3]
`)
	loader := NewLoader([]string{path}, testSchema)

	var str string
	err := loader.AssignFirst("str", &str)
	if err != nil {
		t.Fatal(err)
	}
	if str != "bar" {
		t.Fatalf("got %q", str)
	}

	var list []int
	err = loader.AssignFirst("list", &list)
	if err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", list); str != "[1 2 3]" {
		t.Fatalf("got %s", str)
	}

	err = loader.AssignFirst("not", &list)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLoaderIterCueValues(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader([]string{
		writeFile(t, dir, "test.cue", `str: "bar"`),
		writeFile(t, dir, "empty.cue", `list: [4]`),
		writeFile(t, dir, "test2.cue", `str: "foo"`),
	}, testSchema)

	var strs []string
	for value, err := range loader.IterCueValues("str") {
		if err != nil {
			t.Fatal(err)
		}
		var s string
		if err := value.Decode(&s); err != nil {
			t.Fatal(err)
		}
		strs = append(strs, s)
	}
	if str := fmt.Sprintf("%v", strs); str != "[bar foo]" {
		t.Fatalf("got %q", str)
	}
}

func TestUnknownField(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader([]string{
		writeFile(t, dir, "bad.cue", `unknown_field: "x"`),
	}, testSchema)
	var str string
	err := loader.AssignFirst("unknown_field", &str)
	if err == nil {
		t.Fatal("should error")
	}
	if !strings.Contains(err.Error(), "bad.cue") {
		t.Fatalf("error does not name the file: %v", err)
	}
	if files := loader.Files(); files != nil {
		t.Fatalf("got %v", files)
	}
}

func TestSyntaxErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader([]string{
		writeFile(t, dir, "good.cue", `str: "bar"`),
		writeFile(t, dir, "broken.cue", `str: "bar`),
	}, testSchema)
	err := loader.Err()
	if err == nil {
		t.Fatal("should error")
	}
	if !strings.Contains(err.Error(), "broken.cue") {
		t.Fatalf("error does not name the file: %v", err)
	}
}

func TestLoaderFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "local.cue", `str: "bar"`),
		writeFile(t, dir, "global.cue", `list: [1]`),
	}
	loader := NewLoader(files, testSchema)
	if got := loader.Files(); !slices.Equal(got, files) {
		t.Fatalf("got %v", got)
	}
	if got := NewLoader(nil, testSchema).Files(); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestDecodeErrorNamesPath(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader([]string{writeFile(t, dir, "test.cue", `str: "bar"`)}, testSchema)
	var n int
	err := loader.AssignFirst("str", &n)
	if err == nil {
		t.Fatal("should error")
	}
	if !strings.HasPrefix(err.Error(), "str: ") {
		t.Fatalf("got %v", err)
	}
}

func TestMissingFile(t *testing.T) {
	loader := NewLoader([]string{filepath.Join(t.TempDir(), "nope.cue")}, testSchema)
	if err := loader.Err(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v", err)
	}
}

func TestFirst(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader([]string{writeFile(t, dir, "test.cue", `str: "bar"`)}, testSchema)

	if str := First[string](loader, "str"); str != "bar" {
		t.Fatalf("got %v", str)
	}
	if list := First[[]int](loader, "list"); list != nil {
		t.Fatalf("got %v", list)
	}
}
