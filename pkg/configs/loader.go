package configs

import (
	"fmt"
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Loader reads a list of CUE files once, on first use, and answers lookups
// from them in order. Earlier files take precedence.
type Loader struct {
	getRoots func() ([]configRoot, error)
}

type configRoot struct {
	value cue.Value
	file  string
}

// NewLoader returns a loader over files. A non-empty schemaSrc is closed
// and unified with every file, so unknown fields and values outside the
// schema are errors naming the offending file.
func NewLoader(files []string, schemaSrc string) Loader {
	return Loader{
		getRoots: sync.OnceValues(func() ([]configRoot, error) {
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				schema = ctx.CompileString("close({"+schemaSrc+"})", cue.Filename("schema.cue"))
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("schema: %w", err)
				}
			}

			roots := make([]configRoot, 0, len(files))
			for _, file := range files {
				root, err := loadRoot(ctx, file, schema)
				if err != nil {
					return nil, err
				}
				roots = append(roots, root)
			}
			return roots, nil
		}),
	}
}

// loadRoot compiles one file and checks it against schema, if any.
func loadRoot(ctx *cue.Context, file string, schema cue.Value) (configRoot, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return configRoot{}, err
	}
	value := ctx.CompileBytes(content, cue.Filename(file))
	if err := value.Err(); err != nil {
		return configRoot{}, fmt.Errorf("%s: %w", file, err)
	}
	if schema.Exists() {
		if err := schema.Unify(value).Validate(); err != nil {
			return configRoot{}, fmt.Errorf("%s: %w", file, err)
		}
	}
	return configRoot{value: value, file: file}, nil
}

// Err reports whether the files could be read and validated.
func (l Loader) Err() error {
	_, err := l.getRoots()
	return err
}

// Files lists the files that were loaded, in precedence order. It is empty
// when loading failed.
func (l Loader) Files() []string {
	roots, err := l.getRoots()
	if err != nil {
		return nil
	}
	files := make([]string, 0, len(roots))
	for _, root := range roots {
		files = append(files, root.file)
	}
	return files
}

// IterCueValues yields the value at path from every file defining it.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		roots, err := l.getRoots()
		if err != nil {
			yield(nil, err)
			return
		}

		cuePath := cue.ParsePath(path)
		for _, root := range roots {
			value := root.value.LookupPath(cuePath)
			if value.Err() != nil || !value.Exists() {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}

// AssignFirst decodes the first value found at path into target.
func (l Loader) AssignFirst(path string, target any) error {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return err
		}
		if err := value.Decode(target); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	}
	return ErrValueNotFound
}
