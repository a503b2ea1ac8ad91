package tom

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads templates from an ordered list of directories.
// The first root holding a name wins, so a project root listed before the
// built-in root overrides built-in templates of the same name.
type FilesystemLoader struct {
	roots []string
}

// NewFilesystemLoader creates a loader over roots, searched in order.
func NewFilesystemLoader(roots ...string) (*FilesystemLoader, error) {
	if len(roots) == 0 {
		return nil, &LoaderError{Message: ErrMsgNoLoaderRoots}
	}
	cleaned := make([]string, len(roots))
	for i, r := range roots {
		cleaned[i] = filepath.Clean(r)
	}
	return &FilesystemLoader{roots: cleaned}, nil
}

// Roots returns the search roots in order.
func (l *FilesystemLoader) Roots() []string {
	return append([]string(nil), l.roots...)
}

// Load implements Loader.
func (l *FilesystemLoader) Load(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := CleanTemplateName(name)
	if err != nil {
		return nil, err
	}

	rel := filepath.FromSlash(strings.TrimPrefix(clean, "/"))
	for _, root := range l.roots {
		body, err := os.ReadFile(filepath.Join(root, rel))
		if err == nil {
			return &Source{Name: clean, Body: string(body)}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, NewLoaderReadError(clean, err)
		}
	}
	return nil, NewTemplateNotFoundError(clean)
}

// FSLoader loads templates from an fs.FS such as an embed.FS.
type FSLoader struct {
	fsys fs.FS
}

// NewFSLoader creates a loader over fsys.
func NewFSLoader(fsys fs.FS) (*FSLoader, error) {
	if fsys == nil {
		return nil, &LoaderError{Message: ErrMsgNilFS}
	}
	return &FSLoader{fsys: fsys}, nil
}

// Load implements Loader.
func (l *FSLoader) Load(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := CleanTemplateName(name)
	if err != nil {
		return nil, err
	}

	body, err := fs.ReadFile(l.fsys, strings.TrimPrefix(clean, "/"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewTemplateNotFoundError(clean)
		}
		return nil, NewLoaderReadError(clean, err)
	}
	return &Source{Name: clean, Body: string(body)}, nil
}
