package tmplfs

import (
	"context"
	"encoding/json"
	"path"
	"slices"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/fsx"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
)

const ext = ".json"

// FileStore keeps one JSON file per template, <dir>/<name>.json, on any fsx
// file system (local disk or S3).
type FileStore struct {
	fs  fsx.FileSystem
	dir string
}

var _ tmplstore.Store = (*FileStore)(nil)

// NewFileStore creates a store over the files in dir.
func NewFileStore(fs fsx.FileSystem, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir}
}

func (s *FileStore) path(name string) string {
	return path.Join(s.dir, name+ext)
}

// Template reads <name>.json. A missing file, or a name that cannot be a
// file name, is an empty override.
func (s *FileStore) Template(ctx context.Context, name string) (activemsg.TemplateOverride, error) {
	if tmplstore.ValidateName(name) != nil {
		return nil, nil
	}

	data, err := s.fs.ReadFile(ctx, s.path(name))
	if err != nil {
		if fsx.IsNotFound(err) {
			return nil, nil
		}
		return nil, tmplstore.Backend(name, err)
	}
	return tmplstore.Decode(name, data)
}

func (s *FileStore) Save(ctx context.Context, name string, override activemsg.TemplateOverride) error {
	if err := tmplstore.ValidateName(name); err != nil {
		return err
	}
	if override == nil {
		override = activemsg.TemplateOverride{}
	}
	data, err := json.MarshalIndent(override, "", "  ")
	if err != nil {
		return tmplstore.Backend(name, err)
	}
	if err := s.fs.WriteFile(ctx, s.path(name), append(data, '\n')); err != nil {
		return tmplstore.Backend(name, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := tmplstore.ValidateName(name); err != nil {
		return err
	}
	if err := s.fs.DeleteFile(ctx, s.path(name)); err != nil {
		return tmplstore.Backend(name, err)
	}
	return nil
}

// Names lists the *.json files in the directory, sorted.
func (s *FileStore) Names(ctx context.Context) ([]string, error) {
	infos, err := s.fs.List(ctx, s.dir)
	if err != nil {
		if fsx.IsNotFound(err) {
			return nil, nil
		}
		return nil, tmplstore.Backend("", err)
	}

	var names []string
	for _, info := range infos {
		if !info.IsDir && strings.HasSuffix(info.Name, ext) {
			names = append(names, strings.TrimSuffix(info.Name, ext))
		}
	}
	slices.Sort(names)
	return names, nil
}
