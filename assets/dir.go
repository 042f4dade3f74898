package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// DirSource reads assets from file trees. Flags are looked up as
// <code>.png, then <code>.svg; uploads as <id>, then <id>.<ext> for the
// common image extensions. A nil tree has no assets.
type DirSource struct {
	FlagFS   fs.FS
	UploadFS fs.FS
	StaticFS fs.FS
}

var uploadExts = []string{"png", "jpg", "jpeg", "webp", "gif", "svg"}

// Flag reads <code>.png or <code>.svg from FlagFS.
func (d *DirSource) Flag(ctx context.Context, code string) (Asset, error) {
	return readFirst(d.FlagFS, "flag "+code, code+".png", code+".svg")
}

// Upload reads id, or id with an image extension, from UploadFS.
func (d *DirSource) Upload(ctx context.Context, id string) (Asset, error) {
	names := []string{id}
	for _, ext := range uploadExts {
		names = append(names, id+"."+ext)
	}
	return readFirst(d.UploadFS, "upload "+id, names...)
}

// Static reads path from StaticFS.
func (d *DirSource) Static(ctx context.Context, path string) (Asset, error) {
	return readFirst(d.StaticFS, "static "+path, path)
}

func readFirst(fsys fs.FS, ref string, names ...string) (Asset, error) {
	if fsys == nil {
		return Asset{}, &FetchError{Ref: ref, Err: ErrNotFound}
	}
	for _, name := range names {
		if !fs.ValidPath(name) {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Asset{}, &FetchError{Ref: ref, Err: fmt.Errorf("reading %s: %w", name, err)}
		}
		return Asset{Data: data, MIMEType: detectMIME(name, data)}, nil
	}
	return Asset{}, &FetchError{Ref: ref, Err: ErrNotFound}
}
