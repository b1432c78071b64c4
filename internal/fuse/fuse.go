//go:build linux
// +build linux

package fuse

import (
	"context"
	"io"
	"os"
	"slices"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// FileEntry is a fragment exposed as a read-only file.
type FileEntry struct {
	Name   string
	Offset uint64 // offset within the image
	Size   uint64
}

// RecoverFS is a flat read-only directory whose files are byte ranges of an image.
type RecoverFS struct {
	r       io.ReaderAt
	names   []string
	entries map[string]FileEntry
	mtime   time.Time
}

// NewFS builds the file system. Entries sharing a name keep the last one.
func NewFS(r io.ReaderAt, entries []FileEntry) *RecoverFS {
	fsys := &RecoverFS{
		r:       r,
		entries: make(map[string]FileEntry, len(entries)),
		mtime:   time.Now(),
	}
	for _, e := range entries {
		fsys.entries[e.Name] = e
	}

	fsys.names = make([]string, 0, len(fsys.entries))
	for name := range fsys.entries {
		fsys.names = append(fsys.names, name)
	}
	slices.Sort(fsys.names)
	return fsys
}

func (fsys *RecoverFS) Root() (fs.Node, error) {
	return &Dir{fs: fsys}, nil
}

type Dir struct {
	fs *RecoverFS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = 1
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	i, ok := slices.BinarySearch(d.fs.names, name)
	if !ok {
		return nil, fuse.ENOENT
	}

	e := d.fs.entries[name]
	return &File{
		r:     io.NewSectionReader(d.fs.r, int64(e.Offset), int64(e.Size)),
		inode: inodeOf(i),
		size:  e.Size,
		mtime: d.fs.mtime,
	}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirEntries := make([]fuse.Dirent, len(d.fs.names))
	for i, name := range d.fs.names {
		dirEntries[i] = fuse.Dirent{
			Inode: inodeOf(i),
			Name:  name,
			Type:  fuse.DT_File,
		}
	}
	return dirEntries, nil
}

// inode 1 is the root directory.
func inodeOf(i int) uint64 {
	return uint64(i) + 2
}

type File struct {
	r     io.ReaderAt
	inode uint64
	size  uint64
	mtime time.Time
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Inode = f.inode
	a.Mode = 0444
	a.Size = f.size
	a.Mtime = f.mtime
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	if req.Offset >= int64(f.size) {
		resp.Data = []byte{}
		return nil
	}

	size := int64(req.Size)
	if req.Offset+size > int64(f.size) {
		size = int64(f.size) - req.Offset
	}

	buf := make([]byte, size)
	n, err := f.r.ReadAt(buf, req.Offset)
	if err != nil && err != io.EOF {
		return err
	}

	resp.Data = buf[:n]
	return nil
}
