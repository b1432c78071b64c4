//go:build linux
// +build linux

package fuse

import (
	"bytes"
	"context"
	"testing"

	"bazil.org/fuse"
	"github.com/stretchr/testify/require"
)

func TestRecoverFS(t *testing.T) {
	image := []byte("0123456789abcdefghij")
	fsys := NewFS(bytes.NewReader(image), []FileEntry{
		{Name: "txt-fragment-2.txt", Offset: 10, Size: 10},
		{Name: "jpg-fragment-1.jpg", Offset: 2, Size: 5},
	})

	root, err := fsys.Root()
	require.NoError(t, err)
	dir := root.(*Dir)

	dirents, err := dir.ReadDirAll(context.Background())
	require.NoError(t, err)
	require.Len(t, dirents, 2)
	require.Equal(t, "jpg-fragment-1.jpg", dirents[0].Name)
	require.Equal(t, uint64(2), dirents[0].Inode)
	require.Equal(t, "txt-fragment-2.txt", dirents[1].Name)
	require.Equal(t, uint64(3), dirents[1].Inode)

	_, err = dir.Lookup(context.Background(), "missing")
	require.Equal(t, fuse.ENOENT, err)

	node, err := dir.Lookup(context.Background(), "jpg-fragment-1.jpg")
	require.NoError(t, err)
	f := node.(*File)

	var attr fuse.Attr
	require.NoError(t, f.Attr(context.Background(), &attr))
	require.Equal(t, uint64(5), attr.Size)
	require.Equal(t, uint64(2), attr.Inode)

	var resp fuse.ReadResponse
	require.NoError(t, f.Read(context.Background(), &fuse.ReadRequest{Offset: 1, Size: 100}, &resp))
	require.Equal(t, []byte("3456"), resp.Data)

	require.NoError(t, f.Read(context.Background(), &fuse.ReadRequest{Offset: 5, Size: 10}, &resp))
	require.Empty(t, resp.Data)
}
