//go:build !linux
// +build !linux

package fuse

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

type FileEntry struct {
	Name   string
	Offset uint64
	Size   uint64
}

func Mount(ctx context.Context, mountpoint string, r io.ReaderAt, entries []FileEntry, logger *slog.Logger) error {
	return errors.New("FUSE mount is only supported on Linux")
}
