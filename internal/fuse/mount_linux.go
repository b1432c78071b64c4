//go:build linux
// +build linux

package fuse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	osutils "github.com/ostafen/rescue/pkg/util/os"
)

const (
	maxUnmountRetries = 3
	unmountRetryDelay = time.Second
)

// Mount serves entries at mountpoint until ctx is cancelled, then unmounts.
// A missing mountpoint is created and removed afterwards.
func Mount(ctx context.Context, mountpoint string, r io.ReaderAt, entries []FileEntry, logger *slog.Logger) error {
	created, err := osutils.EnsureDir(mountpoint, true)
	if err != nil {
		return fmt.Errorf("invalid mountpoint: %w", err)
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint, fuse.ReadOnly(), fuse.FSName("rescue"))
	if err != nil {
		return err
	}
	defer c.Close()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- fusefs.Serve(c, NewFS(r, entries))
	}()

	logger.Info("filesystem mounted, waiting for termination signal", "mountpoint", mountpoint, "files", len(entries))

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	return unmount(mountpoint, logger)
}

func unmount(mountpoint string, logger *slog.Logger) error {
	var err error
	for attempt := 1; attempt <= maxUnmountRetries; attempt++ {
		logger.Info("unmounting", "mountpoint", mountpoint, "attempt", attempt, "max", maxUnmountRetries)

		if err = fuse.Unmount(mountpoint); err == nil {
			logger.Info("unmounted successfully")
			return nil
		}

		logger.Warn("unmount failed", "err", err)
		time.Sleep(unmountRetryDelay)
	}
	return fmt.Errorf("unable to unmount %s after %d attempts: %w", mountpoint, maxUnmountRetries, err)
}
