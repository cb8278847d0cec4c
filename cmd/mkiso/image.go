package main

import (
	"claudeos/fs/ramfs"
	"claudeos/fs/vfs"
	"errors"
	"fmt"
	"io/fs"
	"os"

	diskfs "github.com/diskfs/go-diskfs"
	diskpkg "github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"
	"github.com/diskfs/go-diskfs/filesystem/iso9660"
	"github.com/sirupsen/logrus"
)

const (
	blockSize = 2048

	// Every entry is charged two blocks (directory record and data) on
	// top of a fixed reserve for the volume descriptors and path tables.
	imageReserve = 1 << 20
	overlayDir   = "mnt"
)

// treeWriter is the part of a filesystem the tree is copied into.
type treeWriter interface {
	Mkdir(p string) error
	OpenFile(p string, flag int) (filesystem.File, error)
}

// buildTree returns a seeded root filesystem with overlay, if not nil,
// imported under /mnt.
func buildTree(overlay fs.FS) (*ramfs.FS, error) {
	r := ramfs.New()
	if err := r.Seed(); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	if overlay == nil {
		return r, nil
	}

	mnt, kerr := r.CreateDir(r.Root(), overlayDir)
	if kerr != nil {
		return nil, fmt.Errorf("overlay: %w", kerr)
	}
	if err := r.Import(overlay, mnt); err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	return r, nil
}

// copyTree recreates the tree rooted at root in w and returns the number of
// files copied. Device nodes have no representation in the image and are
// skipped.
func copyTree(log logrus.FieldLogger, root *vfs.Node, w treeWriter) (int, error) {
	var files int

	err := ramfs.Walk(root, func(p string, n *vfs.Node) error {
		switch {
		case n.IsRoot():
			return nil
		case n.IsDir():
			if err := w.Mkdir(p); err != nil {
				return fmt.Errorf("mkdir %s: %w", p, err)
			}
		case n.Type == vfs.TypeFile:
			f, err := w.OpenFile(p, os.O_CREATE|os.O_RDWR)
			if err != nil {
				return fmt.Errorf("create %s: %w", p, err)
			}

			_, err = f.Write(n.Data[:n.Size])
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", p, err)
			}
			files++
		default:
			log.WithFields(logrus.Fields{"path": p, "type": n.Type}).Debug("skipping node")
		}
		return nil
	})

	return files, err
}

// imageSize returns the size of the image needed for the tree rooted at root.
func imageSize(root *vfs.Node) int64 {
	size := int64(imageReserve)
	ramfs.Walk(root, func(_ string, n *vfs.Node) error {
		size += 2*blockSize + int64(n.Size)
		return nil
	})
	return (size + blockSize - 1) / blockSize * blockSize
}

// buildImage writes the root filesystem to opts.output, replacing any
// previous image.
func buildImage(log logrus.FieldLogger, opts options) error {
	var overlay fs.FS
	if opts.overlay != "" {
		overlay = os.DirFS(opts.overlay)
	}

	tree, err := buildTree(overlay)
	if err != nil {
		return err
	}

	if err := os.Remove(opts.output); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	disk, err := diskfs.Create(opts.output, imageSize(tree.Root()), diskfs.Raw, diskfs.SectorSize(blockSize))
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.output, err)
	}

	spec := diskpkg.FilesystemSpec{Partition: 0, FSType: filesystem.TypeISO9660, VolumeLabel: opts.label}
	img, err := disk.CreateFilesystem(spec)
	if err != nil {
		return fmt.Errorf("create filesystem: %w", err)
	}

	files, err := copyTree(log, tree.Root(), img)
	if err != nil {
		return err
	}

	iso, ok := img.(*iso9660.FileSystem)
	if !ok {
		return fmt.Errorf("unexpected filesystem type %T", img)
	}

	if err := iso.Finalize(iso9660.FinalizeOptions{VolumeIdentifier: opts.label, RockRidge: true}); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}

	log.WithFields(logrus.Fields{
		"image": opts.output,
		"label": opts.label,
		"nodes": tree.NodesUsed(),
		"files": files,
	}).Info("image written")
	return nil
}
