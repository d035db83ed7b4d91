package util

import (
	"archive/tar"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// ArchiveKind is the container format of a path, as guessed from its name.
type ArchiveKind int

const (
	NotArchive ArchiveKind = iota
	Zip
	Tar
	TarGz
	TarZstd
	TarBzip2
	TarXz
)

func (k ArchiveKind) String() string {
	switch k {
	case NotArchive:
		return "file"
	case Zip:
		return "zip"
	case Tar:
		return "tar"
	case TarGz:
		return "tar.gz"
	case TarZstd:
		return "tar.zst"
	case TarBzip2:
		return "tar.bz2"
	case TarXz:
		return "tar.xz"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// IsArchive reports whether k names a container format.
func (k ArchiveKind) IsArchive() bool {
	return k > NotArchive && k <= TarXz
}

// Classify maps a path to an ArchiveKind using only its trailing extensions.
// It never touches the filesystem, so a directory named "x.tar.gz" classifies
// exactly like a file of that name; callers decide whether the path is a file.
func Classify(path string) ArchiveKind {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	switch strings.TrimPrefix(ext, ".") {
	case "zip":
		return Zip
	case "tar":
		return Tar
	case "tgz", "taz":
		return TarGz
	case "gz":
		return tarOr(stem, TarGz)
	case "zst":
		return tarOr(stem, TarZstd)
	case "bz2":
		return tarOr(stem, TarBzip2)
	case "xz":
		return tarOr(stem, TarXz)
	}
	return NotArchive
}

func tarOr(stem string, kind ArchiveKind) ArchiveKind {
	if strings.HasSuffix(stem, ".tar") {
		return kind
	}
	return NotArchive
}

// EntryLabel joins an archive's display label and the path of an entry
// stored inside it.
func EntryLabel(archiveLabel, entryName string) string {
	return archiveLabel + "/" + strings.TrimLeft(entryName, "/")
}

// ArchiveEntry is one file stored in an archive. Reader is only valid until
// the iteration that produced it advances.
type ArchiveEntry struct {
	Name   string
	Reader io.Reader
}

// Archive streams the file entries of an opened container.
type Archive struct {
	kind    ArchiveKind
	zip     *zip.Reader
	tar     *tar.Reader
	closers []func() error
}

// OpenArchive opens the container at path as the given kind. Decompression
// filters are set up here. An unreadable file or a malformed header is
// reported as ErrArchiveFormat.
func OpenArchive(path string, kind ArchiveKind) (*Archive, error) {
	if !kind.IsArchive() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotArchive)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, formatError(path, err)
	}
	a := &Archive{kind: kind, closers: []func() error{file.Close}}

	if kind == Zip {
		info, err := file.Stat()
		if err != nil {
			a.Close()
			return nil, formatError(path, err)
		}
		a.zip, err = zip.NewReader(file, info.Size())
		if err != nil {
			a.Close()
			return nil, formatError(path, err)
		}
		return a, nil
	}

	stream, err := a.decompress(file)
	if err != nil {
		a.Close()
		return nil, formatError(path, err)
	}
	a.tar = tar.NewReader(stream)
	return a, nil
}

// decompress wraps r in the filter matching the archive kind. Plain tar
// passes through unchanged.
func (a *Archive) decompress(r io.Reader) (io.Reader, error) {
	switch a.kind {
	case Tar:
		return r, nil
	case TarGz:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, gz.Close)
		return gz, nil
	case TarZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error {
			zr.Close()
			return nil
		})
		return zr, nil
	case TarBzip2:
		return bzip2.NewReader(r), nil
	case TarXz:
		return xz.NewReader(r)
	}
	return nil, ErrNotArchive
}

// Kind returns the container format the archive was opened as.
func (a *Archive) Kind() ArchiveKind { return a.kind }

// Entries yields the non-directory entries in stored order. Iteration stops
// after the first error.
func (a *Archive) Entries() iter.Seq2[ArchiveEntry, error] {
	if a.zip != nil {
		return a.zipEntries
	}
	return a.tarEntries
}

func (a *Archive) zipEntries(yield func(ArchiveEntry, error) bool) {
	for _, f := range a.zip.File {
		if strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			yield(ArchiveEntry{}, formatError(f.Name, err))
			return
		}
		more := yield(ArchiveEntry{Name: f.Name, Reader: rc}, nil)
		rc.Close()
		if !more {
			return
		}
	}
}

func (a *Archive) tarEntries(yield func(ArchiveEntry, error) bool) {
	for {
		hdr, err := a.tar.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			yield(ArchiveEntry{}, formatError("tar header", err))
			return
		}
		switch hdr.Typeflag {
		case tar.TypeDir, tar.TypeXGlobalHeader:
			continue
		}
		if !yield(ArchiveEntry{Name: hdr.Name, Reader: a.tar}, nil) {
			return
		}
	}
}

// Close releases the decompressor and the underlying file.
func (a *Archive) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func formatError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrArchiveFormat, what, err)
}
