package util

import (
	"archive/tar"
	"bytes"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// fixtureEntry is one member of a test archive; an empty body with a
// trailing slash in the name is written as a directory entry.
type fixtureEntry struct {
	name string
	body string
}

var fixtureEntries = []fixtureEntry{
	{"file.txt", "hello\n"},
	{"directory/", ""},
	{"directory/file.txt", "world\n"},
	{".hidden_file.txt", "hidden\n"},
}

// md5 of the fixture bodies, in stored order, directories excluded
var fixtureDigests = []struct{ name, md5 string }{
	{"file.txt", "b1946ac92492d2347c6235b4d2611184"},
	{"directory/file.txt", "591785b794601e212b260e25925636fd"},
	{".hidden_file.txt", "52eaf68fadf470e9c993efb54a26ba35"},
}

func writeZip(t *testing.T, w io.Writer, entries []fixtureEntry) {
	t.Helper()
	zw := zip.NewWriter(w)
	for _, e := range entries {
		fw, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func writeTar(t *testing.T, w io.Writer, entries []fixtureEntry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:    e.name,
			Mode:    0o644,
			Size:    int64(len(e.body)),
			ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		if e.name[len(e.name)-1] == '/' {
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := io.WriteString(tw, e.body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
}

// buildArchive writes the entries into dir/name encoded as kind. TarBzip2
// has no encoder in the stack and is served from testdata instead.
func buildArchive(t *testing.T, dir, name string, kind ArchiveKind, entries []fixtureEntry) string {
	t.Helper()
	path := filepath.Join(dir, name)

	if kind == TarBzip2 {
		data, err := os.ReadFile(filepath.Join("testdata", "archive.tar.bz2"))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}

	var buf bytes.Buffer
	switch kind {
	case Zip:
		writeZip(t, &buf, entries)
	case Tar:
		writeTar(t, &buf, entries)
	case TarGz:
		gw := gzip.NewWriter(&buf)
		writeTar(t, gw, entries)
		require.NoError(t, gw.Close())
	case TarZstd:
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		writeTar(t, zw, entries)
		require.NoError(t, zw.Close())
	case TarXz:
		xw, err := xz.NewWriter(&buf)
		require.NoError(t, err)
		writeTar(t, xw, entries)
		require.NoError(t, xw.Close())
	default:
		t.Fatalf("no fixture encoder for %s", kind)
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want ArchiveKind
	}{
		{"archive.zip", Zip},
		{"archive.tar", Tar},
		{"archive.tar.gz", TarGz},
		{"archive.tgz", TarGz},
		{"archive.taz", TarGz},
		{"archive.tar.zst", TarZstd},
		{"archive.tar.bz2", TarBzip2},
		{"archive.tar.xz", TarXz},
		{"dir/sub/archive.tar.xz", TarXz},
		{"plain.txt", NotArchive},
		{"archive.gz", NotArchive},
		{"archive.zst", NotArchive},
		{"archive.bz2", NotArchive},
		{"archive.xz", NotArchive},
		{"archive.ZIP", NotArchive},
		{"archive.TAR.gz", NotArchive},
		{"tarball.gz", NotArchive},
		{"noextension", NotArchive},
		{"dir.zip/file.txt", NotArchive},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestArchiveKindString(t *testing.T) {
	assert.Equal(t, "file", NotArchive.String())
	assert.Equal(t, "tar.zst", TarZstd.String())
	assert.False(t, NotArchive.IsArchive())
	assert.True(t, TarXz.IsArchive())
	assert.False(t, ArchiveKind(42).IsArchive())
}

func TestEntryLabel(t *testing.T) {
	assert.Equal(t, "archive.zip/file.txt", EntryLabel("archive.zip", "file.txt"))
	assert.Equal(t, "./a.tar/dir/x", EntryLabel("./a.tar", "dir/x"))
	assert.Equal(t, "a.tar/etc/passwd", EntryLabel("a.tar", "/etc/passwd"))
}

func TestOpenArchive_EntriesInStoredOrder(t *testing.T) {
	kinds := []struct {
		name string
		kind ArchiveKind
	}{
		{"archive.zip", Zip},
		{"archive.tar", Tar},
		{"archive.tar.gz", TarGz},
		{"archive.tar.zst", TarZstd},
		{"archive.tar.bz2", TarBzip2},
		{"archive.tar.xz", TarXz},
	}

	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			path := buildArchive(t, t.TempDir(), k.name, k.kind, fixtureEntries)
			require.Equal(t, k.kind, Classify(path))

			a, err := OpenArchive(path, k.kind)
			require.NoError(t, err)
			defer a.Close()

			d, err := NewDigester(MD5, 2)
			require.NoError(t, err)

			var got []struct{ name, md5 string }
			for entry, err := range a.Entries() {
				require.NoError(t, err)
				sum, _, err := d.Digest(entry.Reader)
				require.NoError(t, err)
				got = append(got, struct{ name, md5 string }{entry.Name, hex.EncodeToString(sum)})
			}
			assert.Equal(t, fixtureDigests, got)
		})
	}
}

func TestOpenArchive_EntryDigestMatchesPlainFile(t *testing.T) {
	dir := t.TempDir()
	body := bytes.Repeat([]byte("0123456789abcdef"), 70000)
	plain := filepath.Join(dir, "plain.bin")
	require.NoError(t, os.WriteFile(plain, body, 0o644))

	d, err := NewDigester(SHA256, 4096)
	require.NoError(t, err)
	sum, _, err := d.DigestFile(plain)
	require.NoError(t, err)
	want := hex.EncodeToString(sum)

	entries := []fixtureEntry{{"plain.bin", string(body)}}
	for _, kind := range []ArchiveKind{Zip, Tar, TarGz, TarZstd, TarXz} {
		path := buildArchive(t, dir, "single."+kind.String(), kind, entries)

		a, err := OpenArchive(path, kind)
		require.NoError(t, err)
		for entry, err := range a.Entries() {
			require.NoError(t, err)
			sum, n, err := d.Digest(entry.Reader)
			require.NoError(t, err)
			assert.Equal(t, want, hex.EncodeToString(sum), kind.String())
			assert.Equal(t, int64(len(body)), n)
		}
		require.NoError(t, a.Close())
	}
}

func TestOpenArchive_Malformed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bad.zip", "bad.tar", "bad.tar.gz", "bad.tar.zst", "bad.tar.bz2", "bad.tar.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("this is not an archive at all"), 0o644))

			a, err := OpenArchive(path, Classify(path))
			if err != nil {
				assert.ErrorIs(t, err, ErrArchiveFormat)
				return
			}
			defer a.Close()

			// some decoders only notice corruption on first read
			d, derr := NewDigester(MD5, 16)
			require.NoError(t, derr)
			var failed bool
			for entry, err := range a.Entries() {
				if err != nil {
					failed = true
					break
				}
				if _, _, err := d.Digest(entry.Reader); err != nil {
					failed = true
					break
				}
			}
			assert.True(t, failed, "expected %s to fail", name)
		})
	}
}

func TestOpenArchive_TruncatedTar(t *testing.T) {
	var buf bytes.Buffer
	writeTar(t, &buf, fixtureEntries)
	path := filepath.Join(t.TempDir(), "cut.tar")
	require.NoError(t, os.WriteFile(path, buf.Bytes()[:700], 0o644))

	a, err := OpenArchive(path, Tar)
	require.NoError(t, err)
	defer a.Close()

	d, err := NewDigester(MD5, 16)
	require.NoError(t, err)

	var sawError bool
	for entry, err := range a.Entries() {
		if err != nil {
			sawError = true
			break
		}
		if _, _, err := d.Digest(entry.Reader); err != nil {
			sawError = true
			break
		}
	}
	assert.True(t, sawError)
}

func TestOpenArchive_RejectsNonArchive(t *testing.T) {
	_, err := OpenArchive("plain.txt", NotArchive)
	assert.ErrorIs(t, err, ErrNotArchive)
}

func TestOpenArchive_MissingFile(t *testing.T) {
	for _, kind := range []ArchiveKind{Zip, TarGz} {
		_, err := OpenArchive(filepath.Join(t.TempDir(), "missing"), kind)
		assert.ErrorIs(t, err, ErrArchiveFormat, kind.String())
		assert.ErrorIs(t, err, os.ErrNotExist, kind.String())
	}
}
