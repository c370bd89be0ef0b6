// Package archive reads and writes jar archives.
package archive

import (
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArchiveService = (*Service)(nil)

// packTime is stamped on every packed entry so identical trees produce identical archives.
var packTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Service implements ports.ArchiveService with klauspost/compress/zip.
type Service struct{}

// NewService creates a new archive Service.
func NewService() *Service {
	return &Service{}
}

// open opens an archive. Insecure entry names are accepted here and rejected per entry on unpack.
func open(archive string) (*zip.ReadCloser, error) {
	r, err := zip.OpenReader(archive)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, zerr.With(zerr.Wrap(err, "failed to open archive"), "archive", archive)
	}
	return r, nil
}

// ReadEntry returns the content of one entry.
func (s *Service) ReadEntry(archive, name string) ([]byte, bool, error) {
	r, err := open(archive)
	if err != nil {
		return nil, false, err
	}
	defer r.Close() //nolint:errcheck // read-only

	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, zerr.With(zerr.Wrap(err, "failed to open entry"), "entry", name)
		}
		defer rc.Close() //nolint:errcheck // read-only
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false, zerr.With(zerr.Wrap(err, "failed to read entry"), "entry", name)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// Entries yields the names of all entries in archive order.
func (s *Service) Entries(archive string) (iter.Seq[string], error) {
	r, err := open(archive)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	if err := r.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to close archive")
	}
	return slices.Values(names), nil
}

// Unpack extracts archive into dest.
func (s *Service) Unpack(archive, dest string, rewrite ports.RewriteFunc) error {
	r, err := open(archive)
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // read-only

	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create unpack directory"), "path", dest)
	}

	for _, f := range r.File {
		name := f.Name
		if rewrite != nil {
			var keep bool
			if name, keep = rewrite(name); !keep {
				continue
			}
		}

		target, err := domain.ResolveWithin(dest, name)
		if err != nil {
			return err
		}

		if strings.HasSuffix(name, "/") || f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
			continue
		}

		if err := extract(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extract(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(target))
	}

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = domain.FilePerm
	}

	rc, err := f.Open()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open entry"), "entry", f.Name)
	}
	defer rc.Close() //nolint:errcheck // read-only

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode) //nolint:gosec // target is confined to dest
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}
	//nolint:gosec // entries come from local dependency archives
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to extract entry"), "entry", f.Name)
	}
	return out.Close()
}

type packEntry struct {
	name string
	path string
	info fs.FileInfo
}

// Pack writes dir into a new archive at dest. The manifest comes first, the rest sorted by name.
// The archive replaces dest only once it is complete.
func (s *Service) Pack(dir, dest string, opts ports.PackOptions) error {
	entries, err := collect(dir, opts.Exclude)
	if err != nil {
		return err
	}

	manifest, err := s.manifest(dir, opts.Manifest)
	if err != nil {
		return err
	}

	return writeAtomic(dest, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		if err := writeEntries(zw, entries, manifest); err != nil {
			_ = zw.Close()
			return zerr.With(err, "archive", dest)
		}
		if err := zw.Close(); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to finish archive"), "archive", dest)
		}
		return nil
	})
}

// manifest returns the manifest bytes to pack. Without attributes the unpacked
// manifest is kept byte for byte.
func (s *Service) manifest(dir string, attrs map[string]string) ([]byte, error) {
	path := filepath.Join(dir, filepath.FromSlash(domain.ManifestPath))
	data, err := os.ReadFile(path) //nolint:gosec // path is below the packed directory
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}
	if len(attrs) == 0 {
		return data, nil
	}

	m := domain.ParseManifest(data)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		m.Set(k, attrs[k])
	}
	return m.Render(), nil
}

// writeAtomic streams into a temporary file next to dest and renames it into place.
// On failure dest keeps its previous content.
func writeAtomic(dest string, write func(w io.Writer) error) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", dest)
	}
	tmpName := tmp.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close file"), "path", dest)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to set permissions"), "path", dest)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to move file into place"), "path", dest)
	}
	return nil
}

func collect(dir string, exclude []string) ([]packEntry, error) {
	var entries []packEntry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return err
		}
		name := filepath.ToSlash(rel)
		if slices.Contains(exclude, name) || name == domain.ManifestPath {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			name += "/"
		}
		entries = append(entries, packEntry{name: name, path: path, info: info})
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk directory"), "path", dir)
	}
	slices.SortFunc(entries, func(a, b packEntry) int { return strings.Compare(a.name, b.name) })
	return entries, nil
}

func writeEntries(zw *zip.Writer, entries []packEntry, manifest []byte) error {
	if manifest != nil {
		if err := writeDir(zw, "META-INF/", domain.DirPerm); err != nil {
			return err
		}
		if err := writeFile(zw, domain.ManifestPath, domain.FilePerm, strings.NewReader(string(manifest))); err != nil {
			return err
		}
	}

	for _, e := range entries {
		if e.info.IsDir() {
			if manifest != nil && e.name == "META-INF/" {
				continue
			}
			if err := writeDir(zw, e.name, e.info.Mode().Perm()); err != nil {
				return err
			}
			continue
		}
		if err := packFile(zw, e); err != nil {
			return err
		}
	}
	return nil
}

func packFile(zw *zip.Writer, e packEntry) error {
	f, err := os.Open(e.path) //nolint:gosec // path comes from walking the packed directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open file"), "path", e.path)
	}
	defer f.Close() //nolint:errcheck // read-only
	return writeFile(zw, e.name, e.info.Mode().Perm(), f)
}

func writeDir(zw *zip.Writer, name string, perm fs.FileMode) error {
	h := &zip.FileHeader{Name: name, Method: zip.Store, Modified: packTime}
	h.SetMode(fs.ModeDir | perm)
	if _, err := zw.CreateHeader(h); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write entry"), "entry", name)
	}
	return nil
}

func writeFile(zw *zip.Writer, name string, perm fs.FileMode, r io.Reader) error {
	h := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: packTime}
	h.SetMode(perm)
	w, err := zw.CreateHeader(h)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write entry"), "entry", name)
	}
	if _, err := io.Copy(w, r); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write entry"), "entry", name)
	}
	return nil
}

// Copy copies src to dest byte for byte. dest is replaced only once the copy is complete.
func (s *Service) Copy(src, dest string) error {
	in, err := os.Open(src) //nolint:gosec // src is a resolved artifact path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only

	return writeAtomic(dest, func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dest)
		}
		return nil
	})
}
