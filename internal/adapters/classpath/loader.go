// Package classpath loads class files from directories, jars and jmods.
package classpath

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/modpack/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	_ ports.TypeLoader        = (*Loader)(nil)
	_ ports.TypeLoaderFactory = (*Factory)(nil)
)

const (
	classExt = ".class"
	jmodExt  = ".jmod"

	// jmodHeaderSize is the length of the magic preceding the zip data of a jmod file.
	jmodHeaderSize = 4
	// jmodClassesPrefix is the directory holding class files inside a jmod.
	jmodClassesPrefix = "classes/"

	platformPrefix = "java/"
)

// Factory creates Loaders.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// New creates a Loader over roots. Platform types come from jdkHome/jmods when present.
func (f *Factory) New(roots []string, jdkHome string) (ports.TypeLoader, error) {
	l := &Loader{cache: make(map[string]*classfile.Class)}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to open classpath root"), "root", root)
		}
		if info.IsDir() {
			l.sources = append(l.sources, dirSource(root))
			continue
		}
		src, err := openArchive(root, strings.HasSuffix(root, jmodExt))
		if err != nil {
			_ = l.Close()
			return nil, err
		}
		l.sources = append(l.sources, src)
	}

	if err := l.addPlatform(jdkHome); err != nil {
		_ = l.Close()
		return nil, err
	}
	return l, nil
}

type source interface {
	read(internalName string) ([]byte, bool, error)
	close() error
}

// Loader resolves classes by internal name. It is safe for concurrent use.
type Loader struct {
	sources []source

	// platformFallback treats every java/ type as present when no jmods are available.
	platformFallback bool

	mu    sync.Mutex
	cache map[string]*classfile.Class
}

func (l *Loader) addPlatform(jdkHome string) error {
	if jdkHome == "" {
		l.platformFallback = true
		return nil
	}
	jmods, _ := filepath.Glob(filepath.Join(jdkHome, "jmods", "*"+jmodExt))
	if len(jmods) == 0 {
		l.platformFallback = true
		return nil
	}
	slices.Sort(jmods)
	for _, path := range jmods {
		src, err := openArchive(path, true)
		if err != nil {
			return err
		}
		l.sources = append(l.sources, src)
	}
	return nil
}

// Load returns the parsed class.
func (l *Loader) Load(internalName string) (*classfile.Class, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.cache[internalName]; ok {
		return c, nil
	}

	for _, src := range l.sources {
		data, found, err := src.read(internalName)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		c, err := classfile.Parse(data)
		if err != nil {
			return nil, zerr.With(err, "type", internalName)
		}
		l.cache[internalName] = c
		return c, nil
	}

	if l.platformFallback && strings.HasPrefix(internalName, platformPrefix) {
		c := &classfile.Class{Access: classfile.AccPublic, Name: internalName}
		if internalName != classfile.ObjectClass {
			c.SuperName = classfile.ObjectClass
		}
		l.cache[internalName] = c
		return c, nil
	}

	return nil, zerr.With(domain.ErrTypeNotFound, "type", internalName)
}

// Has reports whether a type resolves.
func (l *Loader) Has(internalName string) bool {
	_, err := l.Load(internalName)
	return err == nil
}

// Close releases open archives.
func (l *Loader) Close() error {
	var errs error
	for _, src := range l.sources {
		errs = errors.Join(errs, src.close())
	}
	l.sources = nil
	return errs
}

type dirSource string

func (d dirSource) read(internalName string) ([]byte, bool, error) {
	path := filepath.Join(string(d), filepath.FromSlash(internalName)+classExt)
	data, err := os.ReadFile(path) //nolint:gosec // path is below a configured classpath root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, zerr.With(zerr.Wrap(err, "failed to read class"), "path", path)
	}
	return data, true, nil
}

func (d dirSource) close() error { return nil }

type archiveSource struct {
	file    *os.File
	prefix  string
	entries map[string]*zip.File
}

func openArchive(path string, jmod bool) (*archiveSource, error) {
	f, err := os.Open(path) //nolint:gosec // path is a configured classpath root
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open archive"), "archive", path)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, zerr.With(zerr.Wrap(err, "failed to stat archive"), "archive", path)
	}

	var (
		r      io.ReaderAt = f
		size               = info.Size()
		prefix string
	)
	if jmod {
		if size < jmodHeaderSize {
			_ = f.Close()
			return nil, zerr.With(domain.ErrCorruptArtifact, "archive", path)
		}
		r = io.NewSectionReader(f, jmodHeaderSize, size-jmodHeaderSize)
		size -= jmodHeaderSize
		prefix = jmodClassesPrefix
	}

	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		_ = f.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCorruptArtifact.Error()), "archive", path)
	}

	src := &archiveSource{file: f, prefix: prefix, entries: make(map[string]*zip.File, len(zr.File))}
	for _, zf := range zr.File {
		src.entries[zf.Name] = zf
	}
	return src, nil
}

func (a *archiveSource) read(internalName string) ([]byte, bool, error) {
	zf, ok := a.entries[a.prefix+internalName+classExt]
	if !ok {
		return nil, false, nil
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, "failed to open class entry"), "entry", zf.Name)
	}
	defer rc.Close() //nolint:errcheck // read-only
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, "failed to read class entry"), "entry", zf.Name)
	}
	return data, true, nil
}

func (a *archiveSource) close() error {
	return a.file.Close()
}
