package ports

import "iter"

// RewriteFunc maps an archive entry name to its destination name.
// Returning false drops the entry.
type RewriteFunc func(name string) (string, bool)

// PackOptions configures archive creation.
type PackOptions struct {
	// Exclude lists entry names (slash separated, relative to the packed directory) to leave out.
	Exclude []string
	// Manifest holds main attributes merged into META-INF/MANIFEST.MF.
	Manifest map[string]string
}

// ArchiveService reads and writes jar/zip archives.
//
//go:generate go run go.uber.org/mock/mockgen -source=archive.go -destination=mocks/mock_archive.go -package=mocks
type ArchiveService interface {
	// ReadEntry returns the content of one entry. found is false when the entry does not exist.
	ReadEntry(archive, name string) (data []byte, found bool, err error)

	// Entries yields the names of all entries.
	Entries(archive string) (iter.Seq[string], error)

	// Unpack extracts the archive into dest. Every entry is passed through rewrite when non-nil.
	// Entries that would land outside dest fail with domain.ErrEntryEscapesRoot.
	Unpack(archive, dest string, rewrite RewriteFunc) error

	// Pack writes the contents of dir into a new archive at dest, entries sorted by name.
	Pack(dir, dest string, opts PackOptions) error

	// Copy copies a file, creating parent directories.
	Copy(src, dest string) error
}
