package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "modpack.yaml"

	// DefaultWorkingDir is the working directory used when none is configured.
	DefaultWorkingDir = "build/modpack"

	// UnitsDirName holds the conforming unit archives.
	UnitsDirName = "units"

	// UnpackedDirName holds one unpack directory per inferred or opaque unit.
	UnpackedDirName = "units-unpacked"

	// CopyDirName holds transient copies of source artifacts named after their unit.
	CopyDirName = "units-unpacked-unnamed-copy"

	// AnalysisDirName holds raw analysis tool output.
	AnalysisDirName = "analysis"

	// ImageDirName holds the assembled runtime image.
	ImageDirName = "image"

	// InstallerDirName holds the generated application package.
	InstallerDirName = "installer"

	// DistDirName holds distribution archives.
	DistDirName = "dist"

	// ContainerDirName holds container build context and image id.
	ContainerDirName = "container"

	// ReportFileName is the name of the build report.
	ReportFileName = "report.json"

	// DescriptorSourceName is the descriptor source file name.
	DescriptorSourceName = "module-info.java"

	// DescriptorClassName is the compiled descriptor entry name.
	DescriptorClassName = "module-info.class"

	// ManifestPath is the archive entry holding the manifest.
	ManifestPath = "META-INF/MANIFEST.MF"

	// ServicesPrefix is the directory of service-provision records.
	ServicesPrefix = "META-INF/services/"

	// WebResourcePrefix is the shared web resource directory that gets namespaced per artifact.
	WebResourcePrefix = "META-INF/resources/webjars/"

	// ArchiveExt is the unit archive extension.
	ArchiveExt = ".jar"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout resolves every persisted path below one working directory.
// Presence and modification times of these paths are the only incrementality signal.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

// UnitsDir returns the directory of conforming unit archives.
func (l Layout) UnitsDir() string {
	return filepath.Join(l.Root, UnitsDirName)
}

// OutputPath returns the archive location for a unit name and version.
func (l Layout) OutputPath(name, version string) string {
	return filepath.Join(l.UnitsDir(), name+"-"+version+ArchiveExt)
}

// UnpackedDir returns the unpack directory of a unit.
func (l Layout) UnpackedDir(name string) string {
	return filepath.Join(l.Root, UnpackedDirName, name)
}

// CopyPath returns the transient working copy location of a unit's source artifact.
func (l Layout) CopyPath(name, version string) string {
	return filepath.Join(l.Root, CopyDirName, name+"-"+version+ArchiveExt)
}

// AnalysisDir returns the directory the analysis tool writes into for a unit.
func (l Layout) AnalysisDir(name string) string {
	return filepath.Join(l.Root, AnalysisDirName, name)
}

// DescriptorSourcePath returns where a unit's descriptor source is placed.
func (l Layout) DescriptorSourcePath(name string) string {
	return filepath.Join(l.UnpackedDir(name), DescriptorSourceName)
}

// ImageDir returns the runtime image directory.
func (l Layout) ImageDir() string {
	return filepath.Join(l.Root, ImageDirName)
}

// InstallerDir returns the application package directory.
func (l Layout) InstallerDir() string {
	return filepath.Join(l.Root, InstallerDirName)
}

// DistPath returns the distribution archive path.
func (l Layout) DistPath(name, version string) string {
	return filepath.Join(l.Root, DistDirName, name+"-"+version+".zip")
}

// ContainerDir returns the container build context directory.
func (l Layout) ContainerDir() string {
	return filepath.Join(l.Root, ContainerDirName)
}

// ContainerIDPath returns the file the container image id is written to.
func (l Layout) ContainerIDPath() string {
	return filepath.Join(l.ContainerDir(), "image.id")
}

// ReportPath returns the build report location.
func (l Layout) ReportPath() string {
	return filepath.Join(l.Root, ReportFileName)
}

// ResolveWithin joins an archive entry name under root.
// It fails with ErrEntryEscapesRoot if the result would leave root.
func ResolveWithin(root, entry string) (string, error) {
	root = filepath.Clean(root)
	target := filepath.Join(root, filepath.FromSlash(entry))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", zerr.With(zerr.With(ErrEntryEscapesRoot, "entry", entry), "root", root)
	}
	return target, nil
}
