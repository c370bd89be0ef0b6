// Package classfiletest builds class files and jars for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
	"go.trai.ch/modpack/internal/classfile"
	"go.trai.ch/modpack/internal/core/domain"
)

// MainDescriptor is the descriptor of a launcher method.
const MainDescriptor = "([Ljava/lang/String;)V"

// Method describes a method to emit.
type Method struct {
	Name       string
	Descriptor string
	Access     uint16
}

// Class describes a class to emit. Names use the internal form.
// An empty Super defaults to java/lang/Object; use NoSuper for none.
type Class struct {
	Name       string
	Super      string
	Access     uint16
	Interfaces []string
	Methods    []Method
}

// NoSuper marks a class without a superclass (only java/lang/Object has none).
const NoSuper = "-"

type poolBuilder struct {
	buf     bytes.Buffer
	count   uint16
	indexes map[string]uint16
}

func newPool() *poolBuilder {
	return &poolBuilder{count: 1, indexes: make(map[string]uint16)}
}

func (p *poolBuilder) utf8(s string) uint16 {
	key := "u:" + s
	if i, ok := p.indexes[key]; ok {
		return i
	}
	p.buf.WriteByte(1)
	_ = binary.Write(&p.buf, binary.BigEndian, uint16(len(s)))
	p.buf.WriteString(s)
	return p.add(key)
}

func (p *poolBuilder) ref(tag uint8, s string) uint16 {
	key := string(rune('0'+tag)) + ":" + s
	if i, ok := p.indexes[key]; ok {
		return i
	}
	name := p.utf8(s)
	p.buf.WriteByte(tag)
	_ = binary.Write(&p.buf, binary.BigEndian, name)
	return p.add(key)
}

func (p *poolBuilder) class(s string) uint16 { return p.ref(7, s) }

func (p *poolBuilder) module(s string) uint16 { return p.ref(19, s) }

func (p *poolBuilder) pkg(s string) uint16 { return p.ref(20, s) }

func (p *poolBuilder) add(key string) uint16 {
	i := p.count
	p.indexes[key] = i
	p.count++
	return i
}

type body struct{ bytes.Buffer }

func (b *body) u2(v uint16) { _ = binary.Write(&b.Buffer, binary.BigEndian, v) }
func (b *body) u4(v uint32) { _ = binary.Write(&b.Buffer, binary.BigEndian, v) }

func assemble(pool *poolBuilder, rest []byte) []byte {
	var out body
	out.u4(0xCAFEBABE)
	out.u2(0)
	out.u2(65)
	out.u2(pool.count)
	out.Write(pool.buf.Bytes())
	out.Write(rest)
	return out.Bytes()
}

// Bytes encodes the class.
func (c Class) Bytes() []byte {
	pool := newPool()
	var b body

	access := c.Access
	if access == 0 {
		access = classfile.AccPublic
	}
	b.u2(access)
	b.u2(pool.class(c.Name))
	switch c.Super {
	case NoSuper:
		b.u2(0)
	case "":
		b.u2(pool.class(classfile.ObjectClass))
	default:
		b.u2(pool.class(c.Super))
	}
	b.u2(uint16(len(c.Interfaces)))
	for _, iface := range c.Interfaces {
		b.u2(pool.class(iface))
	}
	b.u2(0) // fields
	b.u2(uint16(len(c.Methods)))
	for _, m := range c.Methods {
		b.u2(m.Access)
		b.u2(pool.utf8(m.Name))
		b.u2(pool.utf8(m.Descriptor))
		b.u2(0)
	}
	b.u2(0) // attributes
	return assemble(pool, b.Bytes())
}

// MainClass returns a public class declaring public static void main(String[]).
func MainClass(name string) []byte {
	return Class{
		Name:    name,
		Methods: []Method{{Name: "main", Descriptor: MainDescriptor, Access: classfile.AccPublic | classfile.AccStatic}},
	}.Bytes()
}

// ModuleInfo encodes a module-info class carrying the descriptor as its Module attribute.
// Package and class names in the descriptor use the dotted form.
func ModuleInfo(d domain.Descriptor) []byte {
	pool := newPool()
	var attr body

	attr.u2(pool.module(d.Name))
	var flags uint16
	if d.Open {
		flags |= classfile.AccOpen
	}
	attr.u2(flags)
	if d.Version != "" {
		attr.u2(pool.utf8(d.Version))
	} else {
		attr.u2(0)
	}

	attr.u2(uint16(len(d.Requires)))
	for _, r := range d.Requires {
		attr.u2(pool.module(r.Name))
		var rf uint16
		if slices.Contains(r.Modifiers, "transitive") {
			rf |= classfile.AccTransitive
		}
		if slices.Contains(r.Modifiers, "static") {
			rf |= classfile.AccStaticPhase
		}
		attr.u2(rf)
		attr.u2(0)
	}
	for _, list := range [][]domain.Directive{d.Exports, d.Opens} {
		attr.u2(uint16(len(list)))
		for _, e := range list {
			attr.u2(pool.pkg(classfile.ToInternal(e.Name)))
			attr.u2(0)
			attr.u2(uint16(len(e.Targets)))
			for _, t := range e.Targets {
				attr.u2(pool.module(t))
			}
		}
	}
	attr.u2(uint16(len(d.Uses)))
	for _, u := range d.Uses {
		attr.u2(pool.class(classfile.ToInternal(u.Name)))
	}
	attr.u2(uint16(len(d.Provides)))
	for _, p := range d.Provides {
		attr.u2(pool.class(classfile.ToInternal(p.Name)))
		attr.u2(uint16(len(p.Targets)))
		for _, t := range p.Targets {
			attr.u2(pool.class(classfile.ToInternal(t)))
		}
	}

	var b body
	b.u2(classfile.AccModule)
	b.u2(pool.class("module-info"))
	b.u2(0) // super
	b.u2(0) // interfaces
	b.u2(0) // fields
	b.u2(0) // methods
	b.u2(1)
	b.u2(pool.utf8("Module"))
	b.u4(uint32(attr.Len()))
	b.Write(attr.Bytes())
	return assemble(pool, b.Bytes())
}

// Manifest returns manifest bytes carrying the given main attributes.
func Manifest(attrs ...string) []byte {
	var m domain.Manifest
	for i := 0; i+1 < len(attrs); i += 2 {
		m.Set(attrs[i], attrs[i+1])
	}
	return m.Render()
}

// WriteJar writes a jar with the given entries, sorted by name, and returns its path.
func WriteJar(tb testing.TB, path string, entries map[string][]byte) string {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		tb.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create jar: %v", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write(entries[name]); err != nil {
			tb.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("close jar: %v", err)
	}
	return path
}

// WriteTree writes files below root, creating parent directories.
func WriteTree(tb testing.TB, root string, files map[string][]byte) {
	tb.Helper()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			tb.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, data, 0o600); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}
