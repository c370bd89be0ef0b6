// Package classfile reads the parts of JVM class files the pipeline needs:
// the type hierarchy, method signatures and the Module attribute.
package classfile

import (
	"encoding/binary"
	"strings"

	"go.trai.ch/modpack/internal/core/domain"
	"go.trai.ch/zerr"
)

const magic = 0xCAFEBABE

// Access flags.
const (
	AccPublic    uint16 = 0x0001
	AccStatic    uint16 = 0x0008
	AccOpen      uint16 = 0x0020
	AccInterface uint16 = 0x0200
	AccAbstract  uint16 = 0x0400
	AccModule    uint16 = 0x8000

	// Requires flags.
	AccTransitive  uint16 = 0x0020
	AccStaticPhase uint16 = 0x0040
	AccMandated    uint16 = 0x8000
)

// ObjectClass is the internal name of the root of every class hierarchy.
const ObjectClass = "java/lang/Object"

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Method is a declared method.
type Method struct {
	Name       string
	Descriptor string
	Access     uint16
}

// IsPublic reports whether the method is public.
func (m Method) IsPublic() bool { return m.Access&AccPublic != 0 }

// IsStatic reports whether the method is static.
func (m Method) IsStatic() bool { return m.Access&AccStatic != 0 }

// Class is a decoded class file. Type names use the internal form (com/example/Main).
type Class struct {
	Access     uint16
	Name       string
	SuperName  string
	Interfaces []string
	Methods    []Method

	// Module is set for module-info classes.
	Module *domain.Descriptor
}

// IsPublic reports whether the class is public.
func (c *Class) IsPublic() bool { return c.Access&AccPublic != 0 }

// IsModuleInfo reports whether the class is a module descriptor.
func (c *Class) IsModuleInfo() bool { return c.Access&AccModule != 0 }

// DottedName returns the binary name with '.' separators.
func (c *Class) DottedName() string { return ToDotted(c.Name) }

// ToDotted converts an internal name to its dotted form.
func ToDotted(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}

// ToInternal converts a dotted name to its internal form.
func ToInternal(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

type constant struct {
	tag   uint8
	utf8  string
	index uint16
}

type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.pos+n > len(r.data) {
		r.err = zerr.With(domain.ErrInvalidClassFile, "reason", "truncated")
		return false
	}
	return true
}

func (r *reader) u1() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *reader) u2() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *reader) u4() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	v := r.data[r.pos : r.pos+n]
	r.pos += n
	return v
}

type pool []constant

func (p pool) utf8(i uint16) (string, error) {
	if int(i) >= len(p) || p[i].tag != tagUtf8 {
		return "", zerr.With(zerr.With(domain.ErrInvalidClassFile, "reason", "expected utf8 constant"), "index", i)
	}
	return p[i].utf8, nil
}

// named resolves a Class, Module or Package constant to its name.
func (p pool) named(i uint16, tag uint8) (string, error) {
	if int(i) >= len(p) || p[i].tag != tag {
		return "", zerr.With(zerr.With(domain.ErrInvalidClassFile, "reason", "unexpected constant tag"), "index", i)
	}
	return p.utf8(p[i].index)
}

// Parse decodes a class file.
func Parse(data []byte) (*Class, error) {
	r := &reader{data: data}
	if r.u4() != magic {
		if r.err != nil {
			return nil, r.err
		}
		return nil, zerr.With(domain.ErrInvalidClassFile, "reason", "bad magic")
	}
	r.u2() // minor
	r.u2() // major

	cp, err := readPool(r)
	if err != nil {
		return nil, err
	}

	c := &Class{Access: r.u2()}
	thisIdx := r.u2()
	superIdx := r.u2()
	if r.err != nil {
		return nil, r.err
	}

	if c.Access&AccModule != 0 {
		c.Name = "module-info"
	} else {
		if c.Name, err = cp.named(thisIdx, tagClass); err != nil {
			return nil, err
		}
		if superIdx != 0 {
			if c.SuperName, err = cp.named(superIdx, tagClass); err != nil {
				return nil, err
			}
		}
	}

	for range r.u2() {
		name, err := cp.named(r.u2(), tagClass)
		if err != nil {
			return nil, err
		}
		c.Interfaces = append(c.Interfaces, name)
	}

	// Fields are skipped.
	for range r.u2() {
		r.u2()
		r.u2()
		r.u2()
		if err := skipAttributes(r); err != nil {
			return nil, err
		}
	}

	for range r.u2() {
		m := Method{Access: r.u2()}
		if m.Name, err = cp.utf8(r.u2()); err != nil {
			return nil, err
		}
		if m.Descriptor, err = cp.utf8(r.u2()); err != nil {
			return nil, err
		}
		if err := skipAttributes(r); err != nil {
			return nil, err
		}
		c.Methods = append(c.Methods, m)
	}

	for range r.u2() {
		name, err := cp.utf8(r.u2())
		if err != nil {
			return nil, err
		}
		body := r.bytes(int(r.u4()))
		if r.err != nil {
			return nil, r.err
		}
		if name == "Module" {
			d, err := readModule(cp, body)
			if err != nil {
				return nil, err
			}
			c.Module = &d
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}

func readPool(r *reader) (pool, error) {
	count := r.u2()
	cp := make(pool, count)
	for i := 1; i < int(count); i++ {
		tag := r.u1()
		c := constant{tag: tag}
		switch tag {
		case tagUtf8:
			c.utf8 = decodeModifiedUTF8(r.bytes(int(r.u2())))
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			c.index = r.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.u4()
		case tagMethodHandle:
			r.u1()
			r.u2()
		case tagLong, tagDouble:
			r.bytes(8)
			cp[i] = c
			i++ // eight-byte constants take two slots
			continue
		default:
			if r.err == nil {
				return nil, zerr.With(zerr.With(domain.ErrInvalidClassFile, "reason", "unknown constant tag"), "tag", tag)
			}
		}
		if r.err != nil {
			return nil, r.err
		}
		cp[i] = c
	}
	return cp, r.err
}

func skipAttributes(r *reader) error {
	for range r.u2() {
		r.u2()
		r.bytes(int(r.u4()))
	}
	return r.err
}

func readModule(cp pool, body []byte) (domain.Descriptor, error) {
	r := &reader{data: body}
	var d domain.Descriptor
	var err error

	if d.Name, err = cp.named(r.u2(), tagModule); err != nil {
		return d, err
	}
	d.Open = r.u2()&AccOpen != 0
	if v := r.u2(); v != 0 {
		if d.Version, err = cp.utf8(v); err != nil {
			return d, err
		}
	}

	for range r.u2() {
		name, err := cp.named(r.u2(), tagModule)
		if err != nil {
			return d, err
		}
		flags := r.u2()
		r.u2() // requires_version_index
		if flags&AccMandated != 0 {
			continue
		}
		dir := domain.Directive{Kind: domain.Requires, Name: name}
		if flags&AccTransitive != 0 {
			dir.Modifiers = append(dir.Modifiers, "transitive")
		}
		if flags&AccStaticPhase != 0 {
			dir.Modifiers = append(dir.Modifiers, "static")
		}
		d.Add(dir)
	}

	for _, kind := range []domain.DirectiveKind{domain.Exports, domain.Opens} {
		for range r.u2() {
			pkg, err := cp.named(r.u2(), tagPackage)
			if err != nil {
				return d, err
			}
			r.u2() // flags
			dir := domain.Directive{Kind: kind, Name: ToDotted(pkg)}
			for range r.u2() {
				target, err := cp.named(r.u2(), tagModule)
				if err != nil {
					return d, err
				}
				dir.Targets = append(dir.Targets, target)
			}
			d.Add(dir)
		}
	}

	for range r.u2() {
		svc, err := cp.named(r.u2(), tagClass)
		if err != nil {
			return d, err
		}
		d.Add(domain.Directive{Kind: domain.Uses, Name: ToDotted(svc)})
	}

	for range r.u2() {
		svc, err := cp.named(r.u2(), tagClass)
		if err != nil {
			return d, err
		}
		dir := domain.Directive{Kind: domain.Provides, Name: ToDotted(svc)}
		for range r.u2() {
			impl, err := cp.named(r.u2(), tagClass)
			if err != nil {
				return d, err
			}
			dir.Targets = append(dir.Targets, ToDotted(impl))
		}
		d.Add(dir)
	}

	return d, r.err
}

// decodeModifiedUTF8 decodes the class file string encoding. Supplementary
// characters arrive as surrogate pairs and are kept as such.
func decodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			sb.WriteByte(c)
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			sb.WriteRune(rune(c&0x1F)<<6 | rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			sb.WriteRune(rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F))
			i += 3
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// MethodTypes returns the object types referenced by a method descriptor,
// parameters first, then the return type. Array element types are included.
func MethodTypes(descriptor string) ([]string, error) {
	if !strings.HasPrefix(descriptor, "(") {
		return nil, zerr.With(domain.ErrInvalidClassFile, "descriptor", descriptor)
	}
	var types []string
	for i := 1; i < len(descriptor); i++ {
		switch descriptor[i] {
		case ')', '[', 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 'V':
		case 'L':
			end := strings.IndexByte(descriptor[i:], ';')
			if end < 0 {
				return nil, zerr.With(domain.ErrInvalidClassFile, "descriptor", descriptor)
			}
			types = append(types, descriptor[i+1:i+end])
			i += end
		default:
			return nil, zerr.With(domain.ErrInvalidClassFile, "descriptor", descriptor)
		}
	}
	return types, nil
}
