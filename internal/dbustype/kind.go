// Package dbustype implements the type-driven marshal/dispatch code
// synthesis engine: the closed catalog of D-Bus wire types (component A),
// the per-argument type node that knows its own signature, variables,
// locals, and marshal/dispatch code blocks (component B), and the ordered
// group that concatenates those over an argument list (component C).
//
// Variant (v), struct ((..)) and dict-entry ({..}) are explicitly deferred
// per spec.md §1 Non-goals; constructing a Kind for one of those signature
// characters returns an error rather than guessing at semantics.
package dbustype

import "fmt"

// id enumerates the closed set of D-Bus types this engine understands.
type id int

const (
	idByte id = iota
	idBool
	idInt16
	idUInt16
	idInt32
	idUInt32
	idInt64
	idUInt64
	idDouble
	idString
	idObjectPath
	idSignature
	idArray
)

// attrs holds the three static attributes spec.md §4.A requires of every
// non-array kind: its one-character wire code, the wire-enum identifier
// emitted into generated code, and its native (C) type spelling.
type attrs struct {
	code    byte
	wire    string
	cType   string
	display string
}

var catalog = map[id]attrs{
	idByte:       {'y', "DBUS_TYPE_BYTE", "uint8_t", "byte"},
	idBool:       {'b', "DBUS_TYPE_BOOLEAN", "int", "bool"},
	idInt16:      {'n', "DBUS_TYPE_INT16", "int16_t", "int16"},
	idUInt16:     {'q', "DBUS_TYPE_UINT16", "uint16_t", "uint16"},
	idInt32:      {'i', "DBUS_TYPE_INT32", "int32_t", "int32"},
	idUInt32:     {'u', "DBUS_TYPE_UINT32", "uint32_t", "uint32"},
	idInt64:      {'x', "DBUS_TYPE_INT64", "int64_t", "int64"},
	idUInt64:     {'t', "DBUS_TYPE_UINT64", "uint64_t", "uint64"},
	idDouble:     {'d', "DBUS_TYPE_DOUBLE", "double", "double"},
	idString:     {'s', "DBUS_TYPE_STRING", "char *", "string"},
	idObjectPath: {'o', "DBUS_TYPE_OBJECT_PATH", "char *", "object path"},
	idSignature:  {'g', "DBUS_TYPE_SIGNATURE", "char *", "signature"},
}

// stringLike reports whether id is one of the three string-derived types
// that share marshal/dispatch code (spec.md §4.B String-like marshal/dispatch).
func (k id) stringLike() bool {
	return k == idString || k == idObjectPath || k == idSignature
}

func (k id) scalar() bool {
	_, ok := catalog[k]
	return ok && !k.stringLike()
}

// Kind is a node in the closed TypeKind sum described in spec.md §3: one of
// the 8 scalars, the 3 string-like types, or Array(Kind).
//
// Kind values are immutable. Kind has no equality method: an array Kind
// holds its element by pointer, so == on two separately built array Kinds
// compares element identity, not structure; Signature() gives a structural
// comparison. The zero Kind is not a valid type and every exported
// constructor returns a fully formed value.
type Kind struct {
	id   id
	elem *Kind // non-nil iff id == idArray
}

var (
	// Byte is the D-Bus "y" type.
	Byte = Kind{id: idByte}
	// Bool is the D-Bus "b" type.
	Bool = Kind{id: idBool}
	// Int16 is the D-Bus "n" type.
	Int16 = Kind{id: idInt16}
	// UInt16 is the D-Bus "q" type.
	UInt16 = Kind{id: idUInt16}
	// Int32 is the D-Bus "i" type.
	Int32 = Kind{id: idInt32}
	// UInt32 is the D-Bus "u" type.
	UInt32 = Kind{id: idUInt32}
	// Int64 is the D-Bus "x" type.
	Int64 = Kind{id: idInt64}
	// UInt64 is the D-Bus "t" type.
	UInt64 = Kind{id: idUInt64}
	// Double is the D-Bus "d" type.
	Double = Kind{id: idDouble}
	// String is the D-Bus "s" type.
	String = Kind{id: idString}
	// ObjectPath is the D-Bus "o" type.
	ObjectPath = Kind{id: idObjectPath}
	// Signature is the D-Bus "g" type.
	Signature = Kind{id: idSignature}
)

// UnsupportedError reports a signature character, or a combination of
// kinds, that this engine deliberately does not support (spec.md §1
// Non-goals, §7 "errors are fatal and synchronous").
type UnsupportedError struct {
	Signature string
	Reason    string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported D-Bus signature %q: %s", e.Signature, e.Reason)
}

// ArrayOf constructs the array-of-elem Kind, enforcing the single-variable
// invariant from spec.md §3: "An array's element type is a single-variable
// type; arrays of multi-variable types are rejected at construction."
func ArrayOf(elem Kind) (Kind, error) {
	if varCount(elem) != 1 {
		return Kind{}, &UnsupportedError{
			Signature: "a" + elem.Signature(),
			Reason:    "element type requires more than one variable; the length field would be lost",
		}
	}
	e := elem
	return Kind{id: idArray, elem: &e}, nil
}

// varCount returns how many (type, identifier) pairs Vars() reports for the
// *unmodified* (no pointer/const) form of k. Scalars and string-likes always
// report 1; arrays report 1 iff their element is pointer-typed (NUL
// terminable), else 2.
func varCount(k Kind) int {
	if k.id == idArray {
		if k.elem.cType().hasPointerSuffix() {
			return 1
		}
		return 2
	}
	return 1
}

// IsArray reports whether k is Array(elem) for some elem.
func (k Kind) IsArray() bool { return k.id == idArray }

// Elem returns the element kind of an array Kind. Panics if k is not an
// array; callers must check IsArray first.
func (k Kind) Elem() Kind {
	if k.id != idArray {
		panic("dbustype: Elem called on non-array Kind")
	}
	return *k.elem
}

// Signature returns the D-Bus wire signature for k: scalars and
// string-likes return their one-character code, Array(elem) returns "a"
// followed by elem's own signature (spec.md §4.B).
func (k Kind) Signature() string {
	if k.id == idArray {
		return "a" + k.elem.Signature()
	}
	return string(catalog[k.id].code)
}

// WireEnum returns the textual wire-type constant emitted into generated
// code (e.g. "DBUS_TYPE_INT32"). Array returns "DBUS_TYPE_ARRAY"; callers
// that need the element's wire enum use Elem().WireEnum().
func (k Kind) WireEnum() string {
	if k.id == idArray {
		return "DBUS_TYPE_ARRAY"
	}
	return catalog[k.id].wire
}

// baseCType is the unmodified native type spelling for k, without any
// pointer/const modifiers applied.
func (k Kind) baseCType() cType {
	if k.id == idArray {
		return k.elem.baseCType().pointerified()
	}
	return cType(catalog[k.id].cType)
}

// cType returns the unmodified native type spelling. Used internally by
// node.go and varCount.
func (k Kind) cType() cType { return k.baseCType() }

func (k Kind) stringLike() bool { return k.id.stringLike() }
func (k Kind) scalar() bool     { return k.id.scalar() }

// displayName is used only in diagnostics/comments, never in wire-critical
// generated code.
func (k Kind) displayName() string {
	if k.id == idArray {
		return "array of " + k.elem.displayName()
	}
	return catalog[k.id].display
}
