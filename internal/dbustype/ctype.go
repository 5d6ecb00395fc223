package dbustype

import "strings"

// cType is a native C type spelling. The two helpers below mirror the
// original tool's pointerify/constify functions exactly (including the
// "double pointer" and "pointer-to-const" spacing rules), since generated
// code is compared structurally but still needs to read like hand-written C.
type cType string

func (t cType) hasPointerSuffix() bool {
	return strings.HasSuffix(string(t), "*")
}

// pointerified returns the type turned into a pointer to itself.
func (t cType) pointerified() cType {
	if t.hasPointerSuffix() {
		return t + "*"
	}
	return t + " *"
}

// constified returns the type with its outermost pointer turned const. Has
// no effect on non-pointer types.
func (t cType) constified() cType {
	if !t.hasPointerSuffix() {
		return t
	}
	inner := t[:len(t)-1]
	if inner.hasPointerSuffix() {
		return inner + " const *"
	}
	return "const " + t
}

// modified applies the pointer/const modifiers described in spec.md §3 in
// the same order the original tool does: pointer first, then const.
func (t cType) modified(pointer, constM bool) cType {
	if pointer {
		t = t.pointerified()
	}
	if constM {
		t = t.constified()
	}
	return t
}

func (t cType) String() string { return string(t) }
