package dbustype

import "fmt"

// Modifiers carries the (pointer, const) pair spec.md §3 says is applied
// uniformly within a TypeGroup. Both default to false.
type Modifiers struct {
	Pointer bool
	Const   bool
}

// Node is a TypeKind bound to a variable name (spec.md §3). Node carries no
// direction (member.Arg pairs a Node with its direction);
// Signature/Vars/Locals/Marshal/Dispatch all operate purely on Kind + Name +
// the caller-supplied Modifiers.
type Node struct {
	Kind Kind
	Name string
}

// NewNode binds kind to a base identifier. The name is the root every
// derived identifier (name_value, name_iter, name_len, name_elem, name_p)
// is built from (spec.md §3).
func NewNode(kind Kind, name string) Node {
	return Node{Kind: kind, Name: name}
}

func (n Node) elemNode() Node {
	return NewNode(n.Kind.Elem(), n.Name+"_elem")
}

func (n Node) iterName() string { return n.Name + "_iter" }
func (n Node) lenName() string  { return n.Name + "_len" }
func (n Node) loopName() string { return n.Name + "_p" }
func (n Node) valueName() string { return n.Name + "_value" }

// ref applies the pointer-dereference spelling Marshal/Dispatch need: "*name"
// under Modifiers.Pointer, plain "name" otherwise.
func ref(name string, pointer bool) string {
	if pointer {
		return "*" + name
	}
	return name
}

// Signature returns the D-Bus wire signature, independent of modifiers
// (spec.md §3 invariant: "a type's wire signature is a deterministic
// function of its kind alone").
func (n Node) Signature() string { return n.Kind.Signature() }

// Vars returns the ordered (type, identifier) pairs the caller must declare
// to hold a value of this node's type (spec.md §4.B).
func (n Node) Vars(mod Modifiers) []Var {
	switch {
	case n.Kind.IsArray():
		vars := []Var{{CType: string(n.Kind.baseCType().modified(mod.Pointer, mod.Const)), Name: n.Name}}
		if !n.elemNode().Kind.cType().hasPointerSuffix() {
			vars = append(vars, Var{CType: string(cType("size_t").modified(mod.Pointer, mod.Const)), Name: n.lenName()})
		}
		return vars
	default:
		return []Var{{CType: string(n.Kind.baseCType().modified(mod.Pointer, mod.Const)), Name: n.Name}}
	}
}

// Locals returns the ordered (type, identifier) pairs the engine needs
// inside a marshal/dispatch block (spec.md §4.B).
func (n Node) Locals(mod Modifiers) []Var {
	switch {
	case n.Kind.stringLike():
		return []Var{{CType: string(n.Kind.baseCType().modified(false, mod.Const)), Name: n.valueName()}}
	case n.Kind.IsArray():
		locals := []Var{{CType: "DBusMessageIter", Name: n.iterName()}}
		if n.elemNode().Kind.cType().hasPointerSuffix() {
			locals = append(locals, Var{CType: "size_t", Name: n.lenName()})
		}
		return locals
	default:
		return nil
	}
}

// declBlock renders a node's Vars()+Locals() as "<type> <name>;\n" lines,
// used when an array marshal/dispatch loop needs to declare its element's
// working variables.
func declBlock(n Node, mod Modifiers) string {
	var s string
	for _, v := range n.Vars(mod) {
		s += v.Decl() + "\n"
	}
	for _, v := range n.Locals(mod) {
		s += v.Decl() + "\n"
	}
	return s
}

// Marshal returns the code that reads a value of this node's type off the
// iterator named iterName into the node's Vars(), under ownership root
// parent, branching to typeError/memError (pre-rendered code blocks,
// spliced verbatim) on the respective failure (spec.md §4.B/§4.C-array,
// §7). Only Modifiers.Pointer affects marshal; Const is meaningless for a
// write target and is ignored.
func (n Node) Marshal(iterName, parent, typeError, memError string, mod Modifiers) string {
	switch {
	case n.Kind.stringLike():
		return n.marshalStringLike(iterName, parent, typeError, memError, mod.Pointer)
	case n.Kind.IsArray():
		return n.marshalArray(iterName, parent, typeError, memError, mod.Pointer)
	default:
		return n.marshalScalar(iterName, typeError, mod.Pointer)
	}
}

func (n Node) marshalScalar(iterName, typeError string, pointer bool) string {
	name := ref(n.Name, pointer)
	return fmt.Sprintf(`if (dbus_message_iter_get_arg_type (&%s) != %s) {
%s
}

dbus_message_iter_get_basic (&%s, &%s);

dbus_message_iter_next (&%s);
`, iterName, n.Kind.WireEnum(), typeError, iterName, name, iterName)
}

func (n Node) marshalStringLike(iterName, parent, typeError, memError string, pointer bool) string {
	name := ref(n.Name, pointer)
	value := n.valueName()
	return fmt.Sprintf(`if (dbus_message_iter_get_arg_type (&%s) != %s) {
%s
}

dbus_message_iter_get_basic (&%s, &%s);

%s = nih_strdup (%s, %s);
if (! %s) {
%s
}

dbus_message_iter_next (&%s);
`, iterName, n.Kind.WireEnum(), typeError, iterName, value, name, parent, value, name, memError, iterName)
}

func (n Node) marshalArray(iterName, parent, typeError, memError string, pointer bool) string {
	elem := n.elemNode()
	name := ref(n.Name, pointer)
	lenName := n.lenName()
	elemPointerTyped := elem.Kind.cType().hasPointerSuffix()
	if !elemPointerTyped && pointer {
		lenName = ref(lenName, true)
	}

	code := fmt.Sprintf(`if (dbus_message_iter_get_arg_type (&%s) != %s) {
%s
}

if (dbus_message_iter_get_element_type (&%s) != %s) {
%s
}

dbus_message_iter_recurse (&%s, &%s);

%s = NULL;
%s = 0;

while (dbus_message_iter_get_arg_type (&%s) != DBUS_TYPE_INVALID) {
`, iterName, n.Kind.WireEnum(), typeError,
		iterName, elem.Kind.WireEnum(), typeError,
		iterName, n.iterName(),
		name, lenName,
		n.iterName())

	code += indent(declBlock(elem, Modifiers{}), 1)
	code += "\n"
	code += indent(elem.Marshal(n.iterName(), parent, typeError, memError, Modifiers{}), 1)
	code += "\n"
	code += indent(fmt.Sprintf(`%s = nih_realloc (%s, %s, sizeof (%s) * ((%s) + 1));
if (! %s) {
%s
}

(%s)[(%s)++] = %s;
`, name, name, parent, elem.Kind.baseCType(), lenName,
		name, memError,
		name, lenName, elem.Name), 1)

	code += "\n"
	code += fmt.Sprintf("}\n\ndbus_message_iter_next (&%s);\n", iterName)

	if elemPointerTyped {
		code += "\n"
		code += fmt.Sprintf(`%s = nih_realloc (%s, %s, sizeof (%s) * ((%s) + 1));
if (! %s) {
%s
}

(%s)[(%s)] = NULL;
`, name, name, parent, elem.Kind.baseCType(), lenName,
			name, memError,
			name, lenName)
	}

	return code
}

// Dispatch returns the code that writes this node's Vars() onto the
// iterator named iterName, branching to memError on allocation failure
// (spec.md §4.B/§4.C-array). Only Modifiers.Pointer/Const affect dispatch
// (both are meaningful here since the source side may be a const proxy
// argument).
func (n Node) Dispatch(iterName, memError string, mod Modifiers) string {
	switch {
	case n.Kind.stringLike():
		return n.dispatchStringLike(iterName, memError, mod.Pointer)
	case n.Kind.IsArray():
		return n.dispatchArray(iterName, memError, mod)
	default:
		return n.dispatchScalar(iterName, memError, mod.Pointer)
	}
}

func (n Node) dispatchScalar(iterName, memError string, pointer bool) string {
	name := ref(n.Name, pointer)
	return fmt.Sprintf(`if (! dbus_message_iter_append_basic (&%s, %s, &%s)) {
%s
}
`, iterName, n.Kind.WireEnum(), name, memError)
}

func (n Node) dispatchStringLike(iterName, memError string, pointer bool) string {
	name := ref(n.Name, pointer)
	value := n.valueName()
	return fmt.Sprintf(`%s = %s;
if (! dbus_message_iter_append_basic (&%s, %s, &%s)) {
%s
}
`, value, name, iterName, n.Kind.WireEnum(), value, memError)
}

func (n Node) dispatchArray(iterName, memError string, mod Modifiers) string {
	elem := n.elemNode()
	name := ref(n.Name, mod.Pointer)
	lenName := n.lenName()
	elemPointerTyped := elem.Kind.cType().hasPointerSuffix()
	if !elemPointerTyped && mod.Pointer {
		lenName = ref(lenName, true)
	}
	loopCType := string(n.Kind.baseCType().modified(false, mod.Const))

	code := fmt.Sprintf(`if (! dbus_message_iter_open_container (&%s, %s, "%s", &%s)) {
%s
}

`, iterName, n.Kind.WireEnum(), elem.Signature(), n.iterName(), memError)

	if elemPointerTyped {
		code += fmt.Sprintf(`%s = 0;
for (%s%s = %s; %s && *%s; %s++) {
`, lenName, declareType(loopCType), n.loopName(), name, n.loopName(), n.loopName(), n.loopName())
	} else {
		code += fmt.Sprintf(`for (%s%s = %s; %s < %s + %s; %s++) {
`, declareType(loopCType), n.loopName(), name, n.loopName(), name, lenName, n.loopName())
	}

	code += indent(declBlock(elem, Modifiers{}), 1)
	code += "\n"
	code += indent(fmt.Sprintf("%s = *%s;\n", elem.Name, n.loopName()), 1)
	code += "\n"
	code += indent(elem.Dispatch(n.iterName(), memError, Modifiers{}), 1)
	if elemPointerTyped {
		code += "\n"
		code += indent(fmt.Sprintf("(%s)++;\n", lenName), 1)
	}
	code += "}\n\n"
	code += fmt.Sprintf(`if (! dbus_message_iter_close_container (&%s, &%s)) {
%s
}
`, iterName, n.iterName(), memError)

	return code
}
