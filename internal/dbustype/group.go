package dbustype

import "fmt"

// Group is an ordered sequence of Nodes sharing a single Modifiers pair
// (spec.md §3 "TypeGroup: an ordered concatenation of Types, applying the
// same pointer/const modifiers to each"). It is the unit an argument list
// (a method's in-args, a method's out-args, a signal's args) is rendered
// through.
type Group struct {
	Nodes []Node
	Mod   Modifiers
}

// NewGroup builds a Group over nodes sharing mod.
func NewGroup(mod Modifiers, nodes ...Node) Group {
	return Group{Nodes: nodes, Mod: mod}
}

// Signature concatenates each member's signature in order.
func (g Group) Signature() string {
	var s string
	for _, n := range g.Nodes {
		s += n.Signature()
	}
	return s
}

// Vars concatenates each member's Vars() in order.
func (g Group) Vars() []Var {
	var vars []Var
	for _, n := range g.Nodes {
		vars = append(vars, n.Vars(g.Mod)...)
	}
	return vars
}

// Locals concatenates each member's Locals() in order.
func (g Group) Locals() []Var {
	var locals []Var
	for _, n := range g.Nodes {
		locals = append(locals, n.Locals(g.Mod)...)
	}
	return locals
}

// Marshal concatenates each member's Marshal() in order, then appends a
// final "no more arguments" check against DBUS_TYPE_INVALID (spec.md §4.C:
// "after the last argument, an over-long message is itself a type error").
func (g Group) Marshal(iterName, parent, typeError, memError string) string {
	var code string
	for _, n := range g.Nodes {
		if code != "" {
			code += "\n"
		}
		code += n.Marshal(iterName, parent, typeError, memError, g.Mod)
	}
	if code != "" {
		code += "\n"
	}
	code += fmt.Sprintf(`if (dbus_message_iter_get_arg_type (&%s) != DBUS_TYPE_INVALID) {
%s
}
`, iterName, typeError)
	return code
}

// Dispatch concatenates each member's Dispatch() in order. Unlike Marshal,
// there is no trailing sentinel check: the wire message is simply closed
// once every argument has been appended (spec.md §4.C).
func (g Group) Dispatch(iterName, memError string) string {
	var code string
	for _, n := range g.Nodes {
		if code != "" {
			code += "\n"
		}
		code += n.Dispatch(iterName, memError, g.Mod)
	}
	return code
}
