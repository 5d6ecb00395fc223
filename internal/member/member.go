// Package member implements the per-member code synthesis strategies
// (spec.md §4.D): Method, which differs between object mode (a marshalling
// wrapper dispatched from the method table, plus an async reply emitter)
// and proxy mode (a blocking dispatch wrapper); and Signal, which is only
// meaningful in object mode — proxy-mode signal reception is explicitly
// unsupported (spec.md Open Question OQ-2, resolved in SPEC_FULL.md).
package member

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keybuk/libnih/internal/dbustype"
	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/schema"
)

// ErrUnsupported is returned by NewSignal when asked to build proxy-mode
// dispatch code for a signal. The original Python tool never implemented
// this path either (its Signal class has no proxy branch in
// dispatchFunction/exportPrototypes); rather than invent semantics, the Go
// engine raises explicitly so a caller can report it instead of emitting
// silently wrong code.
var ErrUnsupported = errors.New("member: proxy-mode signal reception is not supported")

// Arg pairs a resolved dbustype.Node with the declared direction from the
// schema, since a node alone does not know which Group (in vs out) it
// belongs to until a member groups it.
type Arg struct {
	Node      dbustype.Node
	Direction schema.Direction
}

func resolveArgs(args []schema.Arg) ([]Arg, error) {
	out := make([]Arg, 0, len(args))
	for _, a := range args {
		kind, err := dbustype.ParseSignature(a.Signature)
		if err != nil {
			return nil, fmt.Errorf("arg %s: %w", a.Name, err)
		}
		out = append(out, Arg{Node: dbustype.NewNode(kind, a.Name), Direction: a.Direction})
	}
	return out, nil
}

func nodesWithDirection(args []Arg, dir schema.Direction) []dbustype.Node {
	var out []dbustype.Node
	for _, a := range args {
		if a.Direction == dir {
			out = append(out, a.Node)
		}
	}
	return out
}

// joinName mirrors the original tool's "_".join([...]) idiom used to build
// every generated C identifier.
func joinName(parts ...string) string { return strings.Join(parts, "_") }

// argTable renders the static const NihDBusArg[] table a method or signal
// contributes to the interface's argument metadata (spec.md §4.D); shared
// between Method and Signal since both are MemberWithArgs in the original
// tool.
func argTable(tableName string, args []Arg) string {
	var b strings.Builder
	fmt.Fprintf(&b, "static const NihDBusArg %s[] = {\n", tableName)
	for _, a := range args {
		dir := "NIH_DBUS_ARG_IN"
		if a.Direction == schema.DirectionOut {
			dir = "NIH_DBUS_ARG_OUT"
		}
		fmt.Fprintf(&b, "\t{ \"%s\", \"%s\", %s },\n", a.Node.Name, a.Node.Signature(), dir)
	}
	b.WriteString("\t{ NULL }\n};\n")
	return b.String()
}

// declBlock renders a flat list of dbustype.Var declarations, matching the
// original tool's "%s;\n" % var idiom without the cosmetic lineup_vars
// column-alignment pass (out of scope per spec.md §1).
func declBlock(vars []dbustype.Var) string {
	var b strings.Builder
	for _, v := range vars {
		b.WriteString(v.Decl())
		b.WriteString("\n")
	}
	return b.String()
}

// Prototype is a (return type, name, args, attributes) tuple, mirroring
// the original tool's prototype tuples (spec.md §4.D); attributes carries
// GCC-style function attributes such as "warn_unused_result".
type Prototype struct {
	Return     string
	Name       string
	Args       []dbustype.Var
	Attributes []string
}

// Decl renders the prototype as a C declaration (no trailing semicolon, to
// let callers choose between a prototype statement and a function header).
func (p Prototype) Decl() string {
	var b strings.Builder
	b.WriteString(p.Return)
	b.WriteString(" ")
	b.WriteString(p.Name)
	b.WriteString(" (")
	for i, a := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strings.TrimSuffix(a.Decl(), ";"))
	}
	if len(p.Args) == 0 {
		b.WriteString("void")
	}
	b.WriteString(")")
	for _, attr := range p.Attributes {
		fmt.Fprintf(&b, " __attribute__ ((%s))", attr)
	}
	return b.String()
}

// externName resolves the generation prefix against a member name the way
// spec.md §4.D describes, via the context threaded explicitly instead of
// the original tool's process-wide extern_prefix global.
func externName(ctx gencontext.Context, memberName string) string {
	return schema.ExternName(ctx.Prefix, memberName)
}
