// Package ifacegen implements the interface aggregator (spec.md §4.E):
// given a schema.Interface's resolved methods and signals, it builds the
// NUL-terminated method/signal tables and interface struct that object
// mode contributes to the source file, and the extern names proxy mode's
// per-member dispatch wrappers bind to no table at all.
package ifacegen

import (
	"fmt"
	"strings"

	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/member"
	"github.com/keybuk/libnih/internal/schema"
)

// Interface aggregates one schema.Interface's resolved Methods and
// Signals for a single generation mode.
type Interface struct {
	CName   string
	Name    string
	Methods []member.Method
	Signals []member.Signal

	mode gencontext.Context
}

// Build resolves every member of iface under ctx, skipping (rather than
// failing the whole interface on) signals that cannot be generated in
// proxy mode — skip.
//
// skip receives each schema.Member that NewSignal rejected with
// member.ErrUnsupported, so a caller can report it; every other error is
// fatal, matching spec.md §7 "errors are synchronous and terminate the
// run that produced them".
func Build(ctx gencontext.Context, iface schema.Interface, skip func(schema.Member, error)) (Interface, error) {
	out := Interface{CName: iface.CName(), Name: iface.Name, mode: ctx}

	for _, m := range iface.Methods() {
		meth, err := member.NewMethod(ctx, out.CName, out.Name, m)
		if err != nil {
			return Interface{}, fmt.Errorf("ifacegen: interface %s: %w", iface.Name, err)
		}
		out.Methods = append(out.Methods, meth)
	}
	for _, s := range iface.Signals() {
		sig, err := member.NewSignal(ctx, out.CName, out.Name, s)
		if err != nil {
			if err == member.ErrUnsupported {
				if skip != nil {
					skip(s, err)
				}
				continue
			}
			return Interface{}, fmt.Errorf("ifacegen: interface %s: %w", iface.Name, err)
		}
		out.Signals = append(out.Signals, sig)
	}
	return out, nil
}

func (i Interface) methodsArrayName() string { return i.CName + "_methods" }
func (i Interface) signalsArrayName() string { return i.CName + "_signals" }

// MethodsTable renders the interface's NihDBusMethod table (object mode
// marshallers dispatch through here; proxy mode has no table of its own,
// so its per-member NULL entries carry no symbol).
func (i Interface) MethodsTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "const NihDBusMethod %s[] = {\n", i.methodsArrayName())
	for _, m := range i.Methods {
		handler := "NULL"
		if i.mode.Mode == gencontext.ModeObject {
			handler = m.MarshalPrototype().Name
		}
		fmt.Fprintf(&b, "\t{ \"%s\", %s, %s_%s_args },\n", m.Name, handler, i.CName, m.Name)
	}
	b.WriteString("\t{ NULL }\n};\n")
	return b.String()
}

// SignalsTable renders the interface's NihDBusSignal table.
func (i Interface) SignalsTable() string {
	var b strings.Builder
	fmt.Fprintf(&b, "const NihDBusSignal %s[] = {\n", i.signalsArrayName())
	for _, s := range i.Signals {
		fmt.Fprintf(&b, "\t{ \"%s\", %s_%s_args },\n", s.Name, i.CName, s.Name)
	}
	b.WriteString("\t{ NULL }\n};\n")
	return b.String()
}

// Struct renders the interface's NihDBusInterface descriptor (object mode
// only — spec.md §4.E; proxy mode has no structural analogue since
// proxies call dispatch wrappers directly rather than going through a
// table lookup).
func (i Interface) Struct() string {
	return fmt.Sprintf("const NihDBusInterface %s = {\n\t\"%s\",\n\t%s,\n\t%s,\n\tNULL\n};\n",
		i.CName, i.Name, i.methodsArrayName(), i.signalsArrayName())
}

// Prototype is the (type, name) pair for the interface struct's extern
// declaration in the generated header.
func (i Interface) Prototype() (string, string) {
	return "extern const NihDBusInterface", i.CName
}
