package member

import (
	"fmt"
	"strings"

	"github.com/keybuk/libnih/internal/dbustype"
	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/schema"
)

// Signal is the object-mode synthesis strategy for a <signal> element
// (spec.md §4.D). There is no proxy-mode strategy: DispatchFunction is
// only ever called under gencontext.ModeObject, and NewSignal in
// gencontext.ModeProxy returns ErrUnsupported rather than emitting
// anything (OQ-2, resolved in SPEC_FULL.md).
type Signal struct {
	InterfaceCName string
	InterfaceName  string
	Name           string
	ctx            gencontext.Context
	args           []Arg
}

// NewSignal resolves s's argument signatures. It returns ErrUnsupported
// immediately when ctx.Mode is ModeProxy, since no known component of this
// engine can synthesize proxy-mode signal reception.
func NewSignal(ctx gencontext.Context, interfaceCName, interfaceName string, s schema.Member) (Signal, error) {
	if ctx.Mode == gencontext.ModeProxy {
		return Signal{}, ErrUnsupported
	}
	args, err := resolveArgs(s.Args)
	if err != nil {
		return Signal{}, fmt.Errorf("signal %s: %w", s.Name, err)
	}
	return Signal{InterfaceCName: interfaceCName, InterfaceName: interfaceName, Name: s.Name, ctx: ctx, args: args}, nil
}

func (s Signal) externName() string { return externName(s.ctx, s.Name) }

func (s Signal) group(mod dbustype.Modifiers) dbustype.Group {
	return dbustype.NewGroup(mod, nodesWithDirection(s.args, schema.DirectionOut)...)
}

// ArgTable renders the signal's static const NihDBusArg[] table.
func (s Signal) ArgTable() string {
	return argTable(joinName(s.InterfaceCName, s.Name, "args"), s.args)
}

// DispatchPrototype is the prototype of the exported emitter function a
// handler calls to raise this signal.
func (s Signal) DispatchPrototype() Prototype {
	args := s.group(dbustype.Modifiers{Const: true})
	vars := append([]dbustype.Var{
		{CType: "DBusConnection *", Name: "connection"},
		{CType: "const char *", Name: "origin_path"},
	}, args.Vars()...)
	return Prototype{Return: "int", Name: s.externName(), Args: vars, Attributes: []string{"warn_unused_result"}}
}

// DispatchFunction renders the emitter: builds a new DBUS_MESSAGE_TYPE_SIGNAL
// message, dispatches the native arguments onto it, and sends it (spec.md
// §4.D, grounded on the original tool's Signal.dispatchFunction).
func (s Signal) DispatchFunction() string {
	args := s.group(dbustype.Modifiers{Const: true})
	name := s.externName()

	vars := append([]dbustype.Var{
		{CType: "DBusConnection *", Name: "connection"},
		{CType: "const char *", Name: "origin_path"},
	}, args.Vars()...)

	var b strings.Builder
	fmt.Fprintf(&b, "int\n%s (", name)
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = strings.TrimSuffix(v.Decl(), ";")
	}
	b.WriteString(strings.Join(parts, ",\n"+strings.Repeat(" ", len(name)+2)))
	b.WriteString(")\n{\n")

	locals := []dbustype.Var{
		{CType: "DBusMessage *", Name: "message"},
		{CType: "DBusMessageIter", Name: "iter"},
	}
	locals = append(locals, args.Locals()...)
	b.WriteString(indent(declBlock(locals), 1))

	b.WriteString("\n")
	b.WriteString(indent("nih_assert (connection != NULL);\nnih_assert (origin_path != NULL);\n", 1))

	b.WriteString("\n")
	b.WriteString(indent(fmt.Sprintf(
		"message = dbus_message_new_signal (origin_path, \"%s\", \"%s\");\nif (! message)\n\treturn -1;\n\n"+
			"/* Iterate the arguments to the function and dispatch into\n * message arguments.\n */\ndbus_message_iter_init_append (message, &iter);\n",
		s.InterfaceName, s.Name), 1))
	b.WriteString("\n")

	memError := indent("dbus_message_unref (message);\nreturn -1;\n", 1)
	b.WriteString(indent(args.Dispatch("iter", memError), 1))

	b.WriteString("\n")
	b.WriteString(indent(`/* Send the signal, appending it to the outgoing queue. */
if (! dbus_connection_send (connection, message, NULL)) {
	dbus_message_unref (message);
	return -1;
}

dbus_message_unref (message);

return 0;
`, 1))

	b.WriteString("}\n")
	return b.String()
}
