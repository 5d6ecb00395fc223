package member

import (
	"fmt"
	"strings"

	"github.com/keybuk/libnih/internal/dbustype"
	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/schema"
)

// Method is the object/proxy synthesis strategy for a <method> element
// (spec.md §4.D). Interface and Name feed the "_".join() identifier
// convention every generated symbol follows.
type Method struct {
	InterfaceCName string
	InterfaceName  string
	Name           string
	Style          schema.Style
	ctx            gencontext.Context
	args           []Arg
}

// NewMethod resolves m's argument signatures against the catalog and
// returns a Method ready to generate code in ctx.Mode.
func NewMethod(ctx gencontext.Context, interfaceCName, interfaceName string, m schema.Member) (Method, error) {
	args, err := resolveArgs(m.Args)
	if err != nil {
		return Method{}, fmt.Errorf("method %s: %w", m.Name, err)
	}
	return Method{
		InterfaceCName: interfaceCName,
		InterfaceName:  interfaceName,
		Name:           m.Name,
		Style:          m.Style,
		ctx:            ctx,
		args:           args,
	}, nil
}

func (me Method) cName() string       { return joinName(me.InterfaceCName, me.Name) }
func (me Method) externName() string  { return externName(me.ctx, me.Name) }
func (me Method) inGroup(mod dbustype.Modifiers) dbustype.Group {
	return dbustype.NewGroup(mod, nodesWithDirection(me.args, schema.DirectionIn)...)
}
func (me Method) outGroup(mod dbustype.Modifiers) dbustype.Group {
	return dbustype.NewGroup(mod, nodesWithDirection(me.args, schema.DirectionOut)...)
}

// ArgTable renders the method's static const NihDBusArg[] table (emitted
// in both object and proxy mode; spec.md §4.D).
func (me Method) ArgTable() string {
	return argTable(joinName(me.InterfaceCName, me.Name, "args"), me.args)
}

// MarshalPrototype is the (static) prototype of the object-mode marshaller
// dispatched from the interface's method table.
func (me Method) MarshalPrototype() Prototype {
	return Prototype{
		Return: "static DBusHandlerResult",
		Name:   joinName(me.InterfaceCName, me.Name, "marshal"),
		Args: []dbustype.Var{
			{CType: "NihDBusObject *", Name: "object"},
			{CType: "NihDBusMessage *", Name: "message"},
		},
	}
}

// HandlerPrototype is the prototype of the C handler function the user
// must define and link against (extern, object mode only).
func (me Method) HandlerPrototype() Prototype {
	in := me.inGroup(dbustype.Modifiers{Const: true})
	out := me.outGroup(dbustype.Modifiers{Pointer: true})

	vars := []dbustype.Var{
		{CType: "void *", Name: "data"},
		{CType: "NihDBusMessage *", Name: "message"},
	}
	vars = append(vars, in.Vars()...)
	if me.Style != schema.StyleAsync {
		vars = append(vars, out.Vars()...)
	}
	return Prototype{Return: "extern int", Name: me.externName(), Args: vars}
}

// ReplyPrototype is the prototype of the reply emitter an async handler
// calls once it has a result (object mode, async style only).
func (me Method) ReplyPrototype() Prototype {
	out := me.outGroup(dbustype.Modifiers{Const: true})
	vars := append([]dbustype.Var{{CType: "NihDBusMessage *", Name: "message"}}, out.Vars()...)
	return Prototype{Return: "int", Name: joinName(me.externName(), "reply"), Args: vars, Attributes: []string{"warn_unused_result"}}
}

// DispatchPrototype is the prototype of the proxy-mode blocking dispatch
// wrapper, exported from the generated header.
func (me Method) DispatchPrototype() Prototype {
	in := me.inGroup(dbustype.Modifiers{Const: true})
	out := me.outGroup(dbustype.Modifiers{Pointer: true})

	vars := []dbustype.Var{{CType: "NihDBusProxy *", Name: "proxy"}}
	vars = append(vars, in.Vars()...)
	vars = append(vars, out.Vars()...)
	return Prototype{Return: "int", Name: me.externName(), Args: vars, Attributes: []string{"warn_unused_result"}}
}

// MarshalFunction renders the object-mode marshalling wrapper: unpacks the
// incoming message into native arguments, calls the extern handler,
// translates its result into an OOM/named-error/generic-error reply, and
// — for sync style — packs the handler's output arguments into
// the reply message (spec.md §4.D, grounded on the original tool's
// Method.marshalFunction).
func (me Method) MarshalFunction() string {
	in := me.inGroup(dbustype.Modifiers{})
	out := me.outGroup(dbustype.Modifiers{})
	name := me.MarshalPrototype().Name

	var b strings.Builder
	fmt.Fprintf(&b, "static DBusHandlerResult\n%s (NihDBusObject  *object,\n%s  NihDBusMessage *message)\n{\n",
		name, strings.Repeat(" ", len(name)))

	vars := []dbustype.Var{
		{CType: "DBusMessageIter", Name: "iter"},
		{CType: "DBusMessage *", Name: "reply = NULL"},
	}
	vars = append(vars, in.Vars()...)
	vars = append(vars, in.Locals()...)
	if me.Style != schema.StyleAsync {
		vars = append(vars, out.Vars()...)
		vars = append(vars, out.Locals()...)
	}
	b.WriteString(indent(declBlock(vars), 1))

	b.WriteString("\n")
	b.WriteString(indent("nih_assert (object != NULL);\nnih_assert (message != NULL);\n", 1))

	b.WriteString("\n")
	b.WriteString(indent("/* Iterate the arguments to the message and marshal into arguments\n"+
		" * for our own function call.\n */\ndbus_message_iter_init (message->message, &iter);\n", 1))
	b.WriteString("\n")

	memError := indent("return DBUS_HANDLER_RESULT_NEED_MEMORY;\n", 1)
	typeError := indent(fmt.Sprintf(
		"reply = dbus_message_new_error (message->message, DBUS_ERROR_INVALID_ARGS,\n\t\t\t\t_(\"Invalid arguments to %s method\"));\nif (! reply) {\n%s\n}\n\ngoto send;\n",
		me.Name, memError), 1)
	b.WriteString(indent(in.Marshal("iter", "message", typeError, memError), 1))

	args := []string{"object->data", "message"}
	for _, v := range in.Vars() {
		args = append(args, v.Name)
	}
	if me.Style != schema.StyleAsync {
		for _, v := range out.Vars() {
			args = append(args, "&"+v.Name)
		}
	}

	b.WriteString("\n")
	b.WriteString(indent(fmt.Sprintf(`/* Call the handler function. */
if (%s (%s) < 0) {
	NihError *err;

	err = nih_error_get ();
	if (err->number == ENOMEM) {
		nih_free (err);

		return DBUS_HANDLER_RESULT_NEED_MEMORY;
	} else if (err->number == NIH_DBUS_ERROR) {
		NihDBusError *dbus_err = (NihDBusError *)err;

		reply = dbus_message_new_error (message->message,
						dbus_err->name,
						err->message);
		nih_free (err);

		if (! reply)
			return DBUS_HANDLER_RESULT_NEED_MEMORY;

		goto send;
	} else {
		reply = dbus_message_new_error (message->message,
						DBUS_ERROR_FAILED,
						err->message);
		nih_free (err);

		if (! reply)
			return DBUS_HANDLER_RESULT_NEED_MEMORY;

		goto send;
	}
}
`, me.externName(), strings.Join(args, ", ")), 1))

	switch me.Style {
	case schema.StyleAsync:
		b.WriteString("\n")
		b.WriteString(indent("return DBUS_HANDLER_RESULT_NOT_YET_HANDLED;\n", 1))
	default:
		b.WriteString("\n")
		b.WriteString(indent("/* If the sender doesn't care about a reply, don't bother wasting\n"+
			" * effort constructing and sending one.\n */\nif (dbus_message_get_no_reply (message->message))\n\treturn DBUS_HANDLER_RESULT_HANDLED;\n", 1))

		b.WriteString("\n")
		b.WriteString(indent("/* Construct the reply message */\nreply = dbus_message_new_method_return (message->message);\nif (! reply)\n\treturn DBUS_HANDLER_RESULT_NEED_MEMORY;\n\ndbus_message_iter_init_append (reply, &iter);\n", 1))
		b.WriteString("\n")

		dispatchMemError := indent("dbus_message_unref (reply);\nreturn DBUS_HANDLER_RESULT_NEED_MEMORY;\n", 1)
		b.WriteString(indent(out.Dispatch("iter", dispatchMemError), 1))
	}

	b.WriteString("\nsend:\n")
	b.WriteString(indent(`/* Send the reply, appending it to the outgoing queue. */
if (! dbus_connection_send (message->conn, reply, NULL)) {
	dbus_message_unref (reply);
	return DBUS_HANDLER_RESULT_NEED_MEMORY;
}

dbus_message_unref (reply);

return DBUS_HANDLER_RESULT_HANDLED;
`, 1))

	b.WriteString("}\n")
	return b.String()
}

// ReplyFunction renders the reply emitter an async-style handler calls
// once it has produced its output arguments (object mode, async only).
func (me Method) ReplyFunction() string {
	out := me.outGroup(dbustype.Modifiers{Const: true})
	name := joinName(me.externName(), "reply")

	vars := append([]dbustype.Var{{CType: "NihDBusMessage *", Name: "message"}}, out.Vars()...)

	var b strings.Builder
	fmt.Fprintf(&b, "int\n%s (", name)
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = strings.TrimSuffix(v.Decl(), ";")
	}
	b.WriteString(strings.Join(parts, ",\n"+strings.Repeat(" ", len(name)+2)))
	b.WriteString(")\n{\n")

	locals := []dbustype.Var{
		{CType: "DBusMessageIter", Name: "iter"},
		{CType: "DBusMessage *", Name: "reply = NULL"},
	}
	locals = append(locals, out.Locals()...)
	b.WriteString(indent(declBlock(locals), 1))

	b.WriteString("\n")
	b.WriteString(indent("nih_assert (message != NULL);\n", 1))

	b.WriteString("\n")
	b.WriteString(indent("/* If the sender doesn't care about a reply, don't bother wasting\n"+
		" * effort constructing and sending one.\n */\nif (dbus_message_get_no_reply (message->message)) {\n\tnih_free (message);\n\treturn 0;\n}\n", 1))

	b.WriteString("\n")
	b.WriteString(indent("/* Construct the reply message */\nreply = dbus_message_new_method_return (message->message);\nif (! reply)\n\treturn -1;\n\ndbus_message_iter_init_append (reply, &iter);\n", 1))
	b.WriteString("\n")

	memError := indent("dbus_message_unref (reply);\nreturn -1;\n", 1)
	b.WriteString(indent(out.Dispatch("iter", memError), 1))

	b.WriteString("\n")
	b.WriteString(indent(`/* Send the reply, appending it to the outgoing queue. */
if (! dbus_connection_send (message->conn, reply, NULL)) {
	dbus_message_unref (reply);
	return -1;
}

dbus_message_unref (reply);
nih_free (message);

return 0;
`, 1))

	b.WriteString("}\n")
	return b.String()
}

// DispatchFunction renders the proxy-mode blocking wrapper: packs its
// native arguments into a method-call message, blocks for the reply, and
// unpacks the reply into its output arguments (spec.md §4.D, grounded on
// the original tool's Method.dispatchFunction).
func (me Method) DispatchFunction() string {
	in := me.inGroup(dbustype.Modifiers{Const: true})
	out := me.outGroup(dbustype.Modifiers{Pointer: true})
	name := me.externName()

	vars := []dbustype.Var{{CType: "NihDBusProxy *", Name: "proxy"}}
	vars = append(vars, in.Vars()...)
	vars = append(vars, out.Vars()...)

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
		{CType: "DBusMessage *", Name: "reply = NULL"},
		{CType: "DBusError", Name: "error"},
	}
	locals = append(locals, in.Locals()...)
	locals = append(locals, out.Locals()...)
	b.WriteString(indent(declBlock(locals), 1))

	b.WriteString("\n")
	b.WriteString(indent("nih_assert (proxy != NULL);\n", 1))

	b.WriteString("\n")
	b.WriteString(indent(fmt.Sprintf(
		"message = dbus_message_new_method_call (proxy->name, proxy->path, \"%s\", \"%s\");\nif (! message)\n\tnih_return_no_memory_error (-1);\n\n"+
			"/* Iterate the arguments to the function and dispatch into\n * message arguments.\n */\ndbus_message_iter_init_append (message, &iter);\n",
		me.InterfaceName, me.Name), 1))
	b.WriteString("\n")

	dispatchMemError := indent("dbus_message_unref (message);\nnih_return_no_memory_error (-1);\n", 1)
	b.WriteString(indent(in.Dispatch("iter", dispatchMemError), 1))

	b.WriteString("\n")
	b.WriteString(indent(`dbus_error_init (&error);

/* Send the message, appending it to the outgoing queue and blocking. */
reply = dbus_connection_send_with_reply_and_block (proxy->conn, message, -1, &error);
if (! reply) {
	dbus_message_unref (message);

	if (dbus_error_has_name (&error, DBUS_ERROR_NO_MEMORY)) {
		dbus_error_free (&error);
		nih_return_no_memory_error (-1);
	} else {
		nih_dbus_error_raise (error.name, error.message);
		dbus_error_free (&error);
		return -1;
	}
}

dbus_message_unref (message);
`, 1))

	b.WriteString("\n")
	b.WriteString(indent("/* Iterate the arguments to the reply and marshal into output\n"+
		" * arguments from our own function call.\n */\ndbus_message_iter_init (reply, &iter);\n", 1))
	b.WriteString("\n")

	marshalMemError := indent("dbus_message_unref (reply);\nnih_return_no_memory_error (-1);\n", 1)
	marshalTypeError := indent("dbus_message_unref (reply);\nnih_return_error (-1, NIH_DBUS_INVALID_ARGS, NIH_DBUS_INVALID_ARGS_STR);\n", 1)
	b.WriteString(indent(out.Marshal("iter", "proxy", marshalTypeError, marshalMemError), 1))

	b.WriteString("\n")
	b.WriteString(indent("dbus_message_unref (reply);\n\nreturn 0;\n", 1))

	b.WriteString("}\n")
	return b.String()
}

func indent(s string, level int) string {
	if level <= 0 || s == "" {
		return s
	}
	prefix := strings.Repeat("\t", level)
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			b.WriteString(line)
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}
