package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/ifacegen"
	"github.com/keybuk/libnih/internal/schema"
)

func sampleOutput(t *testing.T, mode gencontext.Mode) Output {
	t.Helper()
	ctx := gencontext.New(mode, "test")
	iface := schema.Interface{
		Name: "com.example.Foo",
		Members: []schema.Member{
			{
				Kind: schema.MemberMethod,
				Name: "Ping",
				Args: []schema.Arg{{Name: "reply", Signature: "s", Direction: schema.DirectionOut}},
			},
		},
	}
	built, err := ifacegen.Build(ctx, iface, nil)
	require.NoError(t, err)
	return Output{
		Basename: "foo",
		Meta:     PackageMeta{PackageName: "test-pkg", Copyright: "Copyright 2026 Example"},
		Mode:     ctx,
		Iface:    built,
	}
}

func TestSourceFileHasLicenseIncludesAndFunctions(t *testing.T) {
	out := sampleOutput(t, gencontext.ModeObject)
	src := out.SourceFile()

	assert.Contains(t, src, "test-pkg")
	assert.Contains(t, src, "Copyright 2026 Example")
	assert.Contains(t, src, "#include \"foo.h\"")
	assert.Contains(t, src, "com_example_Foo_Ping_marshal")
	assert.Contains(t, src, "const NihDBusInterface com_example_Foo")
}

// TestSourceFileDeclaresMarshalAndHandlerBeforeUse pins Testable Scenario
// S1 (spec.md §8): the method table references the static marshal wrapper
// and the marshal wrapper calls the extern handler, so both must be
// forward-declared earlier in the same file (spec.md §4.F).
func TestSourceFileDeclaresMarshalAndHandlerBeforeUse(t *testing.T) {
	out := sampleOutput(t, gencontext.ModeObject)
	src := out.SourceFile()

	staticProto := "static DBusHandlerResult com_example_Foo_Ping_marshal (NihDBusObject *object, NihDBusMessage *message)"
	externProto := "extern int test_ping (void *data, NihDBusMessage *message, char **reply)"
	tableRef := "{ \"Ping\", com_example_Foo_Ping_marshal, com_example_Foo_Ping_args }"
	handlerCall := "test_ping (object->data, message, &reply)"

	require.Contains(t, src, staticProto)
	require.Contains(t, src, externProto)
	require.Contains(t, src, tableRef)
	require.Contains(t, src, handlerCall)

	assert.Less(t, strings.Index(src, staticProto), strings.Index(src, tableRef),
		"the marshal wrapper's static prototype must precede the method table that references it")
	assert.Less(t, strings.Index(src, externProto), strings.Index(src, handlerCall),
		"the handler's extern prototype must precede its first call")
}

func TestHeaderFileHasNoHandlerPrototypeForSyncMethod(t *testing.T) {
	out := sampleOutput(t, gencontext.ModeObject)
	hdr := out.HeaderFile()

	assert.NotContains(t, hdr, "test_ping", "the handler prototype belongs in the source file, not the header")
}

func TestHeaderFileHasIncludeGuardMatchingBasename(t *testing.T) {
	out := sampleOutput(t, gencontext.ModeObject)
	hdr := out.HeaderFile()

	assert.Contains(t, hdr, "DBUS__FOO_H")
	assert.Contains(t, hdr, "#endif /* DBUS__FOO_H */")
	assert.Contains(t, hdr, "extern const NihDBusInterface com_example_Foo;")
}

func TestProxyModeSourceFileHasNoInterfaceStruct(t *testing.T) {
	out := sampleOutput(t, gencontext.ModeProxy)
	src := out.SourceFile()

	assert.NotContains(t, src, "NihDBusInterface")
	assert.Contains(t, src, "dbus_connection_send_with_reply_and_block")
}
