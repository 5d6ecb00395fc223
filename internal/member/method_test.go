package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/schema"
)

func sampleMethod() schema.Member {
	return schema.Member{
		Kind: schema.MemberMethod,
		Name: "GetValue",
		Args: []schema.Arg{
			{Name: "key", Signature: "s", Direction: schema.DirectionIn},
			{Name: "value", Signature: "i", Direction: schema.DirectionOut},
		},
		Style: schema.StyleSync,
	}
}

func TestNewMethodRejectsUnsupportedSignature(t *testing.T) {
	m := sampleMethod()
	m.Args[0].Signature = "v"
	ctx := gencontext.New(gencontext.ModeObject, "test")
	_, err := NewMethod(ctx, "com_example_Foo", "com.example.Foo", m)
	require.Error(t, err)
}

func TestMethodMarshalFunctionObjectMode(t *testing.T) {
	ctx := gencontext.New(gencontext.ModeObject, "test")
	meth, err := NewMethod(ctx, "com_example_Foo", "com.example.Foo", sampleMethod())
	require.NoError(t, err)

	code := meth.MarshalFunction()
	assert.Contains(t, code, "com_example_Foo_GetValue_marshal")
	assert.Contains(t, code, "test_get_value (object->data, message, key, &value)")
	assert.Contains(t, code, "DBUS_HANDLER_RESULT_HANDLED")
	assert.Contains(t, code, "dbus_message_get_no_reply", "sync style checks no-reply before building a reply")
}

func TestMethodAsyncStyleSkipsOutArgsInHandlerCallAndEmitsReply(t *testing.T) {
	m := sampleMethod()
	m.Style = schema.StyleAsync
	ctx := gencontext.New(gencontext.ModeObject, "test")
	meth, err := NewMethod(ctx, "com_example_Foo", "com.example.Foo", m)
	require.NoError(t, err)

	marshal := meth.MarshalFunction()
	assert.NotContains(t, marshal, "&value", "async style does not call the handler with out-arg pointers")
	assert.Contains(t, marshal, "DBUS_HANDLER_RESULT_NOT_YET_HANDLED")

	reply := meth.ReplyFunction()
	assert.Contains(t, reply, "test_get_value_reply")
	assert.Contains(t, reply, "dbus_message_new_method_return")
}

func TestMethodDispatchFunctionProxyMode(t *testing.T) {
	ctx := gencontext.New(gencontext.ModeProxy, "test")
	meth, err := NewMethod(ctx, "com_example_Foo", "com.example.Foo", sampleMethod())
	require.NoError(t, err)

	code := meth.DispatchFunction()
	assert.Contains(t, code, "dbus_connection_send_with_reply_and_block")
	assert.Contains(t, code, "com.example.Foo")
	assert.Contains(t, code, "nih_dbus_error_raise")
}

func TestArgTableListsArgsInDeclarationOrder(t *testing.T) {
	ctx := gencontext.New(gencontext.ModeObject, "test")
	meth, err := NewMethod(ctx, "com_example_Foo", "com.example.Foo", sampleMethod())
	require.NoError(t, err)

	table := meth.ArgTable()
	keyIdx := indexOf(table, "\"key\"")
	valueIdx := indexOf(table, "\"value\"")
	require.NotEqual(t, -1, keyIdx)
	require.NotEqual(t, -1, valueIdx)
	assert.Less(t, keyIdx, valueIdx)
	assert.Contains(t, table, "NIH_DBUS_ARG_IN")
	assert.Contains(t, table, "NIH_DBUS_ARG_OUT")
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
