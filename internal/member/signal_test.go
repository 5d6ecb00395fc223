package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keybuk/libnih/internal/gencontext"
	"github.com/keybuk/libnih/internal/schema"
)

func sampleSignal() schema.Member {
	return schema.Member{
		Kind: schema.MemberSignal,
		Name: "Changed",
		Args: []schema.Arg{{Name: "value", Signature: "i", Direction: schema.DirectionOut}},
	}
}

func TestNewSignalObjectModeBuildsDispatcher(t *testing.T) {
	ctx := gencontext.New(gencontext.ModeObject, "test")
	sig, err := NewSignal(ctx, "com_example_Foo", "com.example.Foo", sampleSignal())
	require.NoError(t, err)

	code := sig.DispatchFunction()
	assert.Contains(t, code, "dbus_message_new_signal (origin_path, \"com.example.Foo\", \"Changed\")")
	assert.Contains(t, code, "dbus_connection_send (connection, message, NULL)")
}

func TestNewSignalProxyModeIsUnsupported(t *testing.T) {
	ctx := gencontext.New(gencontext.ModeProxy, "test")
	_, err := NewSignal(ctx, "com_example_Foo", "com.example.Foo", sampleSignal())
	require.ErrorIs(t, err, ErrUnsupported)
}
