package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keybuk/libnih/internal/gencontext"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<node>
  <interface name="com.example.Foo">
    <method name="Bar">
      <arg name="input" type="s" direction="in"/>
      <arg name="output" type="i" direction="out"/>
    </method>
    <signal name="Changed">
      <arg name="value" type="i"/>
    </signal>
    <annotation name="org.freedesktop.DBus.Deprecated" value="true"/>
  </interface>
</node>`

func TestLoadParsesInterfaceMembersAndArgs(t *testing.T) {
	ifaces, err := Load(strings.NewReader(sampleXML), DirectionIn, gencontext.ModeObject)
	require.NoError(t, err)
	require.Len(t, ifaces, 1)

	iface := ifaces[0]
	assert.Equal(t, "com.example.Foo", iface.Name)
	assert.True(t, iface.Deprecated)
	assert.Equal(t, "com_example_Foo", iface.CName())

	require.Len(t, iface.Methods(), 1)
	method := iface.Methods()[0]
	assert.Equal(t, "Bar", method.Name)
	require.Len(t, method.InArgs(), 1)
	assert.Equal(t, "input", method.InArgs()[0].Name)
	require.Len(t, method.OutArgs(), 1)
	assert.Equal(t, "output", method.OutArgs()[0].Name)

	require.Len(t, iface.Signals(), 1)
	signal := iface.Signals()[0]
	assert.Equal(t, "Changed", signal.Name)
	require.Len(t, signal.Args, 1)
	assert.Equal(t, DirectionOut, signal.Args[0].Direction, "signal args default to out")
}

func TestLoadRejectsMissingArgType(t *testing.T) {
	const bad = `<node><interface name="x.Y"><method name="Z"><arg name="a"/></method></interface></node>`
	_, err := Load(strings.NewReader(bad), DirectionIn, gencontext.ModeObject)
	require.Error(t, err)
}

// TestLoadResolvesModeScopedAsyncStyleAttribute pins Testable Scenario S6
// (spec.md §8): a method tagged {XMLNS}object="async" resolves to
// StyleAsync when loaded in object mode, and the sibling {XMLNS}proxy
// attribute is consulted instead when loading the same document in proxy
// mode, per the original tool's elem.get(QName(XMLNS, mode), ...) lookup.
func TestLoadResolvesModeScopedAsyncStyleAttribute(t *testing.T) {
	const withStyle = `<node xmlns:nih="http://www.netsplit.com/nih/dbus">
  <interface name="com.example.Foo">
    <method name="Bar" nih:object="async" nih:proxy="sync">
      <arg name="output" type="i" direction="out"/>
    </method>
  </interface>
</node>`

	objectIfaces, err := Load(strings.NewReader(withStyle), DirectionIn, gencontext.ModeObject)
	require.NoError(t, err)
	require.Len(t, objectIfaces, 1)
	require.Len(t, objectIfaces[0].Methods(), 1)
	assert.Equal(t, StyleAsync, objectIfaces[0].Methods()[0].Style, "object-mode load reads the {XMLNS}object attribute")

	proxyIfaces, err := Load(strings.NewReader(withStyle), DirectionIn, gencontext.ModeProxy)
	require.NoError(t, err)
	require.Len(t, proxyIfaces, 1)
	require.Len(t, proxyIfaces[0].Methods(), 1)
	assert.Equal(t, StyleSync, proxyIfaces[0].Methods()[0].Style, "proxy-mode load reads the {XMLNS}proxy attribute instead")
}

func TestLoadRejectsUnknownStyleValue(t *testing.T) {
	const bad = `<node xmlns:nih="http://www.netsplit.com/nih/dbus">
  <interface name="x.Y"><method name="Z" nih:object="whenever"/></interface>
</node>`
	_, err := Load(strings.NewReader(bad), DirectionIn, gencontext.ModeObject)
	require.Error(t, err)
}

func TestExternNameSplitsCamelCaseAndLowercases(t *testing.T) {
	assert.Equal(t, "my_prefix_get_value", ExternName("my_prefix", "GetValue"))
}

func TestCNameReplacesDotsWithUnderscores(t *testing.T) {
	iface := Interface{Name: "org.freedesktop.Upstart.Job"}
	assert.Equal(t, "org_freedesktop_Upstart_Job", iface.CName())
}
