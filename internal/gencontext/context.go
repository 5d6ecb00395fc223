// Package gencontext holds the two process-wide configuration values the
// original nih-dbus-tool read from module globals (mode, extern_prefix) and
// threads them explicitly through the generation pipeline instead.
package gencontext

import "fmt"

// Mode selects which side of a D-Bus interface the generator emits.
type Mode int

const (
	// ModeObject emits the server (object) side: marshal incoming method
	// calls into handler calls, dispatch signal emission.
	ModeObject Mode = iota
	// ModeProxy emits the client (proxy) side: dispatch typed calls into
	// messages, marshal replies back into typed locals.
	ModeProxy
)

func (m Mode) String() string {
	switch m {
	case ModeObject:
		return "object"
	case ModeProxy:
		return "proxy"
	default:
		return "unknown"
	}
}

// ParseMode converts a CLI/config string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "object":
		return ModeObject, nil
	case "proxy":
		return ModeProxy, nil
	default:
		return 0, fmt.Errorf("gencontext: unknown mode %q (want \"object\" or \"proxy\")", s)
	}
}

// Context is the explicit, read-only configuration passed to the member
// constructors and ifacegen.Build and carried in assemble.Output; dbustype
// needs neither value and takes no Context. It replaces the two global
// variables (mode, extern_prefix) of the original tool; per spec.md §5 it is
// fixed before generation begins and never mutated during a pass.
type Context struct {
	// Mode selects object or proxy generation.
	Mode Mode
	// Prefix is prepended to every externally supplied handler name
	// (e.g. "dbus" -> "dbus_ping").
	Prefix string
}

// New returns a Context with the given mode and prefix.
func New(mode Mode, prefix string) Context {
	return Context{Mode: mode, Prefix: prefix}
}
