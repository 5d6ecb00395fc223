// Package schema holds the parsed-tree data model that the introspection
// XML parser (out of scope per spec.md §1) produces and the synthesis
// engine in internal/dbustype, internal/member, and internal/ifacegen
// consumes. Nothing in this package touches encoding/xml directly except
// Load, which is a thin convenience wrapper kept here only because the
// pack's teacher repo (goadesign-goa-ai) also keeps its expr-tree loader
// next to the tree types it populates.
package schema

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/keybuk/libnih/internal/gencontext"
)

// Direction is an argument's "in"/"out" attribute.
type Direction int

const (
	// DirectionIn marks an argument carried from caller to callee.
	DirectionIn Direction = iota
	// DirectionOut marks an argument carried from callee back to caller.
	DirectionOut
)

func (d Direction) String() string {
	if d == DirectionOut {
		return "out"
	}
	return "in"
}

// Style is a method's mode-scoped "sync"/"async" attribute (spec.md §3:
// "Style is read from a namespaced attribute in the XML; default is sync.
// Only methods admit async."). Whether a given call expects no reply at all
// is a runtime property of the message itself (dbus_message_get_no_reply),
// not a static style, so there is no third enum value for it.
type Style int

const (
	// StyleSync is the default: the marshaller blocks for a handler
	// return value and sends a reply immediately.
	StyleSync Style = iota
	// StyleAsync defers the reply to a separately emitted "_reply"
	// function the handler calls once it has a result.
	StyleAsync
)

// Arg is a single <arg> element: a name, a D-Bus signature string (not yet
// resolved into a dbustype.Kind — that happens in internal/member, which is
// where construction-time rejection of unsupported signatures belongs),
// and a direction.
type Arg struct {
	Name      string
	Signature string
	Direction Direction
}

// Member is either a Method or a Signal; Kind distinguishes them since Go
// has no closed sum of struct types the way the original tool's Method/
// Signal subclasses of MemberWithArgs do.
type MemberKind int

const (
	// MemberMethod is a <method> element.
	MemberMethod MemberKind = iota
	// MemberSignal is a <signal> element.
	MemberSignal
)

// Member is one <method> or <signal> element: a name, its ordered
// argument list, and (methods only) a reply style.
type Member struct {
	Kind       MemberKind
	Name       string
	Args       []Arg
	Style      Style
	Deprecated bool
}

// InArgs returns the subset of Args with DirectionIn, in declaration order.
func (m Member) InArgs() []Arg { return m.filterArgs(DirectionIn) }

// OutArgs returns the subset of Args with DirectionOut, in declaration order.
func (m Member) OutArgs() []Arg { return m.filterArgs(DirectionOut) }

func (m Member) filterArgs(dir Direction) []Arg {
	var out []Arg
	for _, a := range m.Args {
		if a.Direction == dir {
			out = append(out, a)
		}
	}
	return out
}

// Interface is one <interface> element: a dotted D-Bus interface name and
// its ordered member list.
type Interface struct {
	Name       string
	Members    []Member
	Deprecated bool
}

// Methods returns the subset of Members with MemberMethod, in declaration order.
func (i Interface) Methods() []Member { return i.filterMembers(MemberMethod) }

// Signals returns the subset of Members with MemberSignal, in declaration order.
func (i Interface) Signals() []Member { return i.filterMembers(MemberSignal) }

func (i Interface) filterMembers(kind MemberKind) []Member {
	var out []Member
	for _, m := range i.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

var nameRE = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// CName returns the interface's dotted name rewritten into the identifier
// the original tool derives for C symbols: dots become underscores, and
// the name is otherwise left alone (spec.md §4.D "com.example.Foo" ->
// "com_example_Foo").
func (i Interface) CName() string {
	return strings.ReplaceAll(i.Name, ".", "_")
}

// ExternName lower-cases and underscore-splits a CamelCase member name the
// same way the original tool's extern_name property does, then prefixes it
// with the generation prefix (spec.md §4.D; threaded explicitly via
// internal/gencontext.Context.Prefix rather than the original's
// process-wide extern_prefix global).
func ExternName(prefix, memberName string) string {
	lowered := nameRE.ReplaceAllString(memberName, "${1}_${2}")
	return prefix + "_" + strings.ToLower(lowered)
}

// xmlDoc, xmlInterface, xmlMember, and xmlArg mirror the introspection XML
// grammar closely enough for Load to decode it; they are not exported
// because schema.Interface is the stable type the rest of the engine
// depends on.
type xmlDoc struct {
	XMLName    xml.Name
	Interfaces []xmlInterface `xml:"interface"`
	// xmlInterface is filled when the root element is itself an <interface>.
	xmlInterface
}

type xmlInterface struct {
	Name       string     `xml:"name,attr"`
	Methods    []xmlArgd  `xml:"method"`
	Signals    []xmlArgd  `xml:"signal"`
	Annotation []xmlAnnot `xml:"annotation"`
}

type xmlArgd struct {
	Name        string     `xml:"name,attr"`
	Args        []xmlArg   `xml:"arg"`
	Annotation  []xmlAnnot `xml:"annotation"`
	ObjectStyle string     `xml:"http://www.netsplit.com/nih/dbus object,attr"`
	ProxyStyle  string     `xml:"http://www.netsplit.com/nih/dbus proxy,attr"`
}

type xmlArg struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	Direction string `xml:"direction,attr"`
}

type xmlAnnot struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Load decodes an introspection XML document into the ordered interface
// list the synthesis engine consumes. The XML grammar itself (and the file
// I/O wrapping it) is out of scope per spec.md §1; this exists only so the
// cmd/nih-dbus-tool CLI shell has somewhere to call rather than reaching
// into encoding/xml directly.
func Load(r io.Reader, defaultDir Direction, mode gencontext.Mode) ([]Interface, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("schema: decode introspection XML: %w", err)
	}

	xifaces := doc.Interfaces
	if doc.XMLName.Local == "interface" {
		xifaces = []xmlInterface{doc.xmlInterface}
	}

	var out []Interface
	for _, xi := range xifaces {
		iface := Interface{Name: xi.Name, Deprecated: isDeprecated(xi.Annotation)}
		if xi.Name == "" {
			return nil, fmt.Errorf("schema: interface name may not be empty")
		}
		for _, xm := range xi.Methods {
			m, err := loadMember(MemberMethod, xm, defaultDir, mode)
			if err != nil {
				return nil, fmt.Errorf("schema: interface %s: %w", xi.Name, err)
			}
			iface.Members = append(iface.Members, m)
		}
		for _, xs := range xi.Signals {
			m, err := loadMember(MemberSignal, xs, DirectionOut, mode)
			if err != nil {
				return nil, fmt.Errorf("schema: interface %s: %w", xi.Name, err)
			}
			iface.Members = append(iface.Members, m)
		}
		out = append(out, iface)
	}
	return out, nil
}

// styleAttr resolves the mode-scoped "{XMLNS}object"/"{XMLNS}proxy" style
// attribute (spec.md §6, ported from nih_dbus_tool.py's
// `elem.get(QName(XMLNS, mode), self.style)`): the attribute read depends on
// which side is being generated, and it only ever applies to methods — "Only
// methods admit async" (spec.md §3).
func styleAttr(xm xmlArgd, mode gencontext.Mode) string {
	if mode == gencontext.ModeProxy {
		return xm.ProxyStyle
	}
	return xm.ObjectStyle
}

func loadMember(kind MemberKind, xm xmlArgd, defaultDir Direction, mode gencontext.Mode) (Member, error) {
	if xm.Name == "" {
		return Member{}, fmt.Errorf("member name may not be empty")
	}
	m := Member{Kind: kind, Name: xm.Name, Deprecated: isDeprecated(xm.Annotation)}
	for _, a := range xm.Args {
		if a.Type == "" {
			return Member{}, fmt.Errorf("member %s: arg %s missing type", xm.Name, a.Name)
		}
		dir := defaultDir
		switch a.Direction {
		case "in":
			dir = DirectionIn
		case "out":
			dir = DirectionOut
		case "":
			// inherit defaultDir
		default:
			return Member{}, fmt.Errorf("member %s: arg %s has unknown direction %q", xm.Name, a.Name, a.Direction)
		}
		m.Args = append(m.Args, Arg{Name: a.Name, Signature: a.Type, Direction: dir})
	}
	if kind == MemberMethod {
		switch styleAttr(xm, mode) {
		case "", "sync":
			m.Style = StyleSync
		case "async":
			m.Style = StyleAsync
		default:
			return Member{}, fmt.Errorf("member %s: unknown style %q", xm.Name, styleAttr(xm, mode))
		}
	}
	return m, nil
}

func isDeprecated(annots []xmlAnnot) bool {
	for _, a := range annots {
		if a.Name == "org.freedesktop.DBus.Deprecated" && a.Value == "true" {
			return true
		}
	}
	return false
}
