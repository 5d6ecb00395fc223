package dbustype

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var scalarKinds = []Kind{Byte, Bool, Int16, UInt16, Int32, UInt32, Int64, UInt64, Double}
var stringKinds = []Kind{String, ObjectPath, Signature}

func genIdentifier() gopter.Gen {
	return gen.RegexMatch(`[a-z][a-z0-9_]{0,8}`)
}

// TestVariableArityProperty verifies spec.md §8 Testable Property 2:
// scalar and string-like types always report exactly one Vars() entry;
// arrays report one or two depending on whether the element is
// NUL-terminable.
func TestVariableArityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("scalar and string-like kinds always declare exactly one var", prop.ForAll(
		func(name string) bool {
			for _, k := range append(append([]Kind{}, scalarKinds...), stringKinds...) {
				n := NewNode(k, name)
				if len(n.Vars(Modifiers{})) != 1 {
					return false
				}
			}
			return true
		},
		genIdentifier(),
	))

	properties.Property("array of scalar declares two vars, array of string-like declares one", prop.ForAll(
		func(name string) bool {
			for _, k := range scalarKinds {
				arr, err := ArrayOf(k)
				if err != nil {
					return false
				}
				if len(NewNode(arr, name).Vars(Modifiers{})) != 2 {
					return false
				}
			}
			for _, k := range stringKinds {
				arr, err := ArrayOf(k)
				if err != nil {
					return false
				}
				if len(NewNode(arr, name).Vars(Modifiers{})) != 1 {
					return false
				}
			}
			return true
		},
		genIdentifier(),
	))

	properties.TestingRun(t)
}

// TestNameDerivationStabilityProperty verifies spec.md §8 Testable
// Property 3: every derived identifier is a deterministic function of the
// node's own Name and starts with that Name.
func TestNameDerivationStabilityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("derived identifiers are stable and base-prefixed", prop.ForAll(
		func(name string) bool {
			arr, err := ArrayOf(Int32)
			if err != nil {
				return false
			}
			n := NewNode(arr, name)

			first := []string{n.iterName(), n.lenName(), n.loopName(), n.valueName(), n.elemNode().Name}
			second := []string{n.iterName(), n.lenName(), n.loopName(), n.valueName(), n.elemNode().Name}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
				if !strings.HasPrefix(first[i], name) {
					return false
				}
			}
			return true
		},
		genIdentifier(),
	))

	properties.TestingRun(t)
}
