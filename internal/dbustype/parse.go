package dbustype

import "fmt"

var byCode = map[byte]Kind{
	'y': Byte,
	'b': Bool,
	'n': Int16,
	'q': UInt16,
	'i': Int32,
	'u': UInt32,
	'x': Int64,
	't': UInt64,
	'd': Double,
	's': String,
	'o': ObjectPath,
	'g': Signature,
}

// ParseSignature resolves a D-Bus type signature string into a Kind,
// rejecting variant/struct/dict-entry and any other construct outside the
// closed catalog at the point the signature is first seen (spec.md §1
// Non-goals, §7 "unsupported constructs are rejected at construction, not
// deep inside code generation").
func ParseSignature(sig string) (Kind, error) {
	k, rest, err := parseOne(sig)
	if err != nil {
		return Kind{}, err
	}
	if rest != "" {
		return Kind{}, &UnsupportedError{Signature: sig, Reason: "a single argument must be exactly one complete type"}
	}
	return k, nil
}

func parseOne(sig string) (Kind, string, error) {
	if sig == "" {
		return Kind{}, "", &UnsupportedError{Signature: sig, Reason: "empty signature"}
	}

	c := sig[0]
	switch c {
	case 'a':
		elem, rest, err := parseOne(sig[1:])
		if err != nil {
			return Kind{}, "", err
		}
		arr, err := ArrayOf(elem)
		if err != nil {
			return Kind{}, "", &UnsupportedError{Signature: sig, Reason: err.Error()}
		}
		return arr, rest, nil
	case 'v':
		return Kind{}, "", &UnsupportedError{Signature: sig, Reason: "variant is not supported"}
	case '(':
		return Kind{}, "", &UnsupportedError{Signature: sig, Reason: "struct is not supported"}
	case '{':
		return Kind{}, "", &UnsupportedError{Signature: sig, Reason: "dict-entry is not supported"}
	}

	k, ok := byCode[c]
	if !ok {
		return Kind{}, "", &UnsupportedError{Signature: sig, Reason: fmt.Sprintf("unknown type code %q", c)}
	}
	return k, sig[1:], nil
}
