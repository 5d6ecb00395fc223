package dbustype

import "strings"

// Var is a single (native type, identifier) pair as returned by Vars() and
// Locals() (spec.md §4.B). CType always carries its own pointer spelling
// (e.g. "char *", "int32_t *"); Decl renders the two as a declaration.
type Var struct {
	CType string
	Name  string
}

// Decl renders "<type> <name>;" with the minimal spacing a human would
// write by hand (no cross-declaration column alignment: that lineup pass is
// explicitly out of scope per spec.md §1 and lives, if anywhere, in the
// output assembler's cosmetic pass, not in the type engine).
func (v Var) Decl() string {
	return declareType(v.CType) + v.Name + ";"
}

// declareType returns "<basic> " or "<basic> *" (stars attached to the
// variable side, matching K&R C style) ready to prefix onto an identifier.
func declareType(ctype string) string {
	basic := strings.TrimRight(ctype, "*")
	stars := ctype[len(basic):]
	basic = strings.TrimRight(basic, " ")
	if stars == "" {
		return basic + " "
	}
	return basic + " " + stars
}

func varDecl(ctype cType, name string) string {
	return Var{CType: string(ctype), Name: name}.Decl()
}
