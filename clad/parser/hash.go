package parser

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/teranos/clad/clad/ast"
)

// versionHashKey separates declaration hashes from any other BLAKE3 use
var versionHashKey = domainKey("clad.version.hash")

// domainKey zero-pads a domain name to a 32-byte BLAKE3 key
func domainKey(domain string) [32]byte {
	var key [32]byte
	copy(key[:], domain)
	return key
}

// hashDecl returns the version hash of d: the first 16 bytes of a keyed
// BLAKE3 over its canonical rendering, as lowercase hex.
func hashDecl(d ast.Scoped) string {
	hasher, err := blake3.NewKeyed(versionHashKey[:])
	if err != nil {
		panic("parser: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = hasher.Write([]byte(canonical(d)))
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// canonical renders the parts of a declaration that affect its wire format
// and generated API. Referenced declarations contribute their own hash.
func canonical(d ast.Scoped) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", ast.KindOf(d), d.FullyQualifiedName())

	switch d := d.(type) {
	case *ast.EnumDecl:
		fmt.Fprintf(&b, "storage %s class=%t\n", d.StorageType.Name(), d.CppClass)
		for _, m := range d.Members {
			fmt.Fprintf(&b, "%s=%d\n", m.Name, m.Value)
		}
	case *ast.MessageDecl:
		for _, m := range d.Members {
			fmt.Fprintf(&b, "%s %s", typeShape(m.Type), m.Name)
			if m.Init != nil {
				fmt.Fprintf(&b, "=%s", m.Init.Text)
			}
			b.WriteString("\n")
		}
	case *ast.UnionDecl:
		fmt.Fprintf(&b, "tag %s invalid=%d\n", d.TagStorageType.Name(), d.InvalidTag)
		for _, m := range d.Members {
			fmt.Fprintf(&b, "%s %s=%d\n", typeShape(m.Type), m.Name, m.Tag)
		}
	case *ast.EnumConceptDecl:
		fmt.Fprintf(&b, "returns %s for %s@%s\n", typeShape(d.ReturnType), d.Enum.FullyQualifiedName(), d.Enum.HashStr)
		for _, m := range d.Members {
			fmt.Fprintf(&b, "%s=%s\n", m.Name, m.Value.Text)
		}
	}
	return b.String()
}

func typeShape(t ast.Type) string {
	switch t := t.(type) {
	case *ast.DefinedType:
		return t.FullyQualifiedName() + "@" + t.Decl.HashStr
	case *ast.CompoundType:
		return t.FullyQualifiedName() + "@" + compoundHash(t.Decl)
	case *ast.FixedArrayType:
		return fmt.Sprintf("%s[%s]", typeShape(t.MemberType), t.Length)
	case *ast.VariableArrayType:
		return fmt.Sprintf("%s[%s:%d]", typeShape(t.MemberType), t.LengthType.Name(), t.MaxLength)
	}
	return t.FullyQualifiedName()
}

func compoundHash(d ast.Compound) string {
	switch d := d.(type) {
	case *ast.MessageDecl:
		return d.HashStr
	case *ast.UnionDecl:
		return d.HashStr
	}
	return ""
}
