package cpp

import (
	"fmt"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/errors"
)

// Check verifies that every message and union, including those pulled in
// through includes, can be laid out by the C++ Lite runtime. All violations
// are returned together; nil means the schema is emittable.
func Check(list *ast.DeclList, opts Options) error {
	c := &checker{opts: opts, seen: map[ast.Decl]bool{}}
	ast.Walk(list.Decls, true, func(d ast.Decl) bool {
		if c.seen[d] {
			return false
		}
		c.seen[d] = true
		switch d := d.(type) {
		case *ast.MessageDecl:
			c.checkMessage(d)
		case *ast.UnionDecl:
			c.checkUnion(d)
		}
		return true
	})
	return errors.Combine(c.violations)
}

type checker struct {
	opts       Options
	seen       map[ast.Decl]bool // Included files are shared between includers
	violations []error
}

func (c *checker) checkMessage(d *ast.MessageDecl) {
	c.checkMaximumSize(d)
	c.checkSubUnions(d)
	c.checkArrays(d)
	c.checkFixedLength(d)
	c.checkEmptyMessagesInMessages(d)
	c.checkAlignment(d)
}

func (c *checker) checkUnion(d *ast.UnionDecl) {
	c.checkMaximumSize(d)
	c.checkSubUnions(d)
	c.checkArrays(d)
}

// fail records a violation at node. Member violations name the member.
func (c *checker) fail(obj ast.Compound, node ast.Node, format string, args ...interface{}) {
	name := obj.FullyQualifiedName()
	if m, ok := node.(ast.Member); ok {
		name += "::" + m.MemberName()
	}
	c.violations = append(c.violations, errors.NewDiagnosticf(errors.ErrConstraint, node.Pos(),
		"C++ Lite emitter constraint violated by %s: %s", name, fmt.Sprintf(format, args...)))
}

func (c *checker) checkMaximumSize(d ast.Compound) {
	if c.opts.MaxMessageSize > 0 && d.MaxMessageSize() > c.opts.MaxMessageSize {
		c.fail(d, d, "%s is maximum %d bytes, larger than the maximum message size of %d.",
			d.FullyQualifiedName(), d.MaxMessageSize(), c.opts.MaxMessageSize)
	}
}

func (c *checker) checkSubUnions(d ast.Compound) {
	for _, m := range ast.MembersOf(d) {
		if ct, ok := m.MemberType().(*ast.CompoundType); ok && ct.IsUnion() {
			c.fail(d, m, "Unable to nest union types in C++ Lite emitter due to padding issues.")
		}
	}
}

func (c *checker) checkArrays(d ast.Compound) {
	_, inUnion := d.(*ast.UnionDecl)
	for _, m := range ast.MembersOf(d) {
		var element ast.Type
		switch t := m.MemberType().(type) {
		case *ast.FixedArrayType:
			element = t.MemberType
		case *ast.VariableArrayType:
			element = t.MemberType
		default:
			continue
		}

		switch element.(type) {
		case *ast.FixedArrayType, *ast.VariableArrayType:
			c.fail(d, m, "Unable to have arrays of arrays or strings due to padding issues.")
		}
		if !element.IsMessageSizeFixed() {
			c.fail(d, m, "Cannot have variable-length data inside an array.")
		}
		if element.MaxMessageSize()%element.Alignment() != 0 {
			c.fail(d, m, "Cannot have an array of a type that is not a multiple of its own alignment. "+
				"A %s's size is %d, which is not divisible by its alignment, %d.",
				element.FullyQualifiedName(), element.MaxMessageSize(), element.Alignment())
		}

		varray, ok := m.MemberType().(*ast.VariableArrayType)
		if !ok {
			continue
		}
		if varray.MaxLength > 255 && !varray.MaxLengthIsSpecified {
			c.fail(d, m, "You must specify a maximum length for variable-length arrays that have a larger length type than 1 byte.")
		}
		if inUnion && varray.LengthType.MaxMessageSize()%element.Alignment() != 0 {
			c.fail(d, m, "You cannot have variable-length arrays in unions that cannot be aligned properly. "+
				"%s::%s would be represented as %d-byte length followed by a %d-byte aligned %s array.",
				d.FullyQualifiedName(), m.MemberName(), varray.LengthType.MaxMessageSize(),
				element.Alignment(), element.Name())
		}
	}
}

// checkFixedLength requires every member but the last to have a fixed size
// and no trailing padding
func (c *checker) checkFixedLength(d *ast.MessageDecl) {
	if len(d.Members) == 0 {
		return
	}
	for _, m := range d.Members[:len(d.Members)-1] {
		if !m.Type.IsMessageSizeFixed() {
			c.fail(d, m, "All message members, other than the last, must be fixed length.")
		}
		if m.Type.MaxMessageSize()%m.Type.Alignment() != 0 {
			c.fail(d, m, "You may only put a message with trailing padding as the last member.")
		}
	}
}

func (c *checker) checkEmptyMessagesInMessages(d *ast.MessageDecl) {
	for _, m := range d.Members {
		if ct, ok := m.Type.(*ast.CompoundType); ok && ct.IsMessage() && ct.MaxMessageSize() == 0 {
			c.fail(d, m, "Unable to have 0-length structs as members of structs due to padding and portability issues.")
		}
	}
}

// checkAlignment walks the serialized layout and rejects members that would
// start on an offset their alignment does not divide
func (c *checker) checkAlignment(d *ast.MessageDecl) {
	offset := 0
	for _, m := range d.Members {
		if varray, ok := m.Type.(*ast.VariableArrayType); ok {
			c.testAlignment(d, m, "Its length type", varray.LengthType, offset)
			c.testAlignment(d, m, "Its member type", varray.MemberType, offset+varray.LengthType.MaxMessageSize())
		} else {
			c.testAlignment(d, m, "It", m.Type, offset)
		}
		offset += m.Type.MaxMessageSize()
	}
}

func (c *checker) testAlignment(d *ast.MessageDecl, m *ast.MessageMemberDecl, role string, t ast.Type, offset int) {
	if offset%t.Alignment() != 0 {
		c.fail(d, m, "Cannot put a %s at byte offset %d. (%s has alignment %d and may get padded.)",
			t.FullyQualifiedName(), offset, role, t.Alignment())
	}
}
