package cpp

import (
	"fmt"
	"strings"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/emitter/output"
)

// writePack emits the statements that serialize one member into `buffer`
func writePack(s *output.Sink, t ast.Type, member string) {
	switch t := t.(type) {
	case *ast.PascalStringType:
		s.Linef("buffer.WritePString<%s>(this->%s);", ValueType(t.LengthType), member)
	case *ast.CompoundType:
		s.Linef("this->%s.Pack(buffer);", member)
	case *ast.FixedArrayType:
		switch e := t.MemberType.(type) {
		case *ast.PascalStringType:
			s.Linef("buffer.WritePStringFArray<%s, %s>(this->%s);", arrayLength(t), ValueType(e.LengthType), member)
		case *ast.CompoundType:
			writePackLoop(s, e, member)
		default:
			s.Linef("buffer.WriteFArray<%s, %s>(this->%s);", ValueType(e), arrayLength(t), member)
		}
	case *ast.VariableArrayType:
		switch e := t.MemberType.(type) {
		case *ast.PascalStringType:
			s.Linef("buffer.WritePStringVArray<%s, %s>(this->%s);", ValueType(t.LengthType), ValueType(e.LengthType), member)
		case *ast.CompoundType:
			s.Linef("buffer.Write(static_cast<%s>(this->%s.size()));", ValueType(t.LengthType), member)
			writePackLoop(s, e, member)
		default:
			s.Linef("buffer.WriteVArray<%s, %s>(this->%s);", ValueType(e), ValueType(t.LengthType), member)
		}
	default:
		s.Linef("buffer.Write(this->%s);", member)
	}
}

func writePackLoop(s *output.Sink, element ast.Type, member string) {
	s.Linef("for (%s m : this->%s) {", ParameterType(element), member)
	s.Line("\tm.Pack(buffer);")
	s.Line("}")
}

// writeUnpack emits the statements that deserialize one member from `buffer`
func writeUnpack(s *output.Sink, t ast.Type, member string) {
	switch t := t.(type) {
	case *ast.PascalStringType:
		s.Linef("buffer.ReadPString<%s>(this->%s);", ValueType(t.LengthType), member)
	case *ast.CompoundType:
		s.Linef("this->%s.Unpack(buffer);", member)
	case *ast.FixedArrayType:
		switch e := t.MemberType.(type) {
		case *ast.PascalStringType:
			s.Linef("buffer.ReadPStringFArray<%s, %s>(this->%s);", arrayLength(t), ValueType(e.LengthType), member)
		case *ast.CompoundType:
			s.Linef("buffer.ReadCompoundTypeFArray<%s, %s>(this->%s);", ValueType(e), arrayLength(t), member)
		default:
			s.Linef("buffer.ReadFArray<%s, %s>(this->%s);", ValueType(e), arrayLength(t), member)
		}
	case *ast.VariableArrayType:
		switch e := t.MemberType.(type) {
		case *ast.PascalStringType:
			s.Linef("buffer.ReadPStringVArray<%s, %s>(this->%s);", ValueType(t.LengthType), ValueType(e.LengthType), member)
		case *ast.CompoundType:
			s.Linef("buffer.ReadCompoundTypeVArray<%s, %s>(this->%s);", ValueType(e), ValueType(t.LengthType), member)
		default:
			s.Linef("buffer.ReadVArray<%s, %s>(this->%s);", ValueType(e), ValueType(t.LengthType), member)
		}
	default:
		s.Linef("buffer.Read(this->%s);", member)
	}
}

// writeSize emits statements adding one member's serialized size to `result`
func writeSize(s *output.Sink, t ast.Type, member string) {
	switch t := t.(type) {
	case *ast.CompoundType:
		s.Linef("result += this->%s.Size(); // %s", member, t.Name())
	case *ast.FixedArrayType:
		if t.MemberType.IsMessageSizeFixed() {
			s.Linef("result += %d * %s; // %s * %s",
				t.MemberType.MaxMessageSize(), arrayLength(t), t.MemberType.Name(), t.Length)
			return
		}
		s.Linef("for (%s m : this->%s) {", ParameterType(t.MemberType), member)
		s.Line("\tresult += m.Size();")
		s.Line("}")
	case *ast.VariableArrayType:
		s.Linef("result += %d; // %s (%s)", t.LengthType.Size, t.LengthType.Name(), LengthMemberName(member))
		if t.MemberType.IsMessageSizeFixed() {
			s.Linef("result += %d * this->%s.size(); // %s", t.MemberType.MaxMessageSize(), member, t.MemberType.Name())
			return
		}
		s.Linef("for (%s m : this->%s) {", ParameterType(t.MemberType), member)
		s.Line("\tresult += m.Size();")
		s.Line("}")
	case *ast.PascalStringType:
		s.Linef("result += %d; // %s (%s)", t.LengthType.Size, t.LengthType.Name(), LengthMemberName(member))
		s.Linef("result += this->%s.size(); // char", member)
	default:
		s.Linef("result += %d; // %s", t.MaxMessageSize(), t.Name())
	}
}

// validity returns a C++ boolean expression that holds when the member's
// current value can be packed and unpacked unchanged
func validity(t ast.Type, member string) string {
	var checks []string
	switch t := t.(type) {
	case *ast.CompoundType:
		return fmt.Sprintf("this->%s.IsValid()", member)
	case *ast.FixedArrayType:
		if !t.MemberType.AreAllRepresentationsValid() {
			checks = append(checks, allValid(t.MemberType, member))
		}
	case *ast.VariableArrayType:
		if ast.LengthNeedsUpperBound(t.LengthType, t.MaxLength) {
			checks = append(checks, fmt.Sprintf("this->%s.size() <= %d", member, t.MaxLength))
		}
		if !t.MemberType.AreAllRepresentationsValid() {
			checks = append(checks, allValid(t.MemberType, member))
		}
	case *ast.PascalStringType:
		if ast.LengthNeedsUpperBound(t.LengthType, t.MaxLength) {
			checks = append(checks, fmt.Sprintf("this->%s.size() <= %d", member, t.MaxLength))
		}
	}
	if len(checks) == 0 {
		return "true"
	}
	return strings.Join(checks, " && ")
}

func allValid(element ast.Type, member string) string {
	return fmt.Sprintf("std::all_of(this->%[1]s.begin(), this->%[1]s.end(), [](%[2]s m) { return m.IsValid(); })",
		member, ParameterType(element))
}
