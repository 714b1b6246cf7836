package cpp

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/emitter/output"
	"github.com/teranos/clad/errors"
	"github.com/teranos/clad/logger"
)

// emitter renders declarations into one sink. The same emitter type produces
// the header, the source file and the tag header, each into its own sink.
type emitter struct {
	s    *output.Sink
	opts Options
	log  *zap.SugaredLogger
}

func newEmitter(opts Options) *emitter {
	return &emitter{
		s:    output.NewSink(),
		opts: opts,
		log:  logger.Named("emitter.cpp"),
	}
}

// abort stops rendering. Only Generate recovers it.
type abort struct{ err error }

func fail(err error) {
	panic(abort{err})
}

// recoverAbort turns an abort raised while rendering into an error. Any other
// panic is re-raised.
func recoverAbort(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if a, ok := r.(abort); ok {
		*err = a.err
		return
	}
	panic(r)
}

// versionHashBytes decodes a declaration's hex digest
func versionHashBytes(d ast.Scoped, hashStr string) []byte {
	data, err := hex.DecodeString(hashStr)
	if err != nil || len(data) != 16 {
		fail(errors.AssertionFailedf("%s has malformed version hash %q", d.FullyQualifiedName(), hashStr))
	}
	return data
}

// declareVersionHash writes the extern declarations of a declaration's hash constants
func (e *emitter) declareVersionHash(name string) {
	e.s.Linef("extern const char* %sVersionHashStr;", name)
	e.s.Linef("extern const uint8_t %sVersionHash[16];", name)
	e.s.Write("\n")
}

// defineVersionHash writes the hash string and its 16 decoded bytes
func (e *emitter) defineVersionHash(d ast.Scoped, name, hashStr string) {
	data := versionHashBytes(d, hashStr)
	e.s.Linef("const char* %sVersionHashStr = \"%s\";", name, hashStr)
	e.s.Write("\n")
	e.s.Linef("const uint8_t %sVersionHash[16] = {", name)
	hexBytes := make([]string, len(data))
	for i, b := range data {
		hexBytes[i] = fmt.Sprintf("0x%x", b)
	}
	e.s.Linef("\t%s", strings.Join(hexBytes, ", "))
	e.s.Write("};\n\n")
}

// hexInt renders v the way a hex initializer was written
func hexInt(v int64) string {
	if v < 0 {
		return fmt.Sprintf("-0x%x", -v)
	}
	return fmt.Sprintf("0x%x", v)
}

// literalText renders an initializer for a member of type t
func literalText(t ast.Type, lit *ast.Literal) string {
	switch lit.Kind {
	case ast.LiteralHex:
		return hexInt(lit.Int)
	case ast.LiteralDec:
		return strconv.FormatInt(lit.Int, 10)
	case ast.LiteralBool:
		return lit.Text
	case ast.LiteralFloat:
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	}
	// Evaluated expressions are written as their value; enum members and
	// strings keep their source spelling
	if b, ok := t.(*ast.BuiltinType); ok {
		if b.Kind == ast.KindFloat {
			return strconv.FormatFloat(lit.Float, 'g', -1, 64)
		}
		return strconv.FormatInt(lit.Int, 10)
	}
	return lit.Text
}
