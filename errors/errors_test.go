package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrSyntax, "parsing robot.clad")

	assert.Contains(t, wrapped.Error(), "parsing robot.clad")
	assert.Contains(t, wrapped.Error(), "syntax error")
	assert.True(t, Is(wrapped, ErrSyntax))
	assert.False(t, Is(wrapped, ErrConstraint))
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrUnresolvedSymbol, "declare the enum before the message that uses it")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "declare the enum before the message that uses it", hints[0])
}

func TestWithDetail(t *testing.T) {
	err := WithDetail(New("bad schema"), "  3\tmessage Foo {")

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "message Foo")
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func TestCategoryHelpers(t *testing.T) {
	assert.False(t, IsNotFoundError(nil))
	assert.True(t, IsNotFoundError(Wrap(ErrNotFound, "include \"a.clad\"")))
	assert.False(t, IsConstraintError(nil))
	assert.True(t, IsConstraintError(Wrap(ErrConstraint, "checking")))
}

func TestDiagnostic(t *testing.T) {
	tests := []struct {
		name  string
		coord Coord
		msg   string
		want  string
	}{
		{
			name:  "full coordinate",
			coord: Coord{File: "schemas/robot.clad", Line: 12, Column: 5},
			msg:   "unexpected '}'",
			want:  "schemas/robot.clad:12:5: unexpected '}'",
		},
		{
			name:  "no file",
			coord: Coord{Line: 3, Column: 1},
			msg:   "expected identifier",
			want:  "3:1: expected identifier",
		},
		{
			name: "zero coordinate",
			msg:  "no position",
			want: "no position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDiagnostic(ErrSyntax, tt.coord, tt.msg)
			assert.Equal(t, tt.want, err.Error())
			assert.True(t, Is(err, ErrSyntax))

			d, ok := AsDiagnostic(err)
			require.True(t, ok)
			assert.Equal(t, tt.coord, d.Coord)
		})
	}
}

func TestDiagnosticSurvivesWrapping(t *testing.T) {
	err := NewDiagnosticf(ErrConstraint, Coord{File: "a.clad", Line: 1, Column: 2}, "member %s", "x")
	err = Wrap(err, "checking a.clad")

	assert.True(t, Is(err, ErrConstraint))
	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, "member x", d.Message)
	assert.Equal(t, "a.clad:1:2", d.Coord.String())
}

func TestShortFile(t *testing.T) {
	c := Coord{File: "/abs/path/to/robot.clad", Line: 1, Column: 1}
	assert.Equal(t, "robot.clad:1:1", c.ShortFile().String())
}

func TestCombine(t *testing.T) {
	assert.NoError(t, Combine(nil))

	single := NewDiagnostic(ErrConstraint, Coord{File: "a.clad", Line: 1, Column: 1}, "first")
	assert.Equal(t, single, Combine([]error{single}))

	second := NewDiagnostic(ErrConstraint, Coord{File: "a.clad", Line: 4, Column: 3}, "second")
	err := Combine([]error{single, second})
	assert.Equal(t, "a.clad:1:1: first\na.clad:4:3: second", err.Error())
	assert.True(t, IsConstraintError(err))
	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	assert.Equal(t, "first", d.Message)
}

func ExampleWrap() {
	err := Wrap(ErrNotFound, "include \"shared.clad\"")
	fmt.Println(err)
	// Output: include "shared.clad": not found
}
