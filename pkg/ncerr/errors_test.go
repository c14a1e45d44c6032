package ncerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"bad input", NewBadInput("bad token %q", "@FOO"), BadInput},
		{"file not found", NewFileNotFound("no such file: %s", "x.ncmat"), FileNotFound},
		{"missing info", NewMissingInfo("parameter %q not set", "mos"), MissingInfo},
		{"calc error", NewCalcError("degenerate orientation matrix"), CalcError},
		{"logic error", NewLogicError("mutation under active access spy"), LogicError},
		{"unclassified", errors.New("plain error"), BadInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestBadInputAtIncludesLocation(t *testing.T) {
	err := NewBadInputAt("foo.ncmat", 12, "unexpected token %q", "@BOGUS")
	require.True(t, Is(err, BadInput))
	require.Contains(t, err.Error(), "foo.ncmat")
	require.Contains(t, err.Error(), "line 12")
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &MatError{Kind: CalcError, Err: inner}
	require.ErrorIs(t, err, inner)
}
