package matfmt

import (
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
	"github.com/ncrystal-go/ncmat/pkg/textinput"
)

// Validate checks whole-record invariants that cross section boundaries and
// so cannot be enforced by a single section's close handler. Per-section
// and version-gating invariants are already enforced during Parse.
func Validate(data *RawMaterialData) error {
	if !isFiniteFractionSum(data.DynInfos) {
		return ncerr.NewBadInputAt(data.SourceFullDescr, 0, "sum of @DYNINFO fractions must equal 1 within tolerance")
	}
	return nil
}

// ParseAndValidate runs Parse followed by Validate.
func ParseAndValidate(s textinput.Stream) (*RawMaterialData, error) {
	data, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}
