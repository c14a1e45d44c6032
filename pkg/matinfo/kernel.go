package matinfo

import "github.com/ncrystal-go/ncmat/pkg/ncerr"

var errNotScatKnlDirect = ncerr.NewLogicError("Kernel is only defined for DynScatKnlDirect entries")

// buildScatteringKernel normalizes the raw alphagrid/betagrid/sab fields
// of a @DYNINFO scatknl block into a ScatteringKernel. It performs no
// physics beyond copying and reshaping the accumulated grids: normalizing
// S(alpha,beta) itself is a physics-calculator concern, out of scope
// here.
func buildScatteringKernel(fields map[string][]float64) *ScatteringKernel {
	k := &ScatteringKernel{}
	if v, ok := fields["alphagrid"]; ok {
		k.AlphaGrid = append([]float64(nil), v...)
	}
	if v, ok := fields["betagrid"]; ok {
		k.BetaGrid = append([]float64(nil), v...)
	}
	if v, ok := fields["sab"]; ok {
		k.Sab = append([]float64(nil), v...)
	} else if v, ok := fields["sab_scaled"]; ok {
		k.Sab = append([]float64(nil), v...)
	}
	return k
}
