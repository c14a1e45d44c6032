package cfgstr

import (
	"math"

	"github.com/ncrystal-go/ncmat/pkg/ncerr"
)

var singleCrystalParams = []string{"mos", "dir1", "dir2"}

// CheckConsistency enforces the domain constraints that cross-cut more
// than one parameter or bound a single parameter's numeric range. It
// suspends spy notification for the duration of the check since it reads
// every parameter.
func (c *Configuration) CheckConsistency() (err error) {
	c.withSpiesSuspended(func() {
		err = c.checkConsistencyLocked()
	})
	return err
}

func (c *Configuration) checkConsistencyLocked() error {
	if err := c.checkTemp(); err != nil {
		return err
	}
	if err := c.checkDcutoff(); err != nil {
		return err
	}
	if err := c.checkSimpleRanges(); err != nil {
		return err
	}
	if err := c.checkInelasName(); err != nil {
		return err
	}
	if err := c.checkSingleCrystalGroup(); err != nil {
		return err
	}
	if err := c.checkLcaxis(); err != nil {
		return err
	}
	return nil
}

func (c *Configuration) checkTemp() error {
	temp, err := c.GetDouble("temp")
	if err != nil {
		return err
	}
	if temp != -1 && (temp <= 0 || temp > 1e5) {
		return ncerr.NewBadInput("temp must be -1 or in the range (0,1e5]")
	}
	return nil
}

func (c *Configuration) checkDcutoff() error {
	dcutoff, err := c.GetDouble("dcutoff")
	if err != nil {
		return err
	}
	if dcutoff == -1 {
		return nil
	}
	if dcutoff != 0 && (dcutoff < 1e-3 || dcutoff > 1e5) {
		return ncerr.NewBadInput("dcutoff must be -1 (hkl lists disabled), 0 (auto), or in the range [1e-3,1e5]")
	}
	dcutoffup, err := c.GetDouble("dcutoffup")
	if err != nil {
		return err
	}
	if dcutoff >= dcutoffup {
		return ncerr.NewBadInput("dcutoff must be strictly less than dcutoffup")
	}
	return nil
}

func (c *Configuration) checkSimpleRanges() error {
	packfact, err := c.GetDouble("packfact")
	if err != nil {
		return err
	}
	if packfact <= 0 || packfact > 1 {
		return ncerr.NewBadInput("packfact must be in the interval (0,1]")
	}

	sccutoff, err := c.GetDouble("sccutoff")
	if err != nil {
		return err
	}
	if sccutoff < 0 {
		return ncerr.NewBadInput("sccutoff must not be negative")
	}

	dirtol, err := c.GetDouble("dirtol")
	if err != nil {
		return err
	}
	if dirtol <= 0 || dirtol > math.Pi {
		return ncerr.NewBadInput("dirtol must be in the interval (0,pi]")
	}

	mosprec, err := c.GetDouble("mosprec")
	if err != nil {
		return err
	}
	if mosprec < 1e-7 || mosprec > 1e-1 {
		return ncerr.NewBadInput("mosprec must be in the range [1e-7,1e-1]")
	}

	vdoslux, err := c.GetInt("vdoslux")
	if err != nil {
		return err
	}
	if vdoslux < 0 || vdoslux > 5 {
		return ncerr.NewBadInput("vdoslux must be in the range 0..5")
	}
	return nil
}

func (c *Configuration) checkInelasName() error {
	inelas, err := c.GetString("inelas")
	if err != nil {
		return err
	}
	for _, r := range inelas {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
		if !ok {
			return ncerr.NewBadInput("inelas value %q must match [a-z0-9_]+", inelas)
		}
	}
	if inelas == "" {
		return ncerr.NewBadInput("inelas value must not be empty")
	}
	return nil
}

// checkSingleCrystalGroup enforces that mos, dir1 and dir2 are either all
// set or all unset, that dirtol is not set unless they are too, validates
// mos's range when set, and checks that the lab and crystal orientation
// vectors of dir1/dir2 aren't parallel.
func (c *Configuration) checkSingleCrystalGroup() error {
	nSet := 0
	for _, p := range singleCrystalParams {
		if c.HasPar(p) {
			nSet++
		}
	}
	if nSet != 0 && nSet != len(singleCrystalParams) {
		return ncerr.NewBadInput("mos, dir1 and dir2 must either all be set or all be unset")
	}
	isSC := nSet == len(singleCrystalParams)
	if !isSC {
		if c.HasPar("dirtol") {
			return ncerr.NewBadInput("mos, dir1 and dir2 parameters must all be set when dirtol is set")
		}
		return nil
	}

	mos, err := c.GetDouble("mos")
	if err != nil {
		return err
	}
	if mos <= 0 || mos > math.Pi/2 {
		return ncerr.NewBadInput("mos must be in the interval (0,pi/2]")
	}

	packfact, err := c.GetDouble("packfact")
	if err != nil {
		return err
	}
	if packfact != 1.0 {
		return ncerr.NewBadInput("packfact must be 1.0 in single-crystal mode")
	}

	dir1, err := c.GetOrientDir("dir1")
	if err != nil {
		return err
	}
	dir2, err := c.GetOrientDir("dir2")
	if err != nil {
		return err
	}
	if isParallel(dir1.Lab, dir2.Lab, 1e-6) {
		return ncerr.NewBadInput("dir1 and dir2 lab directions must not be parallel")
	}
	if dir1.CrysHKL == dir2.CrysHKL && isParallel(dir1.Crys, dir2.Crys, 1e-6) {
		return ncerr.NewBadInput("dir1 and dir2 crystal directions must not be parallel")
	}
	return nil
}

// checkLcaxis validates lcaxis unconditionally: finite and non-null. It
// does not require single-crystal mode — a layered-crystal material with
// no mosaicity/orientation set is a valid configuration.
func (c *Configuration) checkLcaxis() error {
	if !c.HasPar("lcaxis") {
		return nil
	}
	v, err := c.GetVector3("lcaxis")
	if err != nil {
		return err
	}
	if !isFiniteTriple(v.X, v.Y, v.Z) {
		return ncerr.NewBadInput("lcaxis components must be finite")
	}
	if v.X == 0 && v.Y == 0 && v.Z == 0 {
		return ncerr.NewBadInput("lcaxis must not be the null vector")
	}
	return nil
}

func isFiniteTriple(x, y, z float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) &&
		!math.IsNaN(y) && !math.IsInf(y, 0) &&
		!math.IsNaN(z) && !math.IsInf(z, 0)
}

func isParallel(a, b [3]float64, tol float64) bool {
	na := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	nb := math.Sqrt(b[0]*b[0] + b[1]*b[1] + b[2]*b[2])
	if na == 0 || nb == 0 {
		return true
	}
	cx := a[1]*b[2] - a[2]*b[1]
	cy := a[2]*b[0] - a[0]*b[2]
	cz := a[0]*b[1] - a[1]*b[0]
	crossNorm := math.Sqrt(cx*cx + cy*cy + cz*cz)
	return crossNorm/(na*nb) < tol
}
