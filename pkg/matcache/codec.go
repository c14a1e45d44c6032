// Package matcache provides an on-disk cache of parsed material summaries
// keyed by a configuration's cache signature combined with a content hash
// of the resolved data file, so repeated resolution of the same
// source/configuration pair skips re-parsing.
package matcache

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	encOpts := cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}
	var err error
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("matcache: failed to create CBOR encoder mode: %v", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("matcache: failed to create CBOR decoder mode: %v", err))
	}
}

func marshal(v any) ([]byte, error) { return encMode.Marshal(v) }
func unmarshal(data []byte, v any) error { return decMode.Unmarshal(data, v) }
