// Package smooth provides fixed-interval smoothers of filtered body estimates.
package smooth

import bodycomp "github.com/milosgajdos/go-bodycomp"

// RTS is Rauch Tung Striebel optimal filter smoother
type RTS interface {
	// bodycomp.Smoother is filter smoother
	bodycomp.Smoother
}
