package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnknownLayer = errors.New("unknown layer")

// Layer is one of the four mutually exclusive display modes of the wall.
type Layer int

const (
	LayerStatic Layer = iota + 1
	LayerHologram
	LayerAR
	LayerSpinning
)

// Layers lists every layer in display order.
var Layers = []Layer{LayerStatic, LayerHologram, LayerAR, LayerSpinning}

func (l Layer) Valid() bool { return l >= LayerStatic && l <= LayerSpinning }

// Mode is the short presentation name used by renderers and config.
func (l Layer) Mode() string {
	switch l {
	case LayerStatic:
		return "static"
	case LayerHologram:
		return "hologram"
	case LayerAR:
		return "ar"
	case LayerSpinning:
		return "spinning"
	}
	return "unknown"
}

func (l Layer) String() string {
	switch l {
	case LayerStatic:
		return "Static Display"
	case LayerHologram:
		return "Hologram Effects"
	case LayerAR:
		return "Augmented Reality"
	case LayerSpinning:
		return "Spinning Animation"
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// ParseLayer accepts a layer number ("1".."4") or a mode name.
func ParseLayer(s string) (Layer, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		if l := Layer(n); l.Valid() {
			return l, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownLayer, n)
	}
	for _, l := range Layers {
		if l.Mode() == s {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}
