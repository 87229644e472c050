package label

import (
	"fmt"

	"github.com/gekko3d/forward/light"
)

// ShadowCast describes how a caster writes into a shadow map.
type ShadowCast uint8

const (
	ShadowCastOpaque ShadowCast = iota
	ShadowCastTranslucent
	ShadowCastTranslucentTextured
	shadowCastCount
)

var shadowCastCodes = [shadowCastCount]string{"O", "T", "TT"}

func (s ShadowCast) Code() string { return shadowCastCodes[s%shadowCastCount] }

func (s ShadowCast) String() string {
	switch s {
	case ShadowCastOpaque:
		return "SHADOW_CAST_OPAQUE"
	case ShadowCastTranslucent:
		return "SHADOW_CAST_TRANSLUCENT"
	case ShadowCastTranslucentTextured:
		return "SHADOW_CAST_TRANSLUCENT_TEXTURED"
	}
	return fmt.Sprintf("ShadowCast(%d)", uint8(s))
}

// ShadowCastFor classifies a caster. Anything that is not plainly opaque
// needs its alpha in the shadow pass, from the texture when it has one.
func ShadowCastFor(c Caster) ShadowCast {
	switch {
	case c.Alpha == AlphaOpaque:
		return ShadowCastOpaque
	case c.Albedo == AlbedoTextured:
		return ShadowCastTranslucentTextured
	default:
		return ShadowCastTranslucent
	}
}

// Shadow labels the shader that renders casters into a light's shadow map.
type Shadow struct {
	Algorithm light.Algorithm
	Cast      ShadowCast
	Packed    bool
}

// ShadowFor combines a light's shadow configuration with a caster's cast
// label. Only basic maps are ever packed; variance maps need float storage.
func ShadowFor(s light.Shadow, cast ShadowCast, p Platform) Shadow {
	l := Shadow{Algorithm: s.Algorithm(), Cast: cast}
	if l.Algorithm == light.AlgorithmBasic {
		l.Packed = p.PackDepth()
	}
	return l
}

func (s Shadow) Code() string {
	alg := "SB"
	if s.Algorithm == light.AlgorithmVariance {
		alg = "SV"
	}
	if s.Packed {
		return joinCodes(alg, s.Cast.Code(), "P")
	}
	return joinCodes(alg, s.Cast.Code())
}

func (s Shadow) String() string { return s.Code() }
