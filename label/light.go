package label

import (
	"fmt"

	"github.com/gekko3d/forward/light"
)

// Light labels the lighting term of a lit shader.
type Light uint8

const (
	LightDirectional Light = iota
	LightSpherical
	LightProjective
	LightProjectiveShadowBasic
	LightProjectiveShadowBasicPacked
	LightProjectiveShadowVariance
	lightCount
)

var lightCodes = [lightCount]string{"LD", "LS", "LP", "LPSB", "LPSBP", "LPSV"}

var lightNames = [lightCount]string{
	"LIGHT_DIRECTIONAL",
	"LIGHT_SPHERICAL",
	"LIGHT_PROJECTIVE",
	"LIGHT_PROJECTIVE_SHADOW_BASIC",
	"LIGHT_PROJECTIVE_SHADOW_BASIC_PACKED",
	"LIGHT_PROJECTIVE_SHADOW_VARIANCE",
}

func (l Light) Code() string { return lightCodes[l%lightCount] }

func (l Light) String() string {
	if l < lightCount {
		return lightNames[l]
	}
	return fmt.Sprintf("Light(%d)", uint8(l))
}

// Shadowed reports whether the light samples a shadow map.
func (l Light) Shadowed() bool {
	return l == LightProjectiveShadowBasic || l == LightProjectiveShadowBasicPacked || l == LightProjectiveShadowVariance
}

// LightFor labels a light. Unknown variants fall back to directional, which
// has no inputs beyond colour and direction.
func LightFor(l light.Light, p Platform) Light {
	switch l := l.(type) {
	case *light.Directional:
		return LightDirectional
	case *light.Spherical:
		return LightSpherical
	case *light.Projective:
		switch l.Shadow.(type) {
		case nil:
			return LightProjective
		case light.Basic, *light.Basic:
			if p.PackDepth() {
				return LightProjectiveShadowBasicPacked
			}
			return LightProjectiveShadowBasic
		case light.Variance, *light.Variance:
			return LightProjectiveShadowVariance
		}
		return LightProjective
	default:
		return LightDirectional
	}
}

// LitCode names the shader that applies light l to a surface labelled f.
func LitCode(l Light, f Forward) string {
	return l.Code() + Separator + f.Code()
}
