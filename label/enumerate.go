package label

import (
	"slices"
	"strings"

	"github.com/gekko3d/forward/light"
)

// AllForward returns every forward label some mesh and material can produce,
// ordered by code. Environment and specular terms need a shading normal, so
// combinations that have them without one are unreachable.
func AllForward() []Forward {
	out := make([]Forward, 0, forwardCount)
	for a := Alpha(0); a < alphaCount; a++ {
		for b := Albedo(0); b < albedoCount; b++ {
			for e := Emissive(0); e < emissiveCount; e++ {
				for n := Normal(0); n < normalCount; n++ {
					for env := Environment(0); env < environmentCount; env++ {
						for s := Specular(0); s < specularCount; s++ {
							if n == NormalNone && (env != EnvironmentNone || s != SpecularNone) {
								continue
							}
							out = append(out, Forward{Alpha: a, Albedo: b, Emissive: e, Normal: n, Environment: env, Specular: s})
						}
					}
				}
			}
		}
	}
	slices.SortFunc(out, func(x, y Forward) int { return strings.Compare(x.Code(), y.Code()) })
	return out
}

// AllCasters returns every caster label.
func AllCasters() []Caster {
	out := make([]Caster, 0, int(alphaCount)*int(albedoCount))
	for a := Alpha(0); a < alphaCount; a++ {
		for b := Albedo(0); b < albedoCount; b++ {
			out = append(out, Caster{Alpha: a, Albedo: b})
		}
	}
	return out
}

// AllDepth returns every depth label.
func AllDepth() []Depth {
	out := make([]Depth, 0, int(depthKindCount)*2)
	for _, packed := range []bool{false, true} {
		for k := DepthKind(0); k < depthKindCount; k++ {
			out = append(out, Depth{Kind: k, Packed: packed})
		}
	}
	return out
}

// AllShadow returns every shadow label. Variance labels are never packed.
func AllShadow() []Shadow {
	var out []Shadow
	for c := ShadowCast(0); c < shadowCastCount; c++ {
		out = append(out,
			Shadow{Algorithm: light.AlgorithmBasic, Cast: c},
			Shadow{Algorithm: light.AlgorithmBasic, Cast: c, Packed: true},
			Shadow{Algorithm: light.AlgorithmVariance, Cast: c},
		)
	}
	return out
}

// AllLights returns every light label.
func AllLights() []Light {
	out := make([]Light, 0, lightCount)
	for l := Light(0); l < lightCount; l++ {
		out = append(out, l)
	}
	return out
}

// Permutations returns the name of every forward shader that can be
// requested: each forward code on its own for unlit surfaces, then each
// light and forward pair for lit ones.
func Permutations() []string {
	forward := AllForward()
	lights := AllLights()
	out := make([]string, 0, len(forward)*(len(lights)+1))
	for _, f := range forward {
		out = append(out, f.Code())
	}
	for _, l := range lights {
		for _, f := range forward {
			out = append(out, LitCode(l, f))
		}
	}
	return out
}
