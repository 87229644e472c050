package label

import (
	"strings"

	"github.com/gekko3d/forward/material"
)

// Forward is the composite label selecting a forward-rendering shader.
// It is comparable and small enough to use directly as a map key.
type Forward struct {
	Alpha       Alpha
	Albedo      Albedo
	Emissive    Emissive
	Normal      Normal
	Environment Environment
	Specular    Specular
}

const forwardCount = int(alphaCount) * int(albedoCount) * int(emissiveCount) *
	int(normalCount) * int(environmentCount) * int(specularCount)

var (
	// forwardCodes holds the code of every composite, built once so that
	// Code never allocates.
	forwardCodes  [forwardCount]string
	forwardByCode map[string]Forward
)

func init() {
	forwardByCode = make(map[string]Forward, forwardCount)
	for a := Alpha(0); a < alphaCount; a++ {
		for b := Albedo(0); b < albedoCount; b++ {
			for e := Emissive(0); e < emissiveCount; e++ {
				for n := Normal(0); n < normalCount; n++ {
					for env := Environment(0); env < environmentCount; env++ {
						for s := Specular(0); s < specularCount; s++ {
							f := Forward{Alpha: a, Albedo: b, Emissive: e, Normal: n, Environment: env, Specular: s}
							parts := f.parts()
							code := joinCodes(parts[:]...)
							forwardCodes[f.index()] = code
							forwardByCode[code] = f
						}
					}
				}
			}
		}
	}
}

// ComposeForward assembles a composite from its parts.
func ComposeForward(albedo Albedo, alpha Alpha, emissive Emissive, environment Environment, normal Normal, specular Specular) Forward {
	return Forward{
		Alpha:       alpha,
		Albedo:      albedo,
		Emissive:    emissive,
		Normal:      normal,
		Environment: environment,
		Specular:    specular,
	}
}

// DeriveForward runs every sub-decision for a mesh and material.
func DeriveForward(caps material.Capabilities, mat material.Config) Forward {
	n := NormalFor(caps, mat)
	return ComposeForward(
		AlbedoFor(caps, mat),
		AlphaFor(mat),
		EmissiveFor(caps, mat),
		EnvironmentFor(caps, mat, n),
		n,
		SpecularFor(caps, mat, n),
	)
}

func (f Forward) valid() bool {
	return f.Alpha < alphaCount && f.Albedo < albedoCount && f.Emissive < emissiveCount &&
		f.Normal < normalCount && f.Environment < environmentCount && f.Specular < specularCount
}

func (f Forward) index() int {
	i := int(f.Alpha)
	i = i*int(albedoCount) + int(f.Albedo)
	i = i*int(emissiveCount) + int(f.Emissive)
	i = i*int(normalCount) + int(f.Normal)
	i = i*int(environmentCount) + int(f.Environment)
	i = i*int(specularCount) + int(f.Specular)
	return i
}

// parts lists the sub-codes in code order.
func (f Forward) parts() [6]string {
	return [6]string{
		f.Alpha.Code(),
		f.Albedo.Code(),
		f.Emissive.Code(),
		f.Normal.Code(),
		f.Environment.Code(),
		f.Specular.Code(),
	}
}

// Code returns the stable shader variant name: alpha, albedo, emissive,
// normal, environment and specular codes joined by Separator, skipping the
// empty ones.
func (f Forward) Code() string {
	if f.valid() {
		return forwardCodes[f.index()]
	}
	parts := f.parts()
	return joinCodes(parts[:]...)
}

func (f Forward) String() string { return f.Code() }

// ImpliesUV reports whether any part samples a texture.
func (f Forward) ImpliesUV() bool {
	return f.Albedo == AlbedoTextured ||
		f.Emissive == EmissiveMapped ||
		f.Normal == NormalMapped ||
		f.Specular == SpecularMapped ||
		f.Environment.Mapped()
}

// ImpliesSpecularMap reports whether the specular map must be bound.
func (f Forward) ImpliesSpecularMap() bool {
	return f.Specular == SpecularMapped || f.Environment.Mapped()
}

// Caster returns the depth-only subset of f.
func (f Forward) Caster() Caster {
	return Caster{Alpha: f.Alpha, Albedo: f.Albedo}
}

// ParseForward reverses Code.
func ParseForward(code string) (Forward, bool) {
	f, ok := forwardByCode[code]
	return f, ok
}

func joinCodes(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(p)
	}
	return sb.String()
}
