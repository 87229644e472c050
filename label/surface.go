package label

import (
	"fmt"

	"github.com/gekko3d/forward/material"
)

// Albedo selects the base colour source.
type Albedo uint8

const (
	AlbedoColoured Albedo = iota
	AlbedoTextured
	albedoCount
)

var albedoCodes = [albedoCount]string{"BC", "BT"}

func (a Albedo) Code() string { return albedoCodes[a%albedoCount] }

func (a Albedo) String() string {
	switch a {
	case AlbedoColoured:
		return "ALBEDO_COLOURED"
	case AlbedoTextured:
		return "ALBEDO_TEXTURED"
	}
	return fmt.Sprintf("Albedo(%d)", uint8(a))
}

// AlbedoFor is TEXTURED only when the mesh has UVs, the material has a texture
// and the texture actually contributes (mix above zero).
func AlbedoFor(caps material.Capabilities, mat material.Config) Albedo {
	if caps.HasUV && mat.Albedo.HasTexture && mat.Albedo.Mix > 0 {
		return AlbedoTextured
	}
	return AlbedoColoured
}

// Alpha mirrors material.AlphaCategory.
type Alpha uint8

const (
	AlphaOpaque Alpha = iota
	AlphaOpaqueToDepth
	AlphaTranslucent
	alphaCount
)

var alphaCodes = [alphaCount]string{"U", "UD", "T"}

func (a Alpha) Code() string { return alphaCodes[a%alphaCount] }

func (a Alpha) String() string {
	switch a {
	case AlphaOpaque:
		return "ALPHA_OPAQUE"
	case AlphaOpaqueToDepth:
		return "ALPHA_OPAQUE_ALPHA_TO_DEPTH"
	case AlphaTranslucent:
		return "ALPHA_TRANSLUCENT"
	}
	return fmt.Sprintf("Alpha(%d)", uint8(a))
}

// Opaque reports whether the label renders without blending.
func (a Alpha) Opaque() bool { return a != AlphaTranslucent }

// AlphaFor maps the material's alpha category. Unknown categories render
// as translucent, the variant that is correct for any opacity.
func AlphaFor(mat material.Config) Alpha {
	switch mat.Alpha.Category {
	case material.AlphaOpaque:
		return AlphaOpaque
	case material.AlphaOpaqueToDepth:
		return AlphaOpaqueToDepth
	default:
		return AlphaTranslucent
	}
}

// Emissive selects the emission source.
type Emissive uint8

const (
	EmissiveNone Emissive = iota
	EmissiveConstant
	EmissiveMapped
	emissiveCount
)

var emissiveCodes = [emissiveCount]string{"", "EC", "EM"}

func (e Emissive) Code() string { return emissiveCodes[e%emissiveCount] }

func (e Emissive) String() string {
	switch e {
	case EmissiveNone:
		return "EMISSIVE_NONE"
	case EmissiveConstant:
		return "EMISSIVE_CONSTANT"
	case EmissiveMapped:
		return "EMISSIVE_MAPPED"
	}
	return fmt.Sprintf("Emissive(%d)", uint8(e))
}

func EmissiveFor(caps material.Capabilities, mat material.Config) Emissive {
	switch {
	case mat.Emissive.Amount == 0:
		return EmissiveNone
	case mat.Emissive.HasTexture && caps.HasUV:
		return EmissiveMapped
	default:
		return EmissiveConstant
	}
}

// Normal selects the shading normal source.
type Normal uint8

const (
	NormalNone Normal = iota
	NormalVertex
	NormalMapped
	normalCount
)

var normalCodes = [normalCount]string{"", "NV", "NM"}

func (n Normal) Code() string { return normalCodes[n%normalCount] }

func (n Normal) String() string {
	switch n {
	case NormalNone:
		return "NORMAL_NONE"
	case NormalVertex:
		return "NORMAL_VERTEX"
	case NormalMapped:
		return "NORMAL_MAPPED"
	}
	return fmt.Sprintf("Normal(%d)", uint8(n))
}

func NormalFor(caps material.Capabilities, mat material.Config) Normal {
	switch {
	case !caps.HasNormal:
		return NormalNone
	case caps.HasUV && caps.HasTangent && mat.Normal.HasTexture:
		return NormalMapped
	default:
		return NormalVertex
	}
}

// Environment selects environment mapping. The mapped variants take their
// mix factor from the specular map.
type Environment uint8

const (
	EnvironmentNone Environment = iota
	EnvironmentReflective
	EnvironmentRefractive
	EnvironmentReflectiveRefractive
	EnvironmentReflectiveMapped
	EnvironmentRefractiveMapped
	EnvironmentReflectiveRefractiveMapped
	environmentCount
)

var environmentCodes = [environmentCount]string{"", "EL", "ER", "ELR", "ELM", "ERM", "ELRM"}

var environmentNames = [environmentCount]string{
	"ENVIRONMENT_NONE",
	"ENVIRONMENT_REFLECTIVE",
	"ENVIRONMENT_REFRACTIVE",
	"ENVIRONMENT_REFLECTIVE_REFRACTIVE",
	"ENVIRONMENT_REFLECTIVE_MAPPED",
	"ENVIRONMENT_REFRACTIVE_MAPPED",
	"ENVIRONMENT_REFLECTIVE_REFRACTIVE_MAPPED",
}

func (e Environment) Code() string { return environmentCodes[e%environmentCount] }

func (e Environment) String() string {
	if e < environmentCount {
		return environmentNames[e]
	}
	return fmt.Sprintf("Environment(%d)", uint8(e))
}

// Mapped reports whether e is one of the _MAPPED variants.
func (e Environment) Mapped() bool { return e >= EnvironmentReflectiveMapped && e < environmentCount }

// mapped returns the _MAPPED variant of an unmapped non-NONE label.
func (e Environment) mapped() Environment {
	if e == EnvironmentNone || e.Mapped() {
		return e
	}
	return e + (EnvironmentReflectiveMapped - EnvironmentReflective)
}

// EnvironmentFor needs a shading normal. The mix is read from the specular
// map only when the mesh has UVs to sample it with.
func EnvironmentFor(caps material.Capabilities, mat material.Config, n Normal) Environment {
	env := mat.Environment
	if n == NormalNone || !env.HasTexture || env.Mix <= 0 {
		return EnvironmentNone
	}
	var e Environment
	switch env.ReflectionMix {
	case 0:
		e = EnvironmentRefractive
	case 1:
		e = EnvironmentReflective
	default:
		e = EnvironmentReflectiveRefractive
	}
	if env.MixFromSpecularMap && caps.HasUV {
		e = e.mapped()
	}
	return e
}

// Specular selects the specular term.
type Specular uint8

const (
	SpecularNone Specular = iota
	SpecularConstant
	SpecularMapped
	specularCount
)

var specularCodes = [specularCount]string{"", "SC", "SM"}

func (s Specular) Code() string { return specularCodes[s%specularCount] }

func (s Specular) String() string {
	switch s {
	case SpecularNone:
		return "SPECULAR_NONE"
	case SpecularConstant:
		return "SPECULAR_CONSTANT"
	case SpecularMapped:
		return "SPECULAR_MAPPED"
	}
	return fmt.Sprintf("Specular(%d)", uint8(s))
}

func SpecularFor(caps material.Capabilities, mat material.Config, n Normal) Specular {
	switch {
	case n == NormalNone || mat.Specular.Intensity == 0:
		return SpecularNone
	case mat.Specular.HasTexture && caps.HasUV:
		return SpecularMapped
	default:
		return SpecularConstant
	}
}
