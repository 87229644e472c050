// Package material describes the per-instance inputs to label decisions:
// which vertex attributes a mesh carries and how its surface is configured.
package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidConfiguration is returned when a material carries values no
// label decision can sensibly consume (NaN, infinities, negative amounts).
var ErrInvalidConfiguration = errors.New("material: invalid configuration")

// Capabilities are the vertex attributes available on a mesh.
// Position is always assumed present.
type Capabilities struct {
	HasNormal  bool
	HasUV      bool
	HasTangent bool
}

// AlphaCategory selects how a surface's alpha is treated.
type AlphaCategory uint8

const (
	AlphaOpaque AlphaCategory = iota
	AlphaOpaqueToDepth
	AlphaTranslucent
)

func (c AlphaCategory) String() string {
	switch c {
	case AlphaOpaque:
		return "opaque"
	case AlphaOpaqueToDepth:
		return "opaque-alpha-to-depth"
	case AlphaTranslucent:
		return "translucent"
	default:
		return fmt.Sprintf("AlphaCategory(%d)", uint8(c))
	}
}

type Albedo struct {
	Color      mgl32.Vec4
	Mix        float32 // texture contribution, 0 means colour only
	HasTexture bool
}

type Alpha struct {
	Category AlphaCategory
	Opacity  float32
}

type Emissive struct {
	Amount     float32
	HasTexture bool
}

type Environment struct {
	Mix                float32
	ReflectionMix      float32 // 0 refracts, 1 reflects, between blends both
	HasTexture         bool
	MixFromSpecularMap bool
}

type Normal struct {
	HasTexture bool
}

type Specular struct {
	Intensity  float32
	Exponent   float32
	HasTexture bool
}

// Config is a snapshot of a material's configuration.
type Config struct {
	Albedo      Albedo
	Alpha       Alpha
	Emissive    Emissive
	Environment Environment
	Normal      Normal
	Specular    Specular
}

// Default returns an opaque white material with no maps.
func Default() Config {
	return Config{
		Albedo: Albedo{Color: mgl32.Vec4{1, 1, 1, 1}},
		Alpha:  Alpha{Category: AlphaOpaque, Opacity: 1},
		Specular: Specular{
			Exponent: 16,
		},
	}
}

// Validate reports whether every numeric field is finite and in range.
// Label derivation never fails; this is the check callers run before it.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float32
	}{
		{"albedo.mix", c.Albedo.Mix},
		{"alpha.opacity", c.Alpha.Opacity},
		{"emissive.amount", c.Emissive.Amount},
		{"environment.mix", c.Environment.Mix},
		{"environment.reflection_mix", c.Environment.ReflectionMix},
		{"specular.intensity", c.Specular.Intensity},
		{"specular.exponent", c.Specular.Exponent},
	}
	for _, f := range fields {
		x := float64(f.v)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidConfiguration, f.name, f.v)
		}
		if x < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidConfiguration, f.name, f.v)
		}
	}
	if c.Alpha.Category > AlphaTranslucent {
		return fmt.Errorf("%w: unknown alpha category %d", ErrInvalidConfiguration, c.Alpha.Category)
	}
	if c.Environment.ReflectionMix > 1 {
		return fmt.Errorf("%w: environment.reflection_mix %v exceeds 1", ErrInvalidConfiguration, c.Environment.ReflectionMix)
	}
	return nil
}
