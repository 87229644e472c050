package label

import (
	"fmt"

	"github.com/gekko3d/forward/material"
)

// Caster is the subset of a forward label needed to pick a depth-only shader.
type Caster struct {
	Alpha  Alpha
	Albedo Albedo
}

// CasterFor derives the albedo and alpha decisions of a shadow caster.
func CasterFor(caps material.Capabilities, mat material.Config) Caster {
	return Caster{Alpha: AlphaFor(mat), Albedo: AlbedoFor(caps, mat)}
}

func (c Caster) Code() string { return joinCodes(c.Alpha.Code(), c.Albedo.Code()) }

func (c Caster) String() string { return c.Code() }

// DepthKind selects where a depth shader gets alpha from.
type DepthKind uint8

const (
	// DepthConstant ignores alpha entirely.
	DepthConstant DepthKind = iota
	// DepthUniform discards against the material's constant opacity.
	DepthUniform
	// DepthMapped discards against the albedo texture's alpha.
	DepthMapped
	depthKindCount
)

var depthKindCodes = [depthKindCount]string{"DC", "DU", "DM"}

func (k DepthKind) String() string {
	switch k {
	case DepthConstant:
		return "DEPTH_CONSTANT"
	case DepthUniform:
		return "DEPTH_UNIFORM"
	case DepthMapped:
		return "DEPTH_MAPPED"
	}
	return fmt.Sprintf("DepthKind(%d)", uint8(k))
}

// Depth labels a depth-only pass shader.
type Depth struct {
	Kind   DepthKind
	Packed bool
}

// DepthFor picks the depth shader for a surface. Depth is packed exactly when
// the platform has no depth textures.
func DepthFor(albedo Albedo, alpha Alpha, p Platform) Depth {
	d := Depth{Kind: DepthConstant, Packed: p.PackDepth()}
	if alpha == AlphaOpaque {
		return d
	}
	if albedo == AlbedoTextured {
		d.Kind = DepthMapped
	} else {
		d.Kind = DepthUniform
	}
	return d
}

func (d Depth) Code() string {
	code := depthKindCodes[d.Kind%depthKindCount]
	if d.Packed {
		return code + "P"
	}
	return code
}

func (d Depth) String() string { return d.Code() }
