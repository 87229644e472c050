package label

import "github.com/gogpu/gputypes"

// Platform is what the rendering device can do, as far as label decisions
// care.
type Platform struct {
	// DepthTextures is true when depth can be rendered to and sampled from a
	// real depth or float texture. Without it depth is packed into RGBA8.
	DepthTextures bool
	Features      gputypes.Features
}

// DefaultPlatform assumes depth textures and no optional features.
func DefaultPlatform() Platform {
	return Platform{DepthTextures: true}
}

// PackDepth reports whether depth values must be packed into colour channels.
func (p Platform) PackDepth() bool { return !p.DepthTextures }

// FilterableFloat32 reports whether 32-bit float textures can be sampled
// with linear filtering.
func (p Platform) FilterableFloat32() bool {
	return p.Features.Contains(gputypes.FeatureFloat32Filterable)
}
