package targets

import (
	"github.com/gogpu/gputypes"

	"github.com/gekko3d/forward/rescache"
)

// ScratchKey identifies a scratch framebuffer used between postprocessing
// passes.
type ScratchKey struct {
	Width  uint32
	Height uint32
	Format gputypes.TextureFormat
}

func (k ScratchKey) Descriptor() gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         "scratch",
		Size:          gputypes.NewExtent2D(k.Width, k.Height),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        k.Format,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopySrc,
	}
}

// Scratch pools scratch framebuffers.
type Scratch = Pool[ScratchKey]

func NewScratch(alloc Allocator, budget int64, opts ...rescache.Option) *Scratch {
	opts = append([]rescache.Option{rescache.WithName("scratch")}, opts...)
	return NewPool[ScratchKey](alloc, budget, opts...)
}
