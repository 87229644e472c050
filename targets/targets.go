// Package targets pools the render targets a frame borrows: shadow maps
// and scratch framebuffers for postprocessing.
package targets

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gekko3d/forward/rescache"
)

// ErrNoShadow is returned when borrowing a shadow map for a light that casts
// no shadows.
var ErrNoShadow = errors.New("targets: light casts no shadow")

// Texture is a device texture handle owned by an Allocator.
type Texture = any

// Allocator creates and destroys device textures.
type Allocator interface {
	CreateTexture(desc *gputypes.TextureDescriptor) (Texture, error)
	DestroyTexture(tex Texture)
}

// Key describes a target completely enough to allocate it.
type Key interface {
	comparable
	Descriptor() gputypes.TextureDescriptor
}

// Target is an allocated render target.
type Target[K Key] struct {
	Key     K
	Texture Texture
	Bytes   int64
}

// BytesPerTexel returns the storage size of one texel of f. Unknown formats
// count as four bytes.
func BytesPerTexel(f gputypes.TextureFormat) int64 {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatDepth16Unorm:
		return 2
	case gputypes.TextureFormatRG32Float, gputypes.TextureFormatRGBA16Float:
		return 8
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		// RGBA8, BGRA8, RG16Float, R32Float and the 24/32-bit depth formats.
		return 4
	}
}

// DescriptorBytes returns the size of a single-mip texture.
func DescriptorBytes(desc gputypes.TextureDescriptor) int64 {
	layers := int64(desc.Size.DepthOrArrayLayers)
	if layers == 0 {
		layers = 1
	}
	samples := int64(desc.SampleCount)
	if samples == 0 {
		samples = 1
	}
	return int64(desc.Size.Width) * int64(desc.Size.Height) * layers * samples * BytesPerTexel(desc.Format)
}

type loader[K Key] struct {
	alloc Allocator
}

func (l loader[K]) Create(key K) (*Target[K], error) {
	desc := key.Descriptor()
	tex, err := l.alloc.CreateTexture(&desc)
	if err != nil {
		return nil, fmt.Errorf("targets: allocate %s %dx%d %s: %w",
			desc.Label, desc.Size.Width, desc.Size.Height, desc.Format, err)
	}
	return &Target[K]{Key: key, Texture: tex, Bytes: DescriptorBytes(desc)}, nil
}

func (l loader[K]) SizeOf(t *Target[K]) int64 { return t.Bytes }

func (l loader[K]) Dispose(t *Target[K]) { l.alloc.DestroyTexture(t.Texture) }

// Pool caches targets of one key type under a byte budget.
type Pool[K Key] struct {
	cache *rescache.Cache[K, *Target[K]]
}

// NewPool returns a pool allocating through alloc.
func NewPool[K Key](alloc Allocator, budget int64, opts ...rescache.Option) *Pool[K] {
	return &Pool[K]{cache: rescache.New[K, *Target[K]](budget, loader[K]{alloc: alloc}, opts...)}
}

// Borrow pins the target for key, allocating it if needed.
func (p *Pool[K]) Borrow(key K) (*rescache.Receipt[K, *Target[K]], error) {
	return p.cache.Borrow(key)
}

// InvalidateAll destroys every pooled target, for example after a resize.
func (p *Pool[K]) InvalidateAll() error { return p.cache.InvalidateAll() }

func (p *Pool[K]) Close() error { return p.cache.Close() }

func (p *Pool[K]) Stats() rescache.Stats { return p.cache.Stats() }
