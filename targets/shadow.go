package targets

import (
	"github.com/gogpu/gputypes"

	"github.com/gekko3d/forward/label"
	"github.com/gekko3d/forward/light"
	"github.com/gekko3d/forward/rescache"
)

// ShadowKey identifies a shadow map. Each light owns its map; a light borrows
// the same texture every time while its size and format stay the same.
type ShadowKey struct {
	Light  light.ID
	Size   uint32
	Format gputypes.TextureFormat
}

// ShadowKeyFor picks the size and format a shadow configuration renders into.
// The Light field is left zero.
// Basic maps are packed into RGBA8 without depth textures; variance maps
// store two moments and fall back to half floats when 32-bit floats cannot
// be filtered.
func ShadowKeyFor(s light.Shadow, p label.Platform) ShadowKey {
	m := s.MapConfig()
	k := ShadowKey{Size: m.EdgeSize()}
	switch s.(type) {
	case light.Variance, *light.Variance:
		k.Format = gputypes.TextureFormatRG16Float
		if m.Precision == light.DepthPrecision32 && (m.Filter == light.FilterNearest || p.FilterableFloat32()) {
			k.Format = gputypes.TextureFormatRG32Float
		}
	default:
		switch {
		case p.PackDepth():
			k.Format = gputypes.TextureFormatRGBA8Unorm
		case m.Precision == light.DepthPrecision16:
			k.Format = gputypes.TextureFormatDepth16Unorm
		case m.Precision == light.DepthPrecision24:
			k.Format = gputypes.TextureFormatDepth24Plus
		default:
			k.Format = gputypes.TextureFormatDepth32Float
		}
	}
	return k
}

func (k ShadowKey) Descriptor() gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         "shadow-map",
		Size:          gputypes.NewExtent2D(k.Size, k.Size),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        k.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	}
}

// ShadowMaps pools shadow maps.
type ShadowMaps = Pool[ShadowKey]

// NewShadowMaps returns a shadow map pool with a budget in bytes.
func NewShadowMaps(alloc Allocator, budget int64, opts ...rescache.Option) *ShadowMaps {
	opts = append([]rescache.Option{rescache.WithName("shadow-maps")}, opts...)
	return NewPool[ShadowKey](alloc, budget, opts...)
}

// BorrowShadowMap pins the shadow map for a shadow-casting light.
func BorrowShadowMap(maps *ShadowMaps, l light.Light, p label.Platform) (*rescache.Receipt[ShadowKey, *Target[ShadowKey]], error) {
	s, ok := light.ShadowOf(l)
	if !ok {
		return nil, ErrNoShadow
	}
	k := ShadowKeyFor(s, p)
	k.Light = l.ID()
	return maps.Borrow(k)
}
