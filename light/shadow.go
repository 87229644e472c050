package light

import "fmt"

// DefaultShadowMapSize is the edge length in texels of a shadow map when a
// configuration leaves it unset.
const DefaultShadowMapSize = 1024

// DepthPrecision is the number of bits used to store shadow depth.
type DepthPrecision uint8

const (
	DepthPrecision16 DepthPrecision = 16
	DepthPrecision24 DepthPrecision = 24
	DepthPrecision32 DepthPrecision = 32
)

// Filter selects how a shadow map is sampled.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterLinear:
		return "linear"
	default:
		return fmt.Sprintf("Filter(%d)", uint8(f))
	}
}

// MapConfig describes the shadow map texture shared by every algorithm.
type MapConfig struct {
	Size      uint32
	Precision DepthPrecision
	Filter    Filter
}

// EdgeSize returns Size, or DefaultShadowMapSize when Size is zero.
func (m MapConfig) EdgeSize() uint32 {
	if m.Size == 0 {
		return DefaultShadowMapSize
	}
	return m.Size
}

// Algorithm names the variant of a Shadow.
type Algorithm uint8

const (
	AlgorithmBasic Algorithm = iota
	AlgorithmVariance
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmBasic:
		return "basic"
	case AlgorithmVariance:
		return "variance"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// Shadow is one of Basic or Variance.
type Shadow interface {
	Algorithm() Algorithm
	MapConfig() MapConfig
	sealed()
}

// Basic is a depth-compare shadow map.
type Basic struct {
	Map           MapConfig
	DepthBias     float32
	MinimumFactor float32
}

func (Basic) Algorithm() Algorithm   { return AlgorithmBasic }
func (b Basic) MapConfig() MapConfig { return b.Map }
func (Basic) sealed()                {}

// Variance stores depth moments so the map can be filtered.
type Variance struct {
	Map                 MapConfig
	MinimumVariance     float32
	LightBleedReduction float32
	MinimumFactor       float32
}

func (Variance) Algorithm() Algorithm   { return AlgorithmVariance }
func (v Variance) MapConfig() MapConfig { return v.Map }
func (Variance) sealed()                {}
