package scene

import (
	"slices"
	"strings"

	"github.com/gekko3d/forward/label"
	"github.com/gekko3d/forward/light"
)

// LitKey groups opaque lit instances that share a light and a shader.
type LitKey struct {
	Light light.ID
	Label label.Forward
}

// TranslucentEntry is either TranslucentLit or TranslucentUnlit.
type TranslucentEntry interface {
	Instance() *Instance
	Forward() label.Forward
	sealed()
}

// TranslucentLit is a translucent instance and the lights affecting it.
type TranslucentLit struct {
	Item   *Instance
	Label  label.Forward
	Lights []light.Light
}

func (t TranslucentLit) Instance() *Instance    { return t.Item }
func (t TranslucentLit) Forward() label.Forward { return t.Label }
func (TranslucentLit) sealed()                  {}

// TranslucentUnlit is a translucent instance affected by no light.
type TranslucentUnlit struct {
	Item  *Instance
	Label label.Forward
}

func (t TranslucentUnlit) Instance() *Instance    { return t.Item }
func (t TranslucentUnlit) Forward() label.Forward { return t.Label }
func (TranslucentUnlit) sealed()                  {}

// ShadowBatch is every opaque caster of one light, drawn with one shader.
type ShadowBatch struct {
	Label     label.Shadow
	Instances []*Instance
}

// ShadowCaster is a caster that needs its own alpha in the shadow pass.
type ShadowCaster struct {
	Item  *Instance
	Label label.Shadow
}

// BatchSet is the immutable result of batching one frame. Slices returned by
// its accessors are shared and must not be modified.
type BatchSet struct {
	opaqueLit         map[LitKey][]*Instance
	opaqueUnlit       map[label.Forward][]*Instance
	translucent       []TranslucentEntry
	shadowLights      []light.Light
	opaqueShadow      map[light.ID]*ShadowBatch
	translucentShadow map[light.ID][]ShadowCaster
}

func newBatchSet() *BatchSet {
	return &BatchSet{
		opaqueLit:         make(map[LitKey][]*Instance),
		opaqueUnlit:       make(map[label.Forward][]*Instance),
		opaqueShadow:      make(map[light.ID]*ShadowBatch),
		translucentShadow: make(map[light.ID][]ShadowCaster),
	}
}

// OpaqueLit returns the batch for a light and forward label.
func (s *BatchSet) OpaqueLit(id light.ID, f label.Forward) []*Instance {
	return s.opaqueLit[LitKey{Light: id, Label: f}]
}

// LitKeys returns the keys of every opaque lit batch, ordered by light then
// code. Batch order carries no meaning; the ordering is for stable output.
func (s *BatchSet) LitKeys() []LitKey {
	keys := make([]LitKey, 0, len(s.opaqueLit))
	for k := range s.opaqueLit {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b LitKey) int {
		if c := strings.Compare(a.Light.String(), b.Light.String()); c != 0 {
			return c
		}
		return strings.Compare(a.Label.Code(), b.Label.Code())
	})
	return keys
}

// OpaqueUnlit returns the unlit batch for a forward label.
func (s *BatchSet) OpaqueUnlit(f label.Forward) []*Instance {
	return s.opaqueUnlit[f]
}

// UnlitKeys returns the labels of every opaque unlit batch, ordered by code.
func (s *BatchSet) UnlitKeys() []label.Forward {
	keys := make([]label.Forward, 0, len(s.opaqueUnlit))
	for k := range s.opaqueUnlit {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b label.Forward) int { return strings.Compare(a.Code(), b.Code()) })
	return keys
}

// Translucent returns translucent instances in the order they were added.
func (s *BatchSet) Translucent() []TranslucentEntry {
	return s.translucent
}

// ShadowLights returns the shadow-casting lights of the frame in input order.
func (s *BatchSet) ShadowLights() []light.Light {
	return s.shadowLights
}

// OpaqueShadow returns the opaque casters of a light.
func (s *BatchSet) OpaqueShadow(id light.ID) (ShadowBatch, bool) {
	b, ok := s.opaqueShadow[id]
	if !ok {
		return ShadowBatch{}, false
	}
	return *b, true
}

// TranslucentShadow returns the alpha-dependent casters of a light in the
// order they were added.
func (s *BatchSet) TranslucentShadow(id light.ID) []ShadowCaster {
	return s.translucentShadow[id]
}

// Stats counts the contents of a BatchSet.
type Stats struct {
	OpaqueLitBatches   int
	OpaqueLitDraws     int
	OpaqueUnlitBatches int
	OpaqueUnlitDraws   int
	Translucent        int
	ShadowLights       int
	ShadowDraws        int
}

func (s *BatchSet) Stats() Stats {
	st := Stats{
		OpaqueLitBatches:   len(s.opaqueLit),
		OpaqueUnlitBatches: len(s.opaqueUnlit),
		Translucent:        len(s.translucent),
		ShadowLights:       len(s.shadowLights),
	}
	for _, b := range s.opaqueLit {
		st.OpaqueLitDraws += len(b)
	}
	for _, b := range s.opaqueUnlit {
		st.OpaqueUnlitDraws += len(b)
	}
	for _, b := range s.opaqueShadow {
		st.ShadowDraws += len(b.Instances)
	}
	for _, b := range s.translucentShadow {
		st.ShadowDraws += len(b)
	}
	return st
}
