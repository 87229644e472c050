package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/forward/label"
	"github.com/gekko3d/forward/light"
	"github.com/gekko3d/forward/material"
)

var white = mgl32.Vec3{1, 1, 1}

func newSphere() *light.Spherical {
	return light.NewSpherical(mgl32.Vec3{}, white, 1, 10)
}

func newShadowed(s light.Shadow) *light.Projective {
	return light.NewProjective(mgl32.Vec3{0, 5, 0}, mgl32.QuatIdent(), 60, 1, 0.1, 50, white, 1).WithShadow(s)
}

func opaque(id InstanceID, lights ...light.ID) *Instance {
	return &Instance{ID: id, Material: material.Default(), Opacity: Opaque, Lights: lights}
}

func translucent(id InstanceID, lights ...light.ID) *Instance {
	mat := material.Default()
	mat.Alpha = material.Alpha{Category: material.AlphaTranslucent, Opacity: 0.5}
	return &Instance{ID: id, Material: mat, Opacity: Translucent, Lights: lights}
}

func classifyAll(insts ...*Instance) []Classified {
	out := make([]Classified, len(insts))
	for i, inst := range insts {
		out[i] = Classify(inst)
	}
	return out
}

func ids(list []*Instance) []InstanceID {
	out := make([]InstanceID, len(list))
	for i, inst := range list {
		out[i] = inst.ID
	}
	return out
}

func translucentIDs(list []TranslucentEntry) []InstanceID {
	out := make([]InstanceID, len(list))
	for i, t := range list {
		out[i] = t.Instance().ID
	}
	return out
}

func TestBuildBatches_ScenarioC_SharedLightAndLabel(t *testing.T) {
	l := newSphere()
	a, b := opaque(1, l.ID()), opaque(2, l.ID())

	set, err := BuildBatches(label.DefaultPlatform(), classifyAll(a, b), []light.Light{l})
	require.NoError(t, err)

	f, ok := label.ParseForward("U_BC")
	require.True(t, ok)
	batch := set.OpaqueLit(l.ID(), f)
	assert.Len(t, batch, 2)
	assert.ElementsMatch(t, []InstanceID{1, 2}, ids(batch))
	assert.Equal(t, []LitKey{{Light: l.ID(), Label: f}}, set.LitKeys())
}

func TestBuildBatches_ScenarioD_TranslucentOrder(t *testing.T) {
	items := classifyAll(translucent(10), translucent(11), translucent(12))
	set, err := BuildBatches(label.DefaultPlatform(), items, nil)
	require.NoError(t, err)

	assert.Equal(t, []InstanceID{10, 11, 12}, translucentIDs(set.Translucent()))
	for _, tr := range set.Translucent() {
		_, unlit := tr.(TranslucentUnlit)
		assert.True(t, unlit)
	}
}

func TestBuildBatches_TranslucentOrderSurvivesInterleaving(t *testing.T) {
	l1, l2 := newSphere(), newSphere()
	insts := []*Instance{
		opaque(1, l1.ID()),
		translucent(2, l2.ID()),
		opaque(3),
		translucent(4),
		opaque(5, l1.ID(), l2.ID()),
		translucent(6, l1.ID(), l2.ID()),
		translucent(7),
	}
	set, err := BuildBatches(label.DefaultPlatform(), classifyAll(insts...), []light.Light{l1, l2})
	require.NoError(t, err)

	assert.Equal(t, []InstanceID{2, 4, 6, 7}, translucentIDs(set.Translucent()))

	lit, ok := set.Translucent()[2].(TranslucentLit)
	require.True(t, ok)
	require.Len(t, lit.Lights, 2)
	assert.Equal(t, l1.ID(), lit.Lights[0].ID())
	assert.Equal(t, l2.ID(), lit.Lights[1].ID())
	assert.Equal(t, label.AlphaTranslucent, lit.Forward().Alpha)
}

func TestBuildBatches_EveryInstanceInOneBucket(t *testing.T) {
	lights := []light.Light{newSphere(), newSphere(), newSphere()}
	lightIDs := []light.ID{lights[0].ID(), lights[1].ID(), lights[2].ID()}

	var insts []*Instance
	for i := 0; i < 12; i++ {
		k := i % 4
		inst := opaque(InstanceID(i), lightIDs[:min(k, 3)]...)
		if i%3 == 0 {
			inst.Caps = material.Capabilities{HasNormal: true}
		}
		insts = append(insts, inst)
	}
	set, err := BuildBatches(label.DefaultPlatform(), classifyAll(insts...), lights)
	require.NoError(t, err)

	appearances := make(map[InstanceID]int)
	for _, k := range set.LitKeys() {
		for _, inst := range set.OpaqueLit(k.Light, k.Label) {
			appearances[inst.ID]++
		}
	}
	unlit := make(map[InstanceID]bool)
	for _, f := range set.UnlitKeys() {
		for _, inst := range set.OpaqueUnlit(f) {
			unlit[inst.ID] = true
		}
	}
	for _, inst := range insts {
		k := len(inst.Lights)
		assert.Equal(t, k, appearances[inst.ID], "instance %d", inst.ID)
		assert.Equal(t, k == 0, unlit[inst.ID], "instance %d", inst.ID)
	}
	assert.Empty(t, set.Translucent())

	st := set.Stats()
	assert.Equal(t, 3, st.OpaqueUnlitDraws)
	assert.Equal(t, 3*1+3*2+3*3, st.OpaqueLitDraws)
}

func TestBuildBatches_Idempotent(t *testing.T) {
	l := newSphere()
	items := classifyAll(opaque(1, l.ID()), translucent(2, l.ID()), opaque(3), translucent(4))

	first, err := BuildBatches(label.DefaultPlatform(), items, []light.Light{l})
	require.NoError(t, err)
	second, err := BuildBatches(label.DefaultPlatform(), items, []light.Light{l})
	require.NoError(t, err)

	require.Equal(t, first.LitKeys(), second.LitKeys())
	for _, k := range first.LitKeys() {
		assert.ElementsMatch(t, ids(first.OpaqueLit(k.Light, k.Label)), ids(second.OpaqueLit(k.Light, k.Label)))
	}
	require.Equal(t, first.UnlitKeys(), second.UnlitKeys())
	for _, f := range first.UnlitKeys() {
		assert.ElementsMatch(t, ids(first.OpaqueUnlit(f)), ids(second.OpaqueUnlit(f)))
	}
	assert.Equal(t, translucentIDs(first.Translucent()), translucentIDs(second.Translucent()))
	assert.Equal(t, first.Stats(), second.Stats())
}

func TestBatcher_InvalidSceneState(t *testing.T) {
	b, err := NewBatcher(label.DefaultPlatform(), nil)
	require.NoError(t, err)

	err = b.AddOpaqueUnlit(Classify(translucent(1)))
	assert.ErrorIs(t, err, ErrInvalidSceneState)

	err = b.AddTranslucent(Classify(opaque(2)))
	assert.ErrorIs(t, err, ErrInvalidSceneState)

	// Opacity says opaque but the material blends.
	mixed := translucent(3)
	mixed.Opacity = Opaque
	err = b.AddOpaqueUnlit(Classify(mixed))
	assert.ErrorIs(t, err, ErrInvalidSceneState)

	weird := opaque(4)
	weird.Opacity = Opacity(9)
	assert.ErrorIs(t, b.Add(Classify(weird)), ErrInvalidSceneState)

	assert.Empty(t, b.Build().UnlitKeys())
}

func TestBatcher_ContractViolations(t *testing.T) {
	l := newSphere()

	_, err := NewBatcher(label.DefaultPlatform(), []light.Light{l, l})
	assert.ErrorIs(t, err, ErrContractViolation)

	b, err := NewBatcher(label.DefaultPlatform(), []light.Light{l})
	require.NoError(t, err)

	assert.ErrorIs(t, b.AddOpaqueLit(Classify(opaque(1, light.NewID()))), ErrContractViolation)
	assert.ErrorIs(t, b.AddOpaqueLit(Classify(opaque(2, l.ID(), l.ID()))), ErrContractViolation)
	assert.ErrorIs(t, b.AddOpaqueLit(Classify(opaque(3))), ErrContractViolation)
	assert.ErrorIs(t, b.AddTranslucent(Classify(translucent(4, light.NewID()))), ErrContractViolation)
	assert.ErrorIs(t, b.AddShadowCaster(Classify(opaque(5, l.ID()))), ErrContractViolation)

	// Nothing was appended by the failed calls.
	set := b.Build()
	assert.Empty(t, set.LitKeys())
	assert.Empty(t, set.Translucent())
}

func TestBuildBatches_ShadowCasters(t *testing.T) {
	basic := newShadowed(light.Basic{Map: light.MapConfig{Size: 512}})
	variance := newShadowed(light.Variance{Map: light.MapConfig{Size: 256}})
	plain := newSphere()
	lights := []light.Light{plain, basic, variance}
	all := []light.ID{plain.ID(), basic.ID(), variance.ID()}

	caster := func(inst *Instance, role ShadowRole) *Instance {
		inst.Shadow = role
		return inst
	}
	textured := func(inst *Instance) *Instance {
		inst.Caps.HasUV = true
		inst.Material.Albedo = material.Albedo{Mix: 1, HasTexture: true}
		return inst
	}
	cutout := caster(opaque(4, all...), ShadowCasts)
	cutout.Material.Alpha.Category = material.AlphaOpaqueToDepth

	insts := []*Instance{
		caster(opaque(1, all...), ShadowCasts),
		caster(translucent(2, all...), ShadowCasts),
		caster(opaque(3, basic.ID()), ShadowOnly),
		cutout,
		caster(textured(translucent(5, all...)), ShadowCasts),
		opaque(6, all...),
	}
	p := label.Platform{DepthTextures: false}
	set, err := BuildBatches(p, classifyAll(insts...), lights)
	require.NoError(t, err)

	assert.Equal(t, []light.Light{basic, variance}, set.ShadowLights())

	ob, ok := set.OpaqueShadow(basic.ID())
	require.True(t, ok)
	assert.Equal(t, "SB_O_P", ob.Label.Code())
	assert.Equal(t, []InstanceID{1, 3}, ids(ob.Instances))

	ov, ok := set.OpaqueShadow(variance.ID())
	require.True(t, ok)
	assert.Equal(t, "SV_O", ov.Label.Code())
	assert.Equal(t, []InstanceID{1}, ids(ov.Instances))

	_, ok = set.OpaqueShadow(plain.ID())
	assert.False(t, ok)

	ts := set.TranslucentShadow(basic.ID())
	require.Len(t, ts, 3)
	assert.Equal(t, InstanceID(2), ts[0].Item.ID)
	assert.Equal(t, "SB_T_P", ts[0].Label.Code())
	assert.Equal(t, InstanceID(4), ts[1].Item.ID)
	assert.Equal(t, InstanceID(5), ts[2].Item.ID)
	assert.Equal(t, "SB_TT_P", ts[2].Label.Code())
	assert.Len(t, set.TranslucentShadow(variance.ID()), 3)
	assert.Empty(t, set.TranslucentShadow(plain.ID()))

	// Shadow-only instances are never drawn.
	for _, k := range set.LitKeys() {
		assert.NotContains(t, ids(set.OpaqueLit(k.Light, k.Label)), InstanceID(3))
	}
	assert.Equal(t, 2+1+3+3, set.Stats().ShadowDraws)
}

func TestBatcher_BuildStartsFreshFrame(t *testing.T) {
	l := newShadowed(light.Basic{})
	b, err := NewBatcher(label.DefaultPlatform(), []light.Light{l})
	require.NoError(t, err)

	require.NoError(t, b.Add(Classify(opaque(1, l.ID()))))
	first := b.Build()
	second := b.Build()

	assert.Len(t, first.LitKeys(), 1)
	assert.Empty(t, second.LitKeys())
	assert.Equal(t, []light.Light{l}, second.ShadowLights())
}

func TestNewBatcher_NilLight(t *testing.T) {
	_, err := NewBatcher(label.DefaultPlatform(), []light.Light{newSphere(), nil})
	assert.ErrorIs(t, err, ErrContractViolation)
}

func TestBatcher_RejectedCasterLeavesFrameUnchanged(t *testing.T) {
	l := newShadowed(light.Basic{})
	b, err := NewBatcher(label.DefaultPlatform(), []light.Light{l})
	require.NoError(t, err)

	// Opaque routing with a blending material fails after the shadow step
	// would have accepted it.
	mixed := translucent(1, l.ID())
	mixed.Opacity = Opaque
	mixed.Shadow = ShadowCasts
	assert.ErrorIs(t, b.Add(Classify(mixed)), ErrInvalidSceneState)

	solid := opaque(2, l.ID())
	solid.Material.Alpha.Category = material.AlphaTranslucent
	solid.Shadow = ShadowCasts
	assert.ErrorIs(t, b.Add(Classify(solid)), ErrInvalidSceneState)

	set := b.Build()
	assert.Empty(t, set.TranslucentShadow(l.ID()))
	_, ok := set.OpaqueShadow(l.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, set.Stats().ShadowDraws)
}

func TestBatcher_LightListChecks(t *testing.T) {
	a, b2, c := newSphere(), newSphere(), newSphere()
	b, err := NewBatcher(label.DefaultPlatform(), []light.Light{a, b2, c})
	require.NoError(t, err)

	// The same lights on consecutive instances are not duplicates.
	for id := InstanceID(1); id <= 3; id++ {
		require.NoError(t, b.Add(Classify(opaque(id, a.ID(), b2.ID(), c.ID()))))
	}
	assert.ErrorIs(t, b.Add(Classify(opaque(4, a.ID(), b2.ID(), c.ID(), a.ID()))), ErrContractViolation)
	assert.ErrorIs(t, b.Add(Classify(translucent(5, c.ID(), b2.ID(), c.ID()))), ErrContractViolation)
	require.NoError(t, b.Add(Classify(translucent(6, c.ID(), b2.ID()))))

	set := b.Build()
	f := Classify(opaque(0)).Forward
	assert.Equal(t, []InstanceID{1, 2, 3}, ids(set.OpaqueLit(a.ID(), f)))
	require.Len(t, set.Translucent(), 1)
	lit, ok := set.Translucent()[0].(TranslucentLit)
	require.True(t, ok)
	assert.Equal(t, []light.Light{c, b2}, lit.Lights)
}

func TestTranslucentEntryVariants(t *testing.T) {
	entries := []TranslucentEntry{
		TranslucentUnlit{Item: translucent(1)},
		TranslucentLit{Item: translucent(2)},
	}
	for i, e := range entries {
		assert.Equal(t, InstanceID(i+1), e.Instance().ID)
		assert.Equal(t, Translucent, e.Instance().Opacity)
	}
}
