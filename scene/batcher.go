package scene

import (
	"fmt"

	"github.com/gekko3d/forward/label"
	"github.com/gekko3d/forward/light"
)

// Batcher accumulates classified instances for one frame. It is not safe for
// concurrent use; Build hands the result off and readies it for the next frame.
type Batcher struct {
	platform label.Platform
	lights   map[light.ID]light.Light
	order    []light.Light
	set      *BatchSet

	// seen[id] == stamp marks lights already met in the current instance's
	// list; bumping stamp empties it.
	seen  map[light.ID]uint64
	stamp uint64
}

// NewBatcher returns a batcher for a frame lit by lights. Light identities
// must be unique.
func NewBatcher(p label.Platform, lights []light.Light) (*Batcher, error) {
	b := &Batcher{
		platform: p,
		lights:   make(map[light.ID]light.Light, len(lights)),
		order:    lights,
		seen:     make(map[light.ID]uint64),
	}
	for i, l := range lights {
		if l == nil {
			return nil, fmt.Errorf("%w: light %d is nil", ErrContractViolation, i)
		}
		if _, dup := b.lights[l.ID()]; dup {
			return nil, fmt.Errorf("%w: light %s listed twice", ErrContractViolation, l.ID())
		}
		b.lights[l.ID()] = l
	}
	b.reset()
	return b, nil
}

func (b *Batcher) reset() {
	b.set = newBatchSet()
	for _, l := range b.order {
		if _, ok := light.ShadowOf(l); ok {
			b.set.shadowLights = append(b.set.shadowLights, l)
		}
	}
}

// checkLights verifies that every light of inst is known and listed once.
func (b *Batcher) checkLights(inst *Instance) error {
	b.stamp++
	for _, id := range inst.Lights {
		if _, ok := b.lights[id]; !ok {
			return fmt.Errorf("%w: instance %d references unknown light %s", ErrContractViolation, inst.ID, id)
		}
		if b.seen[id] == b.stamp {
			return fmt.Errorf("%w: instance %d lists light %s twice", ErrContractViolation, inst.ID, id)
		}
		b.seen[id] = b.stamp
	}
	return nil
}

func checkTranslucent(c Classified) error {
	if c.Instance.Opacity != Translucent || c.Forward.Alpha != label.AlphaTranslucent {
		return fmt.Errorf("%w: instance %d (%s, alpha %s) routed to the translucent list",
			ErrInvalidSceneState, c.Instance.ID, c.Instance.Opacity, c.Forward.Alpha)
	}
	return nil
}

func checkOpaque(c Classified) error {
	if c.Instance.Opacity != Opaque || !c.Forward.Alpha.Opaque() {
		return fmt.Errorf("%w: instance %d (%s, alpha %s) routed to an opaque bucket",
			ErrInvalidSceneState, c.Instance.ID, c.Instance.Opacity, c.Forward.Alpha)
	}
	return nil
}

// AddOpaqueLit appends c to the batch of every light affecting it.
func (b *Batcher) AddOpaqueLit(c Classified) error {
	if err := checkOpaque(c); err != nil {
		return err
	}
	inst := c.Instance
	if len(inst.Lights) == 0 {
		return fmt.Errorf("%w: instance %d routed to a lit bucket without lights", ErrContractViolation, inst.ID)
	}
	if err := b.checkLights(inst); err != nil {
		return err
	}
	for _, id := range inst.Lights {
		k := LitKey{Light: id, Label: c.Forward}
		b.set.opaqueLit[k] = append(b.set.opaqueLit[k], inst)
	}
	return nil
}

// AddOpaqueUnlit appends c to the batch of its forward label.
func (b *Batcher) AddOpaqueUnlit(c Classified) error {
	if err := checkOpaque(c); err != nil {
		return err
	}
	b.set.opaqueUnlit[c.Forward] = append(b.set.opaqueUnlit[c.Forward], c.Instance)
	return nil
}

// AddTranslucent appends c to the translucent list. The list keeps the order
// of calls; blending depends on it, so sorting is the caller's job.
func (b *Batcher) AddTranslucent(c Classified) error {
	if err := checkTranslucent(c); err != nil {
		return err
	}
	inst := c.Instance
	if len(inst.Lights) == 0 {
		b.set.translucent = append(b.set.translucent, TranslucentUnlit{Item: inst, Label: c.Forward})
		return nil
	}
	if err := b.checkLights(inst); err != nil {
		return err
	}
	lights := make([]light.Light, len(inst.Lights))
	for i, id := range inst.Lights {
		lights[i] = b.lights[id]
	}
	b.set.translucent = append(b.set.translucent, TranslucentLit{Item: inst, Label: c.Forward, Lights: lights})
	return nil
}

// AddShadowCaster adds c to the shadow maps of its shadow-casting lights.
// Casters that need no alpha share one batch per light; the others are kept
// per light in the order they were added.
func (b *Batcher) AddShadowCaster(c Classified) error {
	inst := c.Instance
	if inst.Shadow == ShadowNone {
		return fmt.Errorf("%w: instance %d casts no shadow", ErrContractViolation, inst.ID)
	}
	separate := inst.Opacity == Translucent || c.Cast != label.ShadowCastOpaque
	if err := b.checkLights(inst); err != nil {
		return err
	}
	for _, id := range inst.Lights {
		l := b.lights[id]
		shadow, ok := light.ShadowOf(l)
		if !ok || separate {
			continue
		}
		sl := label.ShadowFor(shadow, c.Cast, b.platform)
		if batch, ok := b.set.opaqueShadow[l.ID()]; ok && batch.Label != sl {
			return fmt.Errorf("%w: instance %d has shadow label %s under light %s, batch has %s",
				ErrContractViolation, inst.ID, sl.Code(), l.ID(), batch.Label.Code())
		}
	}
	for _, id := range inst.Lights {
		shadow, ok := light.ShadowOf(b.lights[id])
		if !ok {
			continue
		}
		sl := label.ShadowFor(shadow, c.Cast, b.platform)
		if separate {
			b.set.translucentShadow[id] = append(b.set.translucentShadow[id], ShadowCaster{Item: inst, Label: sl})
			continue
		}
		batch, ok := b.set.opaqueShadow[id]
		if !ok {
			batch = &ShadowBatch{Label: sl}
			b.set.opaqueShadow[id] = batch
		}
		batch.Instances = append(batch.Instances, inst)
	}
	return nil
}

// Build returns the frame's batches and starts a fresh frame.
func (b *Batcher) Build() *BatchSet {
	set := b.set
	b.reset()
	return set
}

// Add routes c by its opacity, light list and shadow role. A rejected
// instance leaves the pending frame as it was.
func (b *Batcher) Add(c Classified) error {
	inst := c.Instance
	if inst.Shadow != ShadowOnly {
		var err error
		switch inst.Opacity {
		case Opaque:
			err = checkOpaque(c)
		case Translucent:
			err = checkTranslucent(c)
		default:
			err = fmt.Errorf("%w: instance %d has unknown opacity %s", ErrInvalidSceneState, inst.ID, inst.Opacity)
		}
		if err != nil {
			return err
		}
	} else if inst.Opacity > Translucent {
		return fmt.Errorf("%w: instance %d has unknown opacity %s", ErrInvalidSceneState, inst.ID, inst.Opacity)
	}
	if inst.Shadow != ShadowNone {
		if err := b.AddShadowCaster(c); err != nil {
			return err
		}
		if inst.Shadow == ShadowOnly {
			return nil
		}
	}
	switch inst.Opacity {
	case Opaque:
		if len(inst.Lights) == 0 {
			return b.AddOpaqueUnlit(c)
		}
		return b.AddOpaqueLit(c)
	case Translucent:
		return b.AddTranslucent(c)
	default:
		return fmt.Errorf("%w: instance %d has unknown opacity %s", ErrInvalidSceneState, inst.ID, inst.Opacity)
	}
}

// BuildBatches batches items in a single pass. Translucent instances keep the
// order they have in items.
func BuildBatches(p label.Platform, items []Classified, lights []light.Light) (*BatchSet, error) {
	b, err := NewBatcher(p, lights)
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		if err := b.Add(c); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
