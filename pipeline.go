// Package forward turns a frame's instances and lights into labelled draw
// batches and hands out the render targets those batches render into.
package forward

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gekko3d/forward/label"
	"github.com/gekko3d/forward/light"
	"github.com/gekko3d/forward/rescache"
	"github.com/gekko3d/forward/scene"
	"github.com/gekko3d/forward/targets"
)

// ShadowMapReceipt pins a shadow map until released.
type ShadowMapReceipt = rescache.Receipt[targets.ShadowKey, *targets.Target[targets.ShadowKey]]

// ScratchReceipt pins a scratch framebuffer until released.
type ScratchReceipt = rescache.Receipt[targets.ScratchKey, *targets.Target[targets.ScratchKey]]

// Pipeline is the per-renderer front end. It is not safe for concurrent use
// except for ShadowMap and Scratch, which go through locked pools.
type Pipeline struct {
	cfg     Config
	log     Logger
	shadows *targets.ShadowMaps
	scratch *targets.Scratch

	classified []scene.Classified
	profiler   Profiler
	frame      uint64
}

func NewPipeline(alloc targets.Allocator, opts ...Option) *Pipeline {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NewDefaultLogger(cfg.LogPrefix, cfg.Debug)
	} else if cfg.Debug {
		logger.SetDebug(true)
	}

	return &Pipeline{
		cfg:     cfg,
		log:     logger,
		shadows: targets.NewShadowMaps(alloc, cfg.ShadowMapBudget, rescache.WithLogger(logger)),
		scratch: targets.NewScratch(alloc, cfg.ScratchBudget, rescache.WithLogger(logger)),
	}
}

func (p *Pipeline) Config() Config { return p.cfg }

func (p *Pipeline) Logger() Logger { return p.log }

// Profiler returns the measurements of the last frame.
func (p *Pipeline) Profiler() Profiler { return p.profiler }

// Frame classifies instances and batches them against lights. Materials are
// validated first; an invalid one fails the frame with an error wrapping
// material.ErrInvalidConfiguration.
func (p *Pipeline) Frame(instances []*scene.Instance, lights []light.Light) (*scene.BatchSet, error) {
	p.frame++
	p.profiler.Reset()
	p.profiler.Instances = len(instances)
	p.profiler.Lights = len(lights)

	start := time.Now()
	p.classified = p.classified[:0]
	defer func() { clear(p.classified) }()
	for i, inst := range instances {
		if inst == nil {
			return nil, fmt.Errorf("forward: frame %d: %w: instance %d is nil", p.frame, scene.ErrContractViolation, i)
		}
		if err := inst.Material.Validate(); err != nil {
			return nil, fmt.Errorf("forward: frame %d: instance %d: %w", p.frame, inst.ID, err)
		}
		p.classified = append(p.classified, scene.Classify(inst))
	}
	p.profiler.ClassifyTime = time.Since(start)

	start = time.Now()
	set, err := scene.BuildBatches(p.cfg.Platform, p.classified, lights)
	p.profiler.BatchTime = time.Since(start)
	if err != nil {
		p.log.Errorf("frame %d: %v", p.frame, err)
		return nil, fmt.Errorf("forward: frame %d: %w", p.frame, err)
	}
	p.profiler.Batches = set.Stats()

	if p.log.DebugEnabled() {
		p.log.Debugf("frame %d: %s", p.frame, p.profiler)
	}
	return set, nil
}

// ShadowMap borrows the shadow map for a shadow-casting light. The map's
// format follows the light's shadow configuration and the platform.
func (p *Pipeline) ShadowMap(l light.Light) (*ShadowMapReceipt, error) {
	return targets.BorrowShadowMap(p.shadows, l, p.cfg.Platform)
}

// ShadowLabel returns the label a caster with cast draws under for l.
func (p *Pipeline) ShadowLabel(l light.Light, cast label.ShadowCast) (label.Shadow, bool) {
	s, ok := light.ShadowOf(l)
	if !ok {
		return label.Shadow{}, false
	}
	return label.ShadowFor(s, cast, p.cfg.Platform), true
}

// Scratch borrows a framebuffer for a postprocessing pass.
func (p *Pipeline) Scratch(width, height uint32, format gputypes.TextureFormat) (*ScratchReceipt, error) {
	return p.scratch.Borrow(targets.ScratchKey{Width: width, Height: height, Format: format})
}

// Resize drops every scratch framebuffer. It fails while any is borrowed.
func (p *Pipeline) Resize() error {
	if err := p.scratch.InvalidateAll(); err != nil {
		return fmt.Errorf("forward: resize: %w", err)
	}
	p.log.Infof("scratch targets invalidated")
	return nil
}

// Stats returns the state of the shadow map and scratch pools.
func (p *Pipeline) Stats() (shadows, scratch rescache.Stats) {
	return p.shadows.Stats(), p.scratch.Stats()
}

// Close releases every render target. It fails if receipts are outstanding.
func (p *Pipeline) Close() error {
	err := errors.Join(p.shadows.Close(), p.scratch.Close())
	if err != nil {
		return fmt.Errorf("forward: close: %w", err)
	}
	return nil
}
