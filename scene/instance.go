// Package scene partitions classified drawables into the batches a frame is
// rendered from.
package scene

import (
	"errors"
	"fmt"

	"github.com/gekko3d/forward/label"
	"github.com/gekko3d/forward/light"
	"github.com/gekko3d/forward/material"
)

var (
	// ErrInvalidSceneState is returned when an instance's opacity contradicts
	// the bucket it was routed to.
	ErrInvalidSceneState = errors.New("scene: invalid scene state")

	// ErrContractViolation is returned for inconsistent caller data: unknown
	// or repeated lights, lit instances without lights, diverging shadow labels.
	ErrContractViolation = errors.New("scene: contract violation")
)

// InstanceID identifies an instance within a frame.
type InstanceID uint64

// Opacity is the blending category an instance is rendered with.
type Opacity uint8

const (
	Opaque Opacity = iota
	Translucent
)

func (o Opacity) String() string {
	switch o {
	case Opaque:
		return "opaque"
	case Translucent:
		return "translucent"
	default:
		return fmt.Sprintf("Opacity(%d)", uint8(o))
	}
}

// ShadowRole says whether an instance contributes to shadow maps.
type ShadowRole uint8

const (
	ShadowNone ShadowRole = iota
	// ShadowCasts instances are drawn and cast shadows.
	ShadowCasts
	// ShadowOnly instances cast shadows but are not drawn.
	ShadowOnly
)

// Instance is one drawable as supplied by the producer for a frame.
type Instance struct {
	ID       InstanceID
	Ref      any // producer data, carried through untouched
	Caps     material.Capabilities
	Material material.Config
	Opacity  Opacity
	Shadow   ShadowRole
	Lights   []light.ID // lights affecting the instance this frame
}

// Classified is an instance with its labels attached.
type Classified struct {
	Instance *Instance
	Forward  label.Forward
	Cast     label.ShadowCast
}

// Classify derives the labels of inst.
func Classify(inst *Instance) Classified {
	f := label.DeriveForward(inst.Caps, inst.Material)
	return Classified{
		Instance: inst,
		Forward:  f,
		Cast:     label.ShadowCastFor(f.Caster()),
	}
}
