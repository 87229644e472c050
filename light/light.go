// Package light defines the light sources a scene can contain.
//
// Light and Shadow are closed sums: the only implementations are the ones in
// this package, and consumers switch over them exhaustively.
package light

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ID uniquely identifies a light for the lifetime of the process.
type ID uuid.UUID

// NewID returns a fresh random light identity.
func NewID() ID { return ID(uuid.New()) }

func (id ID) String() string { return uuid.UUID(id).String() }

// Kind names the variant of a Light.
type Kind uint8

const (
	KindDirectional Kind = iota
	KindSpherical
	KindProjective
)

func (k Kind) String() string {
	switch k {
	case KindDirectional:
		return "directional"
	case KindSpherical:
		return "spherical"
	case KindProjective:
		return "projective"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Light is one of Directional, Spherical or Projective.
type Light interface {
	ID() ID
	Kind() Kind
	Colour() mgl32.Vec3
	Intensity() float32
	sealed()
}

// Common holds the properties every light variant shares.
type Common struct {
	id        ID
	colour    mgl32.Vec3
	intensity float32
}

func newCommon(colour mgl32.Vec3, intensity float32) Common {
	return Common{id: NewID(), colour: colour, intensity: intensity}
}

func (c Common) ID() ID             { return c.id }
func (c Common) Colour() mgl32.Vec3 { return c.colour }
func (c Common) Intensity() float32 { return c.intensity }

// Directional lights every surface from a single direction with no falloff.
type Directional struct {
	Common
	Direction mgl32.Vec3
}

func NewDirectional(direction, colour mgl32.Vec3, intensity float32) *Directional {
	return &Directional{Common: newCommon(colour, intensity), Direction: direction.Normalize()}
}

func (*Directional) Kind() Kind { return KindDirectional }
func (*Directional) sealed()    {}

// Spherical emits in all directions from a point, attenuating to zero at Radius.
type Spherical struct {
	Common
	Position mgl32.Vec3
	Radius   float32
	Falloff  float32
}

func NewSpherical(position, colour mgl32.Vec3, intensity, radius float32) *Spherical {
	return &Spherical{Common: newCommon(colour, intensity), Position: position, Radius: radius, Falloff: 1}
}

func (*Spherical) Kind() Kind { return KindSpherical }
func (*Spherical) sealed()    {}

// Projective projects light along a frustum and is the only variant that may
// cast shadows.
type Projective struct {
	Common
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	Projection  mgl32.Mat4
	Radius      float32
	Falloff     float32
	Shadow      Shadow // nil when the light casts no shadows
}

// NewProjective builds a perspective projective light looking down its
// orientation's -Z axis.
func NewProjective(position mgl32.Vec3, orientation mgl32.Quat, fovY, aspect, near, far float32, colour mgl32.Vec3, intensity float32) *Projective {
	return &Projective{
		Common:      newCommon(colour, intensity),
		Position:    position,
		Orientation: orientation.Normalize(),
		Projection:  mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far),
		Radius:      far,
		Falloff:     1,
	}
}

func (*Projective) Kind() Kind { return KindProjective }
func (*Projective) sealed()    {}

// WithShadow attaches a shadow configuration and returns the light.
func (p *Projective) WithShadow(s Shadow) *Projective {
	p.Shadow = s
	return p
}

// View returns the world-to-light transform.
func (p *Projective) View() mgl32.Mat4 {
	rot := p.Orientation.Inverse().Mat4()
	return rot.Mul4(mgl32.Translate3D(-p.Position.X(), -p.Position.Y(), -p.Position.Z()))
}

// ViewProjection returns Projection * View.
func (p *Projective) ViewProjection() mgl32.Mat4 {
	return p.Projection.Mul4(p.View())
}

// ShadowOf returns the shadow configuration of l, if it has one.
func ShadowOf(l Light) (Shadow, bool) {
	if p, ok := l.(*Projective); ok && p.Shadow != nil {
		return p.Shadow, true
	}
	return nil, false
}
