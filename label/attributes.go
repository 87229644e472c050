package label

// Attribute is a named vertex attribute at a fixed shader location.
type Attribute struct {
	Name     string
	Location uint32
}

// The attribute table is fixed for the life of the process.
var (
	AttributePosition = Attribute{Name: "v_position", Location: 0}
	AttributeNormal   = Attribute{Name: "v_normal", Location: 1}
	AttributeUV       = Attribute{Name: "v_uv", Location: 2}
	AttributeTangent  = Attribute{Name: "v_tangent4", Location: 3}

	attributes = [...]Attribute{AttributePosition, AttributeNormal, AttributeUV, AttributeTangent}
)

// Attributes returns every known attribute in location order.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributes))
	copy(out, attributes[:])
	return out
}

// AttributeByName looks up an attribute by its shader name.
func AttributeByName(name string) (Attribute, bool) {
	for _, a := range attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// AppendAttributes appends the attributes a shader for f reads to dst.
// Passing a reused slice keeps the call allocation free.
func AppendAttributes(dst []Attribute, f Forward) []Attribute {
	dst = append(dst, AttributePosition)
	if f.Normal != NormalNone {
		dst = append(dst, AttributeNormal)
	}
	if f.ImpliesUV() {
		dst = append(dst, AttributeUV)
	}
	if f.Normal == NormalMapped {
		dst = append(dst, AttributeTangent)
	}
	return dst
}

// AppendCasterAttributes appends the attributes a depth-only shader reads.
func AppendCasterAttributes(dst []Attribute, c Caster) []Attribute {
	dst = append(dst, AttributePosition)
	if c.Albedo == AlbedoTextured && c.Alpha != AlphaOpaque {
		dst = append(dst, AttributeUV)
	}
	return dst
}
