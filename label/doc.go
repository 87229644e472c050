// Package label decides which shader variant renders a drawable.
//
// Every decision is a pure, total function of a mesh's vertex capabilities,
// its material configuration and the platform's capabilities. Each label has a
// short code; composite labels join the non-empty codes of their parts with
// Separator in a fixed order. Those codes name shader permutations in external
// tooling, so the rules that produce them must not change.
//
//	f := label.DeriveForward(caps, mat)
//	program := programs[f.Code()] // e.g. "U_BT_NM_SC"
//	if f.ImpliesUV() {
//		bindUV()
//	}
package label

// Separator joins the sub-codes of a composite label.
const Separator = "_"
