package format

import "github.com/tonycite/citeproc/ir"

// PlainText renders n to unadorned text: flip-flop normalization
// followed by a flatten, since plain text carries no formatting
// markup to normalize against in the first place. It exists mainly so
// callers that want "the contract" without ever constructing an HTML
// backend have a zero-dependency reference implementation.
func PlainText(n *ir.Node) string {
	return ir.Flatten(FlipFlop(n))
}
