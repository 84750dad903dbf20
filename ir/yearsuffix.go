package ir

// ApplyYearSuffix returns a copy of n with every KindYearSuffix node's
// Suffix field set to suffix. This is disamb's "pass 4" (spec §4.4):
// the builder leaves year-suffix slots empty (see YearSuffix), and
// only once the whole cited-reference set has been partitioned into
// author+year groups does a specific letter exist to fill them with.
func ApplyYearSuffix(n *Node, suffix string) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindYearSuffix:
		cp := *n
		cp.Suffix = suffix
		return &cp
	case KindFormatted:
		cp := *n
		cp.Child = ApplyYearSuffix(n.Child, suffix)
		return &cp
	case KindGroup:
		cp := *n
		cp.Children = applyYearSuffixAll(n.Children, suffix)
		return &cp
	case KindChoose:
		cp := *n
		cp.Branch = ApplyYearSuffix(n.Branch, suffix)
		return &cp
	case KindSeq:
		cp := *n
		cp.Items = applyYearSuffixAll(n.Items, suffix)
		return &cp
	default:
		return n
	}
}

func applyYearSuffixAll(nodes []*Node, suffix string) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, c := range nodes {
		out[i] = ApplyYearSuffix(c, suffix)
	}
	return out
}
