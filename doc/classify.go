package doc

// Classification is the set of kinds found on the path from a position to the
// document root, plus the href of an enclosing link.
type Classification struct {
	Kinds   KindSet
	Href    string
	HasLink bool
	// Visits counts the nodes inspected, which equals the depth of the
	// classified node.
	Visits int
}

// Classify walks from p's node up to (but excluding) the root, collecting the
// kind of every node it passes.
func Classify(p Pos) Classification {
	var c Classification
	for n := p.Node; n != nil && n.parent != nil; n = n.parent {
		c.Visits++
		c.Kinds = c.Kinds.Add(n.kind)
		if n.kind == KindLink && !c.HasLink {
			c.HasLink = true
			c.Href = n.href
		}
	}
	return c
}
