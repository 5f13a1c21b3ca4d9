package doc

// splitSelection splits the text nodes at the selection boundaries so that the
// selection covers whole text nodes. It returns the selected text nodes in
// document order and rewrites the selection to span exactly those nodes.
func (d *Document) splitSelection() []*Node {
	r, ok := d.Selection()
	if !ok {
		return nil
	}
	forward := ComparePos(d.anchor, d.focus) <= 0

	start, end := r.Start, r.End
	if end.Offset < end.Node.Len() {
		splitText(end.Node, end.Offset)
	}
	first := start.Node
	if start.Offset > 0 {
		first = splitText(start.Node, start.Offset)
	}
	last := end.Node
	if start.Node == end.Node {
		last = first
	}

	var segs []*Node
	for t := first; t != nil; t = t.nextText() {
		segs = append(segs, t)
		if t == last {
			break
		}
	}

	a, f := Pos{Node: first}, Pos{Node: last, Offset: last.Len()}
	if !forward {
		a, f = f, a
	}
	d.anchor, d.focus = a, f
	return segs
}

// splitText cuts t at off and returns the new node holding t's tail.
func splitText(t *Node, off int) *Node {
	tail := &Node{kind: KindText, text: append([]rune(nil), t.text[off:]...)}
	t.text = t.text[:off]
	if t.parent != nil {
		t.parent.insertAfter(t, tail)
	}
	return tail
}

// inlineAncestor returns the closest ancestor of kind k below t's block.
func inlineAncestor(t *Node, k Kind) *Node {
	for p := t.parent; p != nil; p = p.parent {
		if p.kind == k {
			return p
		}
		if !p.kind.IsInline() {
			return nil
		}
	}
	return nil
}

// liftOut removes every ancestor of kind k from t's path without affecting
// t's siblings.
func liftOut(t *Node, k Kind) {
	for {
		a := inlineAncestor(t, k)
		if a == nil {
			return
		}
		isolate(a, t)
		a.unwrap()
	}
}

// isolate splits the subtree of a so that a only contains the path down to t.
// Content before and after the path moves into shallow clones placed around
// each split level.
func isolate(a, t *Node) {
	c := t
	for {
		p := c.parent
		i := p.indexOf(c)
		before := append([]*Node(nil), p.children[:i]...)
		after := append([]*Node(nil), p.children[i+1:]...)
		if len(before) > 0 && p.parent != nil {
			left := p.shallowClone()
			p.parent.insertBefore(p, left)
			for _, n := range before {
				left.appendChild(n)
			}
		}
		if len(after) > 0 && p.parent != nil {
			right := p.shallowClone()
			p.parent.insertAfter(p, right)
			for _, n := range after {
				right.appendChild(n)
			}
		}
		if p == a {
			return
		}
		c = p
	}
}

// mergeAdjacent joins neighbouring inline elements of the same kind (and href)
// inside n, recursively. Text nodes are never merged so positions stay valid.
func mergeAdjacent(n *Node) {
	for i := 0; i+1 < len(n.children); {
		a, b := n.children[i], n.children[i+1]
		if a.kind.IsInline() && a.kind == b.kind && a.href == b.href {
			for len(b.children) > 0 {
				a.appendChild(b.children[0])
			}
			n.removeChild(b)
			continue
		}
		i++
	}
	for _, c := range n.children {
		mergeAdjacent(c)
	}
}

// pruneEmpty removes inline elements that no longer hold any text node.
func pruneEmpty(n *Node) {
	for i := 0; i < len(n.children); {
		c := n.children[i]
		if c.kind.IsInline() && !c.hasText() {
			n.removeChild(c)
			continue
		}
		pruneEmpty(c)
		i++
	}
}

func nonEmpty(segs []*Node) []*Node {
	out := segs[:0:0]
	for _, t := range segs {
		if t.Len() > 0 {
			out = append(out, t)
		}
	}
	return out
}

func (d *Document) tidy(segs []*Node) {
	seen := map[*Node]bool{}
	for _, t := range segs {
		b := t.block()
		if b == nil || seen[b] {
			continue
		}
		seen[b] = true
		mergeAdjacent(b)
		pruneEmpty(b)
	}
}

func (d *Document) toggleInline(k Kind) {
	segs := nonEmpty(d.splitSelection())
	if len(segs) == 0 {
		return
	}
	all := true
	for _, t := range segs {
		if inlineAncestor(t, k) == nil {
			all = false
			break
		}
	}
	for _, t := range segs {
		if all {
			liftOut(t, k)
		} else if inlineAncestor(t, k) == nil {
			t.wrapIn(NewElement(k))
		}
	}
	d.tidy(segs)
	d.version++
}

func (d *Document) unlink() {
	segs := nonEmpty(d.splitSelection())
	if len(segs) == 0 {
		return
	}
	for _, t := range segs {
		liftOut(t, KindLink)
	}
	d.tidy(segs)
	d.version++
}

func (d *Document) createLink(href string) {
	segs := nonEmpty(d.splitSelection())
	if len(segs) == 0 {
		return
	}
	for _, t := range segs {
		liftOut(t, KindLink)
	}
	for _, t := range segs {
		t.wrapIn(NewLink(href))
	}
	d.tidy(segs)
	d.version++
}

// setBlockFormat re-tags the article blocks between the selection endpoints.
// Selections inside the header are left alone.
func (d *Document) setBlockFormat(k Kind) {
	r := NormalizeRange(Range{Start: d.anchor, End: d.focus})
	if r.Start.Node == nil {
		return
	}
	startBlock, endBlock := r.Start.Node.block(), r.End.Node.block()
	if endBlock == nil || endBlock.kind == KindHeader {
		return
	}
	if startBlock == nil || startBlock.kind == KindHeader {
		startBlock = d.article.children[0]
	}
	in := false
	changed := false
	for _, b := range d.article.children {
		if b == startBlock {
			in = true
		}
		if in && b.kind != k {
			b.kind = k
			changed = true
		}
		if b == endBlock {
			break
		}
	}
	if changed {
		d.version++
	}
}
