package modifier

// Chain is the attached node list for one layout element, reconciled every
// time the element's modifier value changes.
type Chain struct {
	owner    Owner
	elements []Element
	nodes    []Node

	// Capability index, rebuilt after every reconcile: for each capability
	// the nodes advertising it, in chain order.
	layoutNodes    []Node
	drawNodes      []Node
	pointerNodes   []Node
	semanticsNodes []Node
	focusNodes     []Node

	caps Capabilities
}

// NewChain creates an empty chain for the owner.
func NewChain(owner Owner) *Chain {
	return &Chain{owner: owner}
}

// Reconcile walks the new element slice and the existing node list in
// parallel. Type-matching positions update in place; mismatches detach the
// old node and attach a fresh one; length differences detach or attach the
// tail. Afterwards the capability index is rebuilt.
//
// Returns the capabilities that changed membership, so the owner can decide
// which invalidation bits to raise.
func (c *Chain) Reconcile(elements []Element) Capabilities {
	oldCaps := c.caps

	n := len(elements)
	if len(c.nodes) < n {
		n = len(c.nodes)
	}

	for i := 0; i < n; i++ {
		oldElem, newElem := c.elements[i], elements[i]
		node := c.nodes[i]
		if sameElementType(oldElem, newElem) {
			if !elementsEquivalent(oldElem, newElem) {
				node.base().epoch++
				newElem.Update(node)
			}
			continue
		}
		c.detachNode(node)
		c.nodes[i] = c.attachNew(newElem)
	}

	// Detach surplus old nodes.
	for i := n; i < len(c.nodes); i++ {
		c.detachNode(c.nodes[i])
	}
	c.nodes = c.nodes[:n]

	// Attach surplus new elements.
	for i := n; i < len(elements); i++ {
		c.nodes = append(c.nodes, c.attachNew(elements[i]))
	}

	c.elements = append(c.elements[:0], elements...)
	c.rebuildIndex()
	return oldCaps ^ c.caps
}

func (c *Chain) attachNew(e Element) Node {
	node := e.Create()
	b := node.base()
	b.owner = c.owner
	b.attached = true
	b.epoch = 1
	node.OnAttach()
	return node
}

func (c *Chain) detachNode(node Node) {
	node.OnDetach()
	b := node.base()
	b.attached = false
	b.owner = nil
}

// Detach fires OnDetach on every node and empties the chain. Called when the
// owning group is discarded.
func (c *Chain) Detach() {
	for _, node := range c.nodes {
		c.detachNode(node)
	}
	c.nodes = c.nodes[:0]
	c.elements = c.elements[:0]
	c.rebuildIndex()
}

func (c *Chain) rebuildIndex() {
	c.layoutNodes = c.layoutNodes[:0]
	c.drawNodes = c.drawNodes[:0]
	c.pointerNodes = c.pointerNodes[:0]
	c.semanticsNodes = c.semanticsNodes[:0]
	c.focusNodes = c.focusNodes[:0]
	c.caps = 0

	for i, node := range c.nodes {
		caps := c.elements[i].Capabilities()
		c.caps |= caps
		if caps.Has(CapLayout) {
			c.layoutNodes = append(c.layoutNodes, node)
		}
		if caps.Has(CapDraw) {
			c.drawNodes = append(c.drawNodes, node)
		}
		if caps.Has(CapPointerInput) {
			c.pointerNodes = append(c.pointerNodes, node)
		}
		if caps.Has(CapSemantics) {
			c.semanticsNodes = append(c.semanticsNodes, node)
		}
		if caps.Has(CapFocus) {
			c.focusNodes = append(c.focusNodes, node)
		}
	}
}

// Len returns the number of attached nodes.
func (c *Chain) Len() int { return len(c.nodes) }

// Capabilities returns the union of all node capabilities.
func (c *Chain) Capabilities() Capabilities { return c.caps }

// Has reports whether any node advertises the capability.
func (c *Chain) Has(cap Capabilities) bool { return c.caps&cap != 0 }

// NodeAt returns the node at position i.
func (c *Chain) NodeAt(i int) Node { return c.nodes[i] }

// LayoutNodes returns the nodes advertising CapLayout, outermost first.
func (c *Chain) LayoutNodes() []Node { return c.layoutNodes }

// DrawNodes returns the nodes advertising CapDraw, in chain order.
func (c *Chain) DrawNodes() []Node { return c.drawNodes }

// PointerNodes returns the nodes advertising CapPointerInput.
func (c *Chain) PointerNodes() []Node { return c.pointerNodes }

// SemanticsNodes returns the nodes advertising CapSemantics.
func (c *Chain) SemanticsNodes() []Node { return c.semanticsNodes }

// FocusNodes returns the nodes advertising CapFocus.
func (c *Chain) FocusNodes() []Node { return c.focusNodes }
