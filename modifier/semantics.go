package modifier

// Role categorizes an element for accessibility and testing snapshots.
type Role uint8

const (
	RoleNone Role = iota
	RoleButton
	RoleCheckbox
	RoleText
	RoleTextField
	RoleList
)

func (r Role) String() string {
	switch r {
	case RoleButton:
		return "button"
	case RoleCheckbox:
		return "checkbox"
	case RoleText:
		return "text"
	case RoleTextField:
		return "textfield"
	case RoleList:
		return "list"
	}
	return "none"
}

// SemanticsConfiguration accumulates the semantic properties of one element.
// Semantics nodes merge into it during the snapshot build; later nodes in
// the chain do not override properties already set by earlier ones.
type SemanticsConfiguration struct {
	Role         Role
	Text         string
	TestTag      string
	OnClickLabel string
	Disabled     bool
	Focusable    bool

	roleSet bool
	textSet bool
}

// SetRole records the role unless one was already merged.
func (c *SemanticsConfiguration) SetRole(r Role) {
	if !c.roleSet {
		c.Role = r
		c.roleSet = true
	}
}

// SetText records the textual content unless already merged.
func (c *SemanticsConfiguration) SetText(s string) {
	if !c.textSet {
		c.Text = s
		c.textSet = true
	}
}

// TestTagElement attaches a stable identifier to the semantics snapshot,
// for tests and tooling that look elements up by name.
type TestTagElement struct {
	Tag string
}

func (e TestTagElement) Capabilities() Capabilities { return CapSemantics }

func (e TestTagElement) Create() Node { return &testTagNode{tag: e.Tag} }

func (e TestTagElement) Update(n Node) {
	tn := n.(*testTagNode)
	if tn.tag != e.Tag {
		tn.tag = e.Tag
		tn.InvalidateSemantics()
	}
}

func (e TestTagElement) AlwaysUpdate() bool { return false }

type testTagNode struct {
	NodeBase
	tag string
}

func (n *testTagNode) ApplySemantics(cfg *SemanticsConfiguration) {
	if cfg.TestTag == "" {
		cfg.TestTag = n.tag
	}
}

// Merge folds other into c, keeping c's already-set properties.
func (c *SemanticsConfiguration) Merge(other *SemanticsConfiguration) {
	if other.roleSet {
		c.SetRole(other.Role)
	}
	if other.textSet {
		c.SetText(other.Text)
	}
	if c.TestTag == "" {
		c.TestTag = other.TestTag
	}
	if c.OnClickLabel == "" {
		c.OnClickLabel = other.OnClickLabel
	}
	c.Disabled = c.Disabled || other.Disabled
	c.Focusable = c.Focusable || other.Focusable
}
