package domain

// NavItem is a node of the application menu. Items marked AdminOnly are
// visible to administrators only.
type NavItem struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon,omitempty"`
	AdminOnly bool      `json:"admin_only,omitempty"`
	Items     []NavItem `json:"items,omitempty"`
}

// IsLeaf reports whether the item was declared without children.
func (n NavItem) IsLeaf() bool {
	return n.Items == nil
}
