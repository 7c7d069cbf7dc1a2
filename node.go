package motd

import "strings"

// NodeKind identifies the kind of a document tree node.
type NodeKind uint8

const (
	// KindDocument is the tree root.
	KindDocument NodeKind = iota
	// KindTitle is a heading; Level carries its depth.
	KindTitle
	// KindSubtitle is a document subtitle, rendered without styling.
	KindSubtitle
	// KindParagraph is a block of inline content.
	KindParagraph
	// KindStrong is bold inline content.
	KindStrong
	// KindEmphasis is emphasized inline content.
	KindEmphasis
	// KindLiteral is inline code.
	KindLiteral
	// KindReference is a link; URL carries the target.
	KindReference
	// KindBulletList is an unordered list of KindListItem children.
	KindBulletList
	// KindEnumList is an ordered list of KindListItem children.
	KindEnumList
	// KindListItem is one list entry.
	KindListItem
	// KindSubstitution is an inline |Name| token rendered as a badge.
	KindSubstitution
	// KindDirective is a named block directive such as a post update marker.
	KindDirective
	// KindTransition is a horizontal rule.
	KindTransition
	// KindText is a plain text run.
	KindText
	// KindUnknown is any construct outside the vocabulary; it degrades to
	// its plain text content.
	KindUnknown
)

var nodeKindNames = [...]string{
	KindDocument:     "document",
	KindTitle:        "title",
	KindSubtitle:     "subtitle",
	KindParagraph:    "paragraph",
	KindStrong:       "strong",
	KindEmphasis:     "emphasis",
	KindLiteral:      "literal",
	KindReference:    "reference",
	KindBulletList:   "bullet-list",
	KindEnumList:     "enum-list",
	KindListItem:     "list-item",
	KindSubstitution: "substitution",
	KindDirective:    "directive",
	KindTransition:   "transition",
	KindText:         "text",
	KindUnknown:      "unknown",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "invalid"
}

// Node is one element of a parsed news post. Leaf kinds carry their payload
// in Text; container kinds hold Children. The zero value is an empty text
// node and renders to nothing.
type Node struct {
	Kind     NodeKind
	Text     string  // leaf payload for Text and Literal nodes
	Level    int     // heading depth for Title nodes
	URL      string  // target for Reference nodes
	Name     string  // substitution or directive name; original kind for Unknown
	Args     string  // directive argument text
	Children []*Node
}

// PlainText returns the concatenated text content of the subtree, without
// any styling or markup.
func (n *Node) PlainText() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	n.collectText(&b)
	return b.String()
}

func (n *Node) collectText(b *strings.Builder) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		c.collectText(b)
	}
}

// Title returns the text of the first title in the tree, empty when the
// document has none.
func (n *Node) Title() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindTitle {
		return n.PlainText()
	}
	for _, c := range n.Children {
		if t := c.Title(); t != "" {
			return t
		}
	}
	return ""
}
