package motd

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"pkt.systems/motd/internal/logging"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// directiveInfo matches MyST-style fence info strings such as
// "{update} 24/03/2021".
var directiveInfo = regexp.MustCompile(`^\{([a-zA-Z][a-zA-Z0-9_-]*)\}[ \t]*(.*)$`)

// substitutionPattern matches inline |Name| badge tokens in text runs.
var substitutionPattern = regexp.MustCompile(`\|([A-Za-z][A-Za-z0-9_-]*)\|`)

// ParseDocument parses a Markdown post body into a document tree. Front
// matter must already be stripped; PostInfoFromMarkdown returns the body in
// that form. Constructs outside the node vocabulary become Unknown nodes
// carrying their plain text.
func ParseDocument(source []byte) (*Node, error) {
	if err := ValidateSource(source); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	root := markdown.Parser().Parse(text.NewReader(source))
	doc := &Node{Kind: KindDocument}
	conv := converter{source: source, log: logging.GetLogger("parse")}
	conv.blocks(doc, root)
	return doc, nil
}

type converter struct {
	source []byte
	log    zerolog.Logger
}

func (c *converter) blocks(parent *Node, n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if node := c.block(child); node != nil {
			parent.Children = append(parent.Children, node)
		}
	}
}

func (c *converter) block(n ast.Node) *Node {
	switch b := n.(type) {
	case *ast.Heading:
		title := &Node{Kind: KindTitle, Level: b.Level}
		c.inlines(title, b)
		return title
	case *ast.Paragraph:
		p := &Node{Kind: KindParagraph}
		c.inlines(p, b)
		return p
	case *ast.TextBlock:
		p := &Node{Kind: KindParagraph}
		c.inlines(p, b)
		return p
	case *ast.List:
		kind := KindBulletList
		if b.IsOrdered() {
			kind = KindEnumList
		}
		list := &Node{Kind: kind}
		c.blocks(list, b)
		return list
	case *ast.ListItem:
		item := &Node{Kind: KindListItem}
		c.blocks(item, b)
		return item
	case *ast.ThematicBreak:
		return &Node{Kind: KindTransition}
	case *ast.FencedCodeBlock:
		return c.fenced(b)
	case *ast.HTMLBlock:
		c.log.Debug().Msg("dropping raw html block")
		return nil
	default:
		u := &Node{Kind: KindUnknown, Name: n.Kind().String()}
		if n.Type() == ast.TypeBlock && n.Lines() != nil && n.Lines().Len() > 0 && !n.HasChildren() {
			u.Text = c.blockLines(n)
			return u
		}
		c.capture(u, n)
		c.log.Debug().Str("node", u.Name).Msg("unmapped node kept as plain text")
		return u
	}
}

// fenced maps MyST-style fenced directives to Directive nodes; any other
// fence stays an opaque text block.
func (c *converter) fenced(b *ast.FencedCodeBlock) *Node {
	info := ""
	if b.Info != nil {
		info = strings.TrimSpace(string(b.Info.Segment.Value(c.source)))
	}
	body := c.blockLines(b)
	m := directiveInfo.FindStringSubmatch(info)
	if m == nil {
		return &Node{Kind: KindUnknown, Name: ast.KindFencedCodeBlock.String(), Text: body}
	}
	dir := &Node{Kind: KindDirective, Name: strings.ToLower(m[1]), Args: strings.TrimSpace(m[2])}
	if strings.TrimSpace(body) != "" {
		inner := []byte(body)
		sub := converter{source: inner, log: c.log}
		sub.blocks(dir, markdown.Parser().Parse(text.NewReader(inner)))
	}
	return dir
}

func (c *converter) blockLines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(c.source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (c *converter) inlines(parent *Node, n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		c.inline(parent, child)
	}
}

func (c *converter) inline(parent *Node, n ast.Node) {
	switch i := n.(type) {
	case *ast.Text:
		c.appendText(parent, string(i.Segment.Value(c.source)))
		if i.HardLineBreak() {
			parent.Children = append(parent.Children, &Node{Kind: KindText, Text: "\n"})
		} else if i.SoftLineBreak() {
			parent.Children = append(parent.Children, &Node{Kind: KindText, Text: " "})
		}
	case *ast.String:
		c.appendText(parent, string(i.Value))
	case *ast.Emphasis:
		kind := KindEmphasis
		if i.Level >= 2 {
			kind = KindStrong
		}
		span := &Node{Kind: kind}
		c.inlines(span, i)
		parent.Children = append(parent.Children, span)
	case *ast.CodeSpan:
		parent.Children = append(parent.Children, &Node{Kind: KindLiteral, Text: c.inlineText(i)})
	case *ast.Link:
		ref := &Node{Kind: KindReference, URL: string(i.Destination)}
		c.inlines(ref, i)
		parent.Children = append(parent.Children, ref)
	case *ast.AutoLink:
		url := string(i.URL(c.source))
		if i.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		ref := &Node{Kind: KindReference, URL: url}
		ref.Children = append(ref.Children, &Node{Kind: KindText, Text: string(i.Label(c.source))})
		parent.Children = append(parent.Children, ref)
	case *ast.Image:
		// Only the alt text can survive in a text file.
		alt := &Node{Kind: KindUnknown, Name: ast.KindImage.String()}
		c.capture(alt, i)
		parent.Children = append(parent.Children, alt)
	case *ast.RawHTML:
		c.log.Debug().Msg("dropping raw html span")
	default:
		u := &Node{Kind: KindUnknown, Name: n.Kind().String()}
		c.capture(u, n)
		parent.Children = append(parent.Children, u)
	}
}

// appendText adds a text run to parent, splitting |Name| substitution tokens
// into their own nodes.
func (c *converter) appendText(parent *Node, value string) {
	if value == "" {
		return
	}
	locs := substitutionPattern.FindAllStringSubmatchIndex(value, -1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			parent.Children = append(parent.Children, &Node{Kind: KindText, Text: value[last:loc[0]]})
		}
		parent.Children = append(parent.Children, &Node{Kind: KindSubstitution, Name: value[loc[2]:loc[3]]})
		last = loc[1]
	}
	if last < len(value) {
		parent.Children = append(parent.Children, &Node{Kind: KindText, Text: value[last:]})
	}
}

// capture flattens an arbitrary subtree into text nodes; block boundaries
// become line breaks. Used for constructs that degrade to plain text.
func (c *converter) capture(parent *Node, n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Type() == ast.TypeBlock && len(parent.Children) > 0 {
			parent.Children = append(parent.Children, &Node{Kind: KindText, Text: "\n"})
		}
		if t, ok := child.(*ast.Text); ok {
			value := string(t.Segment.Value(c.source))
			if value != "" {
				parent.Children = append(parent.Children, &Node{Kind: KindText, Text: value})
			}
			if t.SoftLineBreak() || t.HardLineBreak() {
				parent.Children = append(parent.Children, &Node{Kind: KindText, Text: " "})
			}
			continue
		}
		if s, ok := child.(*ast.String); ok {
			if len(s.Value) > 0 {
				parent.Children = append(parent.Children, &Node{Kind: KindText, Text: string(s.Value)})
			}
			continue
		}
		c.capture(parent, child)
	}
}

// inlineText concatenates the direct text content of an inline container.
func (c *converter) inlineText(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch t := child.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(c.source))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}
