package motd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pkt.systems/motd/internal/logging"
)

// RenderedText holds the two bodies produced by one tree walk: the ANSI body
// written to terminals and the Markdown body kept as the portable form of
// the same content. Both carry the same text runs in the same order; they
// differ only in styling annotations.
type RenderedText struct {
	ANSI     string
	Markdown string
}

// updateDirective marks a post amendment; its argument is the update date.
const updateDirective = "update"

// Substitution names with a badge rendering.
const (
	badgeWarning = "Warning"
	badgeInfo    = "Info"
)

// Render walks doc once and emits the ANSI and Markdown bodies side by side.
// Malformed nodes degrade to their plain text and are logged; they never
// fail the render. A nil or empty tree yields empty bodies.
func Render(doc *Node, opts ...RenderOption) RenderedText {
	var cfg renderConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if doc == nil {
		return RenderedText{}
	}
	st := &renderState{log: logging.GetLogger("render")}
	if cfg.briefing {
		st.limit = firstStoryParagraph(doc)
		if st.limit == nil {
			st.log.Warn().Msg("briefing requested but post has no paragraph, rendering everything")
		}
	}
	if doc.Kind == KindDocument {
		st.blocks(doc.Children)
	} else {
		st.block(doc)
	}
	return RenderedText{ANSI: st.ansi.String(), Markdown: st.md.String()}
}

// firstStoryParagraph finds the paragraph a briefing stops after: the first
// paragraph at the top level of the post. Paragraphs inside directives or
// lists do not count; update markers before it still render in full.
func firstStoryParagraph(doc *Node) *Node {
	for _, child := range doc.Children {
		if child.Kind == KindParagraph {
			return child
		}
	}
	return nil
}

type listScope struct {
	ordered bool
	index   int
}

// renderState accumulates both bodies during a walk. sep holds the block
// separator owed by the previously emitted block.
type renderState struct {
	ansi  strings.Builder
	md    strings.Builder
	lists []listScope
	sep   string
	limit *Node
	done  bool
	log   zerolog.Logger
}

// both writes a text run shared by the two bodies.
func (st *renderState) both(text string) {
	st.ansi.WriteString(text)
	st.md.WriteString(text)
}

// styled writes one style intent into both bodies, each in its own encoding.
func (st *renderState) styled(intent StyleIntent) {
	run := intent.Encode()
	st.ansi.WriteString(run.ANSI)
	st.md.WriteString(run.Markdown)
}

// ansiStyle writes a style intent into the ANSI body only; used where the
// Markdown body expresses the same intent with block punctuation instead.
func (st *renderState) ansiStyle(intent StyleIntent) {
	st.ansi.WriteString(intent.Encode().ANSI)
}

// openBlock pays the separator owed by the previous block.
func (st *renderState) openBlock() {
	if st.sep != "" {
		st.both(st.sep)
		st.sep = ""
	}
}

func (st *renderState) blocks(nodes []*Node) {
	for _, n := range nodes {
		st.block(n)
		if st.done {
			return
		}
	}
}

func (st *renderState) block(n *Node) {
	if n == nil || st.done {
		return
	}
	switch n.Kind {
	case KindDocument:
		st.blocks(n.Children)
	case KindTitle, KindSubtitle:
		st.openBlock()
		st.heading(n)
		st.sep = "\n"
	case KindParagraph:
		st.openBlock()
		st.content(n)
		st.sep = "\n\n"
		if n == st.limit {
			st.done = true
		}
	case KindBulletList, KindEnumList:
		st.openBlock()
		st.list(n)
		st.sep = "\n\n"
	case KindDirective:
		st.directive(n)
	case KindTransition:
		st.openBlock()
		st.both("---")
		st.sep = "\n\n"
	case KindUnknown:
		st.unknown(n)
	default:
		// Inline content loose at block level renders as its own paragraph.
		st.openBlock()
		st.inline(n)
		st.sep = "\n\n"
	}
}

// heading writes the markdown hash prefix and, for titles, the bold pair
// around the ANSI text. Subtitles carry no styling and a fixed depth.
func (st *renderState) heading(n *Node) {
	level := n.Level
	if n.Kind == KindSubtitle {
		level = 2
	}
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	st.md.WriteString(strings.Repeat("#", level))
	st.md.WriteByte(' ')
	if n.Kind != KindTitle {
		st.content(n)
		return
	}
	st.ansiStyle(StyleBoldOn)
	st.content(n)
	st.ansiStyle(StyleBoldOff)
}

func (st *renderState) list(n *Node) {
	st.lists = append(st.lists, listScope{ordered: n.Kind == KindEnumList, index: 1})
	for i, item := range n.Children {
		if i > 0 {
			st.both("\n")
		}
		st.listItem(item)
	}
	st.lists = st.lists[:len(st.lists)-1]
}

func (st *renderState) listItem(n *Node) {
	scope := &st.lists[len(st.lists)-1]
	indent := strings.Repeat("  ", len(st.lists)-1)
	marker := "- "
	if scope.ordered {
		marker = fmt.Sprintf("%d. ", scope.index)
		scope.index++
	}
	st.both(indent)
	st.both(marker)
	if n.Text != "" {
		st.both(n.Text)
	}
	paragraphs := 0
	for _, child := range n.Children {
		switch child.Kind {
		case KindBulletList, KindEnumList:
			st.both("\n")
			st.list(child)
		case KindParagraph:
			if paragraphs > 0 {
				st.both("\n" + indent + "  ")
			}
			st.content(child)
			paragraphs++
		default:
			st.inline(child)
		}
	}
}

// directive renders a recognized directive as a bold prefix line followed by
// its body. Unrecognized names degrade to the bare body.
func (st *renderState) directive(n *Node) {
	if !strings.EqualFold(n.Name, updateDirective) {
		st.log.Warn().Str("directive", n.Name).Msg("unrecognized directive, rendering body without prefix")
		st.blocks(n.Children)
		return
	}
	st.openBlock()
	label := "Update"
	if args := strings.TrimSpace(n.Args); args != "" {
		label += " " + args
	}
	st.styled(StyleBoldOn)
	st.both(label)
	st.styled(StyleBoldOff)
	st.sep = "\n"
	st.blocks(n.Children)
}

func (st *renderState) unknown(n *Node) {
	text := strings.TrimRight(n.PlainText(), "\n")
	if text == "" {
		st.log.Debug().Str("node", n.Name).Msg("skipping unknown node without text")
		return
	}
	st.log.Debug().Str("node", n.Name).Msg("unknown node rendered as plain text")
	st.openBlock()
	st.both(text)
	st.sep = "\n\n"
}

// content emits the inline payload of a container: its leaf text, if any,
// then its children.
func (st *renderState) content(n *Node) {
	if n.Text != "" {
		st.both(n.Text)
	}
	for _, c := range n.Children {
		st.inline(c)
	}
}

func (st *renderState) inline(n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindText:
		st.both(n.Text)
	case KindStrong:
		st.span(StyleBoldOn, StyleBoldOff, n)
	case KindEmphasis:
		st.span(StyleUnderlineOn, StyleUnderlineOff, n)
	case KindLiteral:
		st.span(StyleInverseOn, StyleInverseOff, n)
	case KindReference:
		st.reference(n)
	case KindSubstitution:
		st.substitution(n)
	case KindUnknown:
		st.both(n.PlainText())
	default:
		st.log.Debug().Stringer("kind", n.Kind).Msg("unexpected inline rendered as plain text")
		st.both(n.PlainText())
	}
}

// span wraps the node content in one on/off style pair.
func (st *renderState) span(on, off StyleIntent, n *Node) {
	st.styled(on)
	st.content(n)
	st.styled(off)
}

// reference renders a link as `text (url)` in the ANSI body and `[text](url)`
// in the Markdown body. Autolinks and references without a target degrade to
// their text.
func (st *renderState) reference(n *Node) {
	text := n.PlainText()
	if n.URL == "" {
		st.log.Debug().Str("text", text).Msg("reference without target rendered as plain text")
		st.content(n)
		return
	}
	if text == "" {
		st.both(n.URL)
		return
	}
	if text == n.URL {
		st.content(n)
		return
	}
	st.md.WriteByte('[')
	st.content(n)
	st.md.WriteString("](")
	st.md.WriteString(n.URL)
	st.md.WriteByte(')')
	st.ansi.WriteString(" (")
	st.ansi.WriteString(n.URL)
	st.ansi.WriteByte(')')
}

// substitution renders |Warning| and |Info| tokens as padded badges in the
// ANSI body; the Markdown body keeps the padded label.
func (st *renderState) substitution(n *Node) {
	label := " " + n.Name + " "
	switch n.Name {
	case badgeWarning:
		st.badge(StyleBadgeRed, label)
	case badgeInfo:
		st.badge(StyleBadgeGreen, label)
	default:
		st.log.Debug().Str("substitution", n.Name).Msg("substitution without badge rendered as plain label")
		st.both(label)
	}
}

func (st *renderState) badge(open StyleIntent, label string) {
	st.ansiStyle(open)
	st.both(label)
	st.ansiStyle(StyleReset)
}
