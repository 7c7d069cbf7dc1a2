package motd

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/ansi"
)

// Wrap re-flows text to at most width visible columns per line. Escape
// sequences are zero-width atomic tokens and are never split; styling that
// is open when a line breaks is re-armed at the start of the continuation
// line. Lines are only ever split, never joined, so wrapping already
// wrapped text changes nothing. A width of zero or less returns text
// unchanged. A single token wider than width is emitted unbroken.
func Wrap(text string, width int) string {
	if width <= 0 || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(text)/8)
	w := wrapState{width: width, out: &b}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		w.line(line)
	}
	return b.String()
}

// wrapState wraps one line at a time. The pending word buffers text together
// with any embedded escape sequences; pending whitespace is dropped when the
// word moves to a new line.
type wrapState struct {
	width  int
	out    *strings.Builder
	col    int
	word   strings.Builder
	spaces strings.Builder
	active styleSet
}

func (w *wrapState) line(s string) {
	w.col = 0
	w.word.Reset()
	w.spaces.Reset()
	w.active = styleSet{}
	for i := 0; i < len(s); {
		if s[i] == 0x1b {
			token := escapeToken(s[i:])
			w.word.WriteString(token)
			i += len(token)
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == ' ' || r == '\t' {
			w.flushWord()
			w.spaces.WriteByte(' ')
		} else {
			w.word.WriteRune(r)
		}
		i += size
	}
	w.flushWord()
	if w.spaces.Len() > 0 {
		w.out.WriteString(w.spaces.String())
		w.spaces.Reset()
	}
}

// flushWord decides whether the pending word still fits on the current line
// and emits it, breaking first when it does not. Break decisions only
// happen here, so escape sequences inside the word stay intact.
func (w *wrapState) flushWord() {
	if w.word.Len() == 0 {
		return
	}
	word := w.word.String()
	wordWidth := ansi.PrintableRuneWidth(word)
	spacesWidth := w.spaces.Len()
	if w.col > 0 && w.col+spacesWidth+wordWidth > w.width {
		w.out.WriteByte('\n')
		if seq := w.active.sequence(); seq != "" {
			w.out.WriteString(seq)
		}
		w.col = 0
	} else if spacesWidth > 0 {
		w.out.WriteString(w.spaces.String())
		w.col += spacesWidth
	}
	w.out.WriteString(word)
	w.col += wordWidth
	w.active.consume(word)
	w.word.Reset()
	w.spaces.Reset()
}

// escapeToken returns the escape sequence starting at s[0]: ESC '[' params
// final-byte, or the lone ESC when no CSI introducer follows. The token is
// returned whole so callers never split it.
func escapeToken(s string) string {
	if len(s) < 2 || s[1] != '[' {
		return s[:1]
	}
	for i := 2; i < len(s); i++ {
		b := s[i]
		if (b >= '0' && b <= '9') || b == ';' {
			continue
		}
		return s[:i+1]
	}
	return s
}

// styleSet tracks which styles are open so a line break can re-arm them on
// the next line.
type styleSet struct {
	bold      bool
	underline bool
	inverse   bool
	fg        int
}

// consume updates the set from every escape sequence in emitted text.
func (ss *styleSet) consume(text string) {
	for i := 0; i < len(text); {
		if text[i] != 0x1b {
			i++
			continue
		}
		token := escapeToken(text[i:])
		ss.apply(token)
		i += len(token)
	}
}

func (ss *styleSet) apply(token string) {
	if len(token) < 3 || token[1] != '[' || token[len(token)-1] != 'm' {
		return
	}
	params := token[2 : len(token)-1]
	if params == "" {
		*ss = styleSet{}
		return
	}
	for _, p := range strings.Split(params, ";") {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			*ss = styleSet{}
		case n == 1:
			ss.bold = true
		case n == 22:
			ss.bold = false
		case n == 4:
			ss.underline = true
		case n == 24:
			ss.underline = false
		case n == 7:
			ss.inverse = true
		case n == 27:
			ss.inverse = false
		case n >= 30 && n <= 37:
			ss.fg = n
		case n == 39:
			ss.fg = 0
		}
	}
}

// sequence composes one escape that restores the set, empty when nothing is
// open. Parameter order matches the badge sequences: bold, color, inverse.
func (ss styleSet) sequence() string {
	if !ss.bold && !ss.underline && !ss.inverse && ss.fg == 0 {
		return ""
	}
	params := make([]string, 0, 4)
	if ss.bold {
		params = append(params, "1")
	}
	if ss.underline {
		params = append(params, "4")
	}
	if ss.fg != 0 {
		params = append(params, strconv.Itoa(ss.fg))
	}
	if ss.inverse {
		params = append(params, "7")
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}
