package motd

import "fmt"

// StyleIntent names one styling operation of the rendering vocabulary.
type StyleIntent uint8

const (
	// StyleBoldOn begins bold text.
	StyleBoldOn StyleIntent = iota
	// StyleBoldOff ends bold text.
	StyleBoldOff
	// StyleUnderlineOn begins underlined text.
	StyleUnderlineOn
	// StyleUnderlineOff ends underlined text.
	StyleUnderlineOff
	// StyleInverseOn begins inverse video.
	StyleInverseOn
	// StyleInverseOff ends inverse video.
	StyleInverseOff
	// StyleBadgeRed opens a red warning badge.
	StyleBadgeRed
	// StyleBadgeGreen opens a green info badge.
	StyleBadgeGreen
	// StyleReset closes a badge and clears all attributes.
	StyleReset
)

// StyleRun carries both encodings of one style intent: the escape sequence
// written to the ANSI body and the punctuation written to the Markdown body.
// Intents without a Markdown equivalent leave it empty.
type StyleRun struct {
	ANSI     string
	Markdown string
}

// The escape sequences are fixed byte for byte. MOTD files are read back by
// whatever terminal the user logs in from, so nothing here adapts to the
// terminal this program runs on.
var styleRuns = [...]StyleRun{
	StyleBoldOn:       {ANSI: "\x1b[1m", Markdown: "**"},
	StyleBoldOff:      {ANSI: "\x1b[22m", Markdown: "**"},
	StyleUnderlineOn:  {ANSI: "\x1b[4m", Markdown: "_"},
	StyleUnderlineOff: {ANSI: "\x1b[24m", Markdown: "_"},
	StyleInverseOn:    {ANSI: "\x1b[7m", Markdown: "`"},
	StyleInverseOff:   {ANSI: "\x1b[27m", Markdown: "`"},
	StyleBadgeRed:     {ANSI: "\x1b[1;31;7m"},
	StyleBadgeGreen:   {ANSI: "\x1b[1;32;7m"},
	StyleReset:        {ANSI: "\x1b[0;27m"},
}

var styleIntentNames = [...]string{
	StyleBoldOn:       "bold-on",
	StyleBoldOff:      "bold-off",
	StyleUnderlineOn:  "underline-on",
	StyleUnderlineOff: "underline-off",
	StyleInverseOn:    "inverse-on",
	StyleInverseOff:   "inverse-off",
	StyleBadgeRed:     "badge-red",
	StyleBadgeGreen:   "badge-green",
	StyleReset:        "reset",
}

func (i StyleIntent) String() string {
	if int(i) < len(styleIntentNames) {
		return styleIntentNames[i]
	}
	return fmt.Sprintf("intent(%d)", i)
}

// Encode returns both encodings of the intent. An intent outside the table
// is a programming error and panics.
func (i StyleIntent) Encode() StyleRun {
	if int(i) >= len(styleRuns) {
		panic(fmt.Sprintf("motd: unknown style intent %d", i))
	}
	return styleRuns[i]
}
