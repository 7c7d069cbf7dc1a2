package motd

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/muesli/reflow/ansi"

	"pkt.systems/motd/internal/logging"
)

// ErrInvalidConfig reports an assembly configuration that can never produce
// a valid MOTD.
var ErrInvalidConfig = errors.New("invalid motd configuration")

// motdIndent prefixes every non-blank line of the final artifact.
const motdIndent = "  "

// linkLead introduces the footer link block.
const linkLead = "More information in"

var urlPattern = regexp.MustCompile(`https?://\S+`)

// AssembleRequest carries everything Assemble needs to compose the final
// MOTD text. Now is injected so the freshness decision runs on the caller's
// clock.
type AssembleRequest struct {
	Body     string        // rendered ANSI body of the post
	PostDate time.Time     // publication date of the post
	Now      time.Time     // decision clock
	Lifespan time.Duration // freshness window; zero keeps posts fresh forever
	Fallback string        // used verbatim when the post has gone stale
	Header   string        // optional text prepended to the body
	Footer   string        // optional text appended after the link block
	Link     string        // optional URL to the post's web page
	Width    int           // wrap width; zero disables wrapping
}

// Assemble composes the MOTD for req. A fresh post is framed with the
// header, link block and footer, wrapped to Width, and indented two spaces;
// a stale post yields the fallback verbatim. The post is fresh while its age
// is strictly below the lifespan.
func Assemble(req AssembleRequest) (string, error) {
	if req.Width < 0 {
		return "", fmt.Errorf("%w: negative wrap width %d", ErrInvalidConfig, req.Width)
	}
	if req.Lifespan < 0 {
		return "", fmt.Errorf("%w: negative lifespan %s", ErrInvalidConfig, req.Lifespan)
	}
	log := logging.GetLogger("assemble")
	age := req.Now.Sub(req.PostDate)
	if req.Lifespan > 0 && age >= req.Lifespan {
		log.Info().Dur("age", age).Dur("lifespan", req.Lifespan).Msg("post is stale, using fallback")
		return req.Fallback, nil
	}
	log.Debug().Dur("age", age).Msg("post is fresh")

	var b strings.Builder
	part := func(text string) {
		if text == "" {
			return
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteByte('\n')
		}
	}
	part(req.Header)
	part(req.Body)
	if req.Link != "" {
		part("\n" + linkLead + "\n" + req.Link)
	}
	part(req.Footer)
	text := b.String()

	if req.Width > 0 {
		for _, url := range urlPattern.FindAllString(text, -1) {
			if w := ansi.PrintableRuneWidth(url); w > req.Width {
				log.Warn().Str("url", url).Int("length", w).Msg("url longer than wrap width")
			}
		}
		text = Wrap(text, req.Width)
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = motdIndent + line
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}
