// Package feed parses the HTML news listing published by the website
// generator and picks out the newest story.
package feed

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"pkt.systems/motd/internal/logging"
)

var (
	// ErrMalformedFeed reports a news listing the scraper cannot navigate.
	ErrMalformedFeed = errors.New("malformed news feed")
	// ErrBadURL reports a feed URL without scheme or host.
	ErrBadURL = errors.New("malformed feed url")
)

// Story is one entry in the published news listing. Link is relative to the
// site root and Date is the DD/MM/YYYY label shown next to the story.
type Story struct {
	Title string
	Link  string
	Date  string
}

// Latest scrapes the newest story from an HTML news listing. The listing
// shows stories newest first, each with an h2 heading whose anchor carries
// title and link. The post date follows an <i> icon in the first list item
// beside the heading.
func Latest(r io.Reader) (Story, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Story{}, fmt.Errorf("parse news feed: %w", err)
	}

	heading := findElement(doc, "h2")
	if heading == nil {
		return Story{}, fmt.Errorf("%w: no story heading", ErrMalformedFeed)
	}
	anchor := findElement(heading, "a")
	if anchor == nil {
		return Story{}, fmt.Errorf("%w: story heading has no link", ErrMalformedFeed)
	}

	story := Story{
		Title: strings.TrimSpace(nodeText(anchor)),
		Link:  attrValue(anchor, "href"),
		Date:  storyDate(heading),
	}
	if story.Link == "" {
		return Story{}, fmt.Errorf("%w: story link has no href", ErrMalformedFeed)
	}
	if story.Date == "" {
		return Story{}, fmt.Errorf("%w: no date beside story heading", ErrMalformedFeed)
	}

	log := logging.GetLogger("feed")
	log.Info().
		Str("date", story.Date).
		Str("title", story.Title).
		Msg("found newest story")
	return story, nil
}

// NormalizeURL validates a feed URL and fills in an empty path with "/".
func NormalizeURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q misses protocol or domain", ErrBadURL, raw)
	}
	if parsed.Path == "" {
		parsed.Path = "/"
		parsed.RawQuery = ""
		parsed.Fragment = ""
	}
	return parsed.String(), nil
}

// storyDate walks from the story heading to the date label: the first list
// item under the heading's parent holds an icon element directly followed by
// the date text.
func storyDate(heading *html.Node) string {
	if heading.Parent == nil {
		return ""
	}
	item := findElement(heading.Parent, "li")
	if item == nil {
		return ""
	}
	icon := findElement(item, "i")
	if icon == nil || icon.NextSibling == nil || icon.NextSibling.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(icon.NextSibling.Data)
}

// findElement returns the first descendant element of n named name, in
// document order.
func findElement(n *html.Node, name string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == name {
			return child
		}
		if found := findElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
