package motd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"pkt.systems/motd/internal/logging"
)

var (
	// ErrNoDate is returned when a post carries no date in its front matter.
	ErrNoDate = errors.New("post has no date")
	// ErrDateFormat is returned when a post date is not DD/MM/YYYY.
	ErrDateFormat = errors.New("malformed post date")
)

// postDateLayout is the DD/MM/YYYY date format used in post front matter and
// in the news feed listing.
const postDateLayout = "02/01/2006"

// PostInfo identifies a news post. Date holds the raw front matter value;
// ParsePostDate converts it to a time.
type PostInfo struct {
	Title  string
	Date   string
	Source string
}

type postMatter struct {
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

// PostInfoFromMarkdown reads a Markdown post from path and splits it into
// its front matter fields and the post body. A post without a date cannot be
// aged against a lifespan, so a missing date field is an error.
func PostInfoFromMarkdown(path string) (PostInfo, []byte, error) {
	matter, body, err := readPost(path)
	if err != nil {
		return PostInfo{}, nil, err
	}
	if strings.TrimSpace(matter.Date) == "" {
		return PostInfo{}, nil, fmt.Errorf("%w: %s", ErrNoDate, path)
	}
	info := PostInfo{
		Title:  strings.TrimSpace(matter.Title),
		Date:   strings.TrimSpace(matter.Date),
		Source: path,
	}
	log := logging.GetLogger("post")
	log.Debug().
		Str("path", path).
		Str("title", info.Title).
		Str("date", info.Date).
		Msg("read post")
	return info, body, nil
}

// ReadPostSource reads a Markdown post and strips its front matter without
// requiring any metadata fields. Used when the post identity comes from
// elsewhere, such as the news feed listing.
func ReadPostSource(path string) ([]byte, error) {
	_, body, err := readPost(path)
	return body, err
}

func readPost(path string) (postMatter, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return postMatter{}, nil, fmt.Errorf("read post: %w", err)
	}
	if err := ValidateSource(raw); err != nil {
		return postMatter{}, nil, fmt.Errorf("read post %s: %w", path, err)
	}
	var matter postMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &matter)
	if err != nil {
		return postMatter{}, nil, fmt.Errorf("parse front matter of %s: %w", path, err)
	}
	return matter, body, nil
}

// ParsePostDate parses a DD/MM/YYYY post date.
func ParsePostDate(value string) (time.Time, error) {
	date, err := time.Parse(postDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, value)
	}
	return date, nil
}
