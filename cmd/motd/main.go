package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/motd"
	"pkt.systems/motd/feed"
	"pkt.systems/motd/internal/logging"
	"pkt.systems/version"
)

const (
	defaultWidth    = 80
	defaultLifespan = 72
	outputExt       = ".ansi"
)

func init() {
	version.SetDefaultModule("pkt.systems/motd")
}

func main() {
	var (
		feedPath     string
		postPath     string
		feedURL      string
		outPath      string
		headerPath   string
		footerPath   string
		fallbackPath string
		lifespan     int
		widthFlag    int
		briefing     bool
		markdownBody bool
		verbosity    int
		showVersion  bool
	)

	flags := pflag.NewFlagSet("motd", pflag.ExitOnError)
	flags.StringVarP(&feedPath, "feed", "f", "", "HTML news listing; its newest story becomes the MOTD")
	flags.StringVarP(&postPath, "post", "p", "", "Markdown news post to render directly")
	flags.StringVarP(&feedURL, "feed-url", "u", "", "Public URL of the news listing, used for the footer link")
	flags.StringVarP(&outPath, "output", "o", "", "Output file (default: post source with .ansi)")
	flags.StringVar(&headerPath, "header", "", "Text file prepended to the MOTD")
	flags.StringVar(&footerPath, "footer", "", "Text file appended to the MOTD")
	flags.StringVar(&fallbackPath, "fallback", "", "Text file used when the newest post has expired")
	flags.IntVarP(&lifespan, "lifespan", "l", defaultLifespan, "Hours before a post expires (0 keeps it forever)")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Wrap width (default: terminal width, 0 disables wrapping)")
	flags.BoolVarP(&briefing, "briefing", "b", false, "Stop after the first paragraph of the post")
	flags.BoolVarP(&markdownBody, "markdown", "m", false, "Write the markdown body instead of the ANSI body")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: motd (-f FEED | -p POST) [flags]\n")
		fmt.Fprintln(os.Stderr, "\nGenerates a login MOTD from the newest Markdown news post.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if showVersion {
		fmt.Println(version.Module(), version.Current())
		return
	}

	logging.SetupLogger(verbosity)
	log := logging.GetLogger("motd")

	if (feedPath == "") == (postPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --feed or --post is required")
		flags.Usage()
		os.Exit(2)
	}
	if lifespan < 0 {
		fmt.Fprintln(os.Stderr, "lifespan must be non-negative")
		os.Exit(2)
	}
	if widthFlag < 0 {
		fmt.Fprintln(os.Stderr, "width must be non-negative")
		os.Exit(2)
	}

	width := widthFlag
	if !flags.Changed("width") {
		width = terminalWidth(defaultWidth)
	}

	link := ""
	if feedURL != "" {
		normalized, err := feed.NormalizeURL(feedURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --feed-url: %v\n", err)
			os.Exit(2)
		}
		link = normalized
	}

	var (
		body     []byte
		source   string
		postDate time.Time
	)
	if feedPath != "" {
		story, err := latestStory(normalizePath(feedPath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "read feed: %v\n", err)
			os.Exit(1)
		}
		source, err = motd.SourceFromLink(story.Link, normalizePath(feedPath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "locate post: %v\n", err)
			os.Exit(1)
		}
		body, err = motd.ReadPostSource(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read post: %v\n", err)
			os.Exit(1)
		}
		postDate, err = motd.ParsePostDate(story.Date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse post date: %v\n", err)
			os.Exit(1)
		}
		if link != "" {
			if resolved := resolveStoryLink(link, story.Link); resolved != "" {
				link = resolved
			}
		}
		log.Info().Str("source", source).Str("date", story.Date).Str("title", story.Title).Msg("rendering newest story")
	} else {
		source = normalizePath(postPath)
		info, postBody, err := motd.PostInfoFromMarkdown(source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read post: %v\n", err)
			os.Exit(1)
		}
		body = postBody
		postDate, err = motd.ParsePostDate(info.Date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse post date: %v\n", err)
			os.Exit(1)
		}
		log.Info().Str("source", source).Str("date", info.Date).Str("title", info.Title).Msg("rendering post")
	}

	doc, err := motd.ParseDocument(body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse post: %v\n", err)
		os.Exit(1)
	}
	rendered := motd.Render(doc, motd.WithBriefing(briefing))
	bodyText := rendered.ANSI
	if markdownBody {
		bodyText = rendered.Markdown
	}

	header, err := readTextFile(headerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read header: %v\n", err)
		os.Exit(1)
	}
	footer, err := readTextFile(footerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read footer: %v\n", err)
		os.Exit(1)
	}
	fallback, err := readTextFile(fallbackPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read fallback: %v\n", err)
		os.Exit(1)
	}

	text, err := motd.Assemble(motd.AssembleRequest{
		Body:     bodyText,
		PostDate: postDate,
		Now:      time.Now(),
		Lifespan: time.Duration(lifespan) * time.Hour,
		Fallback: fallback,
		Header:   header,
		Footer:   footer,
		Link:     link,
		Width:    width,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "assemble motd: %v\n", err)
		os.Exit(1)
	}

	out, err := outputPath(outPath, source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write motd: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("path", out).Int("width", width).Msg("wrote motd")
}

func latestStory(path string) (feed.Story, error) {
	f, err := os.Open(path)
	if err != nil {
		return feed.Story{}, err
	}
	defer func() { _ = f.Close() }()
	return feed.Latest(f)
}

// outputPath picks the destination file, defaulting to the post source with
// its extension swapped. The post source itself is never a valid destination.
func outputPath(out, source string) (string, error) {
	if strings.TrimSpace(out) == "" {
		out = motd.ChangeExtension(source, outputExt)
	}
	out = normalizePath(out)
	if out == normalizePath(source) {
		return "", fmt.Errorf("refusing to overwrite post source %q; use -o/--output", source)
	}
	return out, nil
}

// resolveStoryLink makes a story link absolute against the public feed URL.
func resolveStoryLink(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}

func readTextFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	data, err := os.ReadFile(normalizePath(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconvAtoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func strconvAtoi(value string) (int, error) {
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}
