package motd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/motd/internal/logging"
)

// ErrNoSource is returned when no Markdown source can be located for a feed
// link.
var ErrNoSource = errors.New("no markdown source found")

// websiteMarker is the directory the static site generator publishes into.
// Markdown sources live as siblings of it.
const websiteMarker = "_website"

// sourceExt is the extension of Markdown post sources.
const sourceExt = ".md"

// ChangeExtension swaps the extension of path for ext. A missing leading dot
// on ext is tolerated.
func ChangeExtension(path, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// ResolvePath returns path made absolute, or path unchanged when the working
// directory cannot be determined.
func ResolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// BottomDir returns the name of the last directory in path, using path
// heuristics only. It never touches the filesystem, so it works for paths
// that do not exist yet.
func BottomDir(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(dir)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

// SourceFromLink finds the Markdown source behind a link scraped from the
// published site. The published tree lives under a directory named
// "_website"; sources sit as siblings of it, mirroring the link's directory
// structure. pagePath is the local path of the page the link came from.
//
// Both the link verbatim and the link with its extension swapped for .md are
// tried; the last one that exists wins and must be a regular file.
func SourceFromLink(link, pagePath string) (string, error) {
	log := logging.GetLogger("filetools")

	rel := relativeLinkPath(link)
	page, err := filepath.Abs(pagePath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", pagePath, err)
	}

	root, ok := siteRoot(page)
	if !ok {
		return "", fmt.Errorf("%w: no %s directory above %s", ErrNoSource, websiteMarker, pagePath)
	}

	base := filepath.Join(root, rel)
	found := ""
	for _, candidate := range []string{base, ChangeExtension(base, sourceExt)} {
		if _, err := os.Stat(candidate); err == nil {
			found = candidate
		} else {
			log.Debug().Str("path", candidate).Msg("candidate source not found")
		}
	}

	if found != "" {
		if info, err := os.Stat(found); err == nil && info.Mode().IsRegular() {
			log.Debug().Str("path", found).Msg("found markdown source")
			return found, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNoSource, filepath.Base(base), root)
}

// relativeLinkPath strips empty, "." and ".." components from an HTML link,
// leaving a path relative to the site root.
func relativeLinkPath(link string) string {
	var kept []string
	for _, part := range strings.Split(link, "/") {
		switch part {
		case "", ".", "..":
			continue
		}
		kept = append(kept, part)
	}
	return filepath.Join(kept...)
}

// siteRoot returns the part of abs before the websiteMarker component.
func siteRoot(abs string) (string, bool) {
	parts := strings.Split(abs, string(filepath.Separator))
	for i, part := range parts {
		if part != websiteMarker {
			continue
		}
		root := strings.Join(parts[:i], string(filepath.Separator))
		if root == "" {
			root = string(filepath.Separator)
		}
		return root, true
	}
	return "", false
}
