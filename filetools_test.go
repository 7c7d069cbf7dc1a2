package motd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBottomDir(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/root/ablog/index.html", "ablog"},
		{"/root/ablog/", "ablog"},
		{"/root/ablog", "root"},
		{"/", ""},
		{"index.html", ""},
	}
	for _, tc := range cases {
		if got := BottomDir(tc.path); got != tc.want {
			t.Fatalf("BottomDir(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestChangeExtension(t *testing.T) {
	cases := []struct {
		path string
		ext  string
		want string
	}{
		{"news/2021/test.html", ".md", "news/2021/test.md"},
		{"post.md", "ansi", "post.ansi"},
		{"noext", "md", "noext.md"},
		{"/abs/dir/file.rst", ".ansi", "/abs/dir/file.ansi"},
		{"file.tar.gz", ".txt", "file.tar.txt"},
	}
	for _, tc := range cases {
		if got := ChangeExtension(tc.path, tc.ext); got != tc.want {
			t.Fatalf("ChangeExtension(%q, %q) = %q, want %q", tc.path, tc.ext, got, tc.want)
		}
	}
}

func TestResolvePath(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if got := ResolvePath("some/file.md"); got != filepath.Join(cwd, "some", "file.md") {
		t.Fatalf("ResolvePath = %q", got)
	}
	if got := ResolvePath("/already/abs"); got != "/already/abs" {
		t.Fatalf("ResolvePath = %q", got)
	}
}

func TestSourceFromLink(t *testing.T) {
	root := t.TempDir()
	postDir := filepath.Join(root, "news", "2021")
	if err := os.MkdirAll(postDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	post := filepath.Join(postDir, "outage.md")
	if err := os.WriteFile(post, []byte("# Outage\n"), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}

	page := filepath.Join(root, "_website", "news", "index.html")
	got, err := SourceFromLink("../../news/2021/outage/", page)
	if err != nil {
		t.Fatalf("source from link: %v", err)
	}
	if got != post {
		t.Fatalf("source = %q, want %q", got, post)
	}
}

func TestSourceFromLinkExactMatch(t *testing.T) {
	root := t.TempDir()
	post := filepath.Join(root, "docs", "readme.txt")
	if err := os.MkdirAll(filepath.Dir(post), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(post, []byte("text\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	page := filepath.Join(root, "_website", "index.html")
	got, err := SourceFromLink("docs/readme.txt", page)
	if err != nil {
		t.Fatalf("source from link: %v", err)
	}
	if got != post {
		t.Fatalf("source = %q, want %q", got, post)
	}
}

func TestSourceFromLinkPrefersMarkdownCandidate(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "news")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	plain := filepath.Join(dir, "story")
	markdown := filepath.Join(dir, "story.md")
	for _, path := range []string{plain, markdown} {
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	page := filepath.Join(root, "_website", "news.html")
	got, err := SourceFromLink("news/story", page)
	if err != nil {
		t.Fatalf("source from link: %v", err)
	}
	if got != markdown {
		t.Fatalf("source = %q, want %q", got, markdown)
	}
}

func TestSourceFromLinkRequiresWebsiteMarker(t *testing.T) {
	_, err := SourceFromLink("news/story", filepath.Join(t.TempDir(), "plain", "index.html"))
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("err = %v", err)
	}
}

func TestSourceFromLinkMissingFile(t *testing.T) {
	page := filepath.Join(t.TempDir(), "_website", "index.html")
	_, err := SourceFromLink("news/absent", page)
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("err = %v", err)
	}
}

func TestSourceFromLinkRejectsDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "news", "story"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := filepath.Join(root, "_website", "index.html")
	_, err := SourceFromLink("news/story", page)
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("err = %v", err)
	}
}
