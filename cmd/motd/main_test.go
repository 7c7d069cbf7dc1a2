package main

import (
	"path/filepath"
	"testing"

	"pkt.systems/motd/feed"
)

func TestResolveStoryLink(t *testing.T) {
	listing, err := feed.NormalizeURL("http://www.hpc.example.org")
	if err != nil {
		t.Fatalf("normalize feed url: %v", err)
	}
	cases := []struct {
		base string
		ref  string
		want string
	}{
		{listing, "../../news/2021/outage/", "http://www.hpc.example.org/news/2021/outage/"},
		{"https://hpc.example.org/aktuelles/news/index.html", "../../news/2021/outage/", "https://hpc.example.org/news/2021/outage/"},
		{"https://hpc.example.org/aktuelles/news/index.html", "story/", "https://hpc.example.org/aktuelles/news/story/"},
		{listing, "https://status.example.org/now/", "https://status.example.org/now/"},
	}
	for _, tc := range cases {
		if got := resolveStoryLink(tc.base, tc.ref); got != tc.want {
			t.Fatalf("resolveStoryLink(%q, %q)=%q want %q", tc.base, tc.ref, got, tc.want)
		}
	}
	if got := resolveStoryLink(listing, ":"); got != "" {
		t.Fatalf("expected empty result for unparsable link, got %q", got)
	}
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "outage.md")

	got, err := outputPath("", source)
	if err != nil {
		t.Fatalf("default output: %v", err)
	}
	if want := filepath.Join(dir, "outage.ansi"); got != want {
		t.Fatalf("default output=%q want %q", got, want)
	}

	explicit := filepath.Join(dir, "motd.txt")
	got, err = outputPath(explicit, source)
	if err != nil {
		t.Fatalf("explicit output: %v", err)
	}
	if got != explicit {
		t.Fatalf("explicit output=%q want %q", got, explicit)
	}
}

func TestOutputPathRefusesSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "outage.md")
	if _, err := outputPath(source, source); err == nil {
		t.Fatalf("expected error for output equal to post source")
	}
	if _, err := outputPath("", filepath.Join(dir, "login.ansi")); err == nil {
		t.Fatalf("expected error when default output equals source")
	}
}
