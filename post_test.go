package motd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writePost(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}
	return path
}

func TestPostInfoFromMarkdown(t *testing.T) {
	path := writePost(t, "maintenance.md", strings.Join([]string{
		"---",
		"title: Scheduled maintenance",
		"date: 24/03/2021",
		"---",
		"",
		"# Scheduled maintenance",
		"",
		"The cluster goes down on Monday.",
		"",
	}, "\n"))

	info, body, err := PostInfoFromMarkdown(path)
	if err != nil {
		t.Fatalf("read post: %v", err)
	}
	if info.Title != "Scheduled maintenance" {
		t.Fatalf("title = %q", info.Title)
	}
	if info.Date != "24/03/2021" {
		t.Fatalf("date = %q", info.Date)
	}
	if info.Source != path {
		t.Fatalf("source = %q", info.Source)
	}
	if strings.Contains(string(body), "title:") {
		t.Fatalf("front matter leaked into body: %q", body)
	}
	if !strings.Contains(string(body), "# Scheduled maintenance") {
		t.Fatalf("body lost content: %q", body)
	}
}

func TestPostInfoRequiresDate(t *testing.T) {
	path := writePost(t, "undated.md", "---\ntitle: No date here\n---\n\nBody.\n")
	_, _, err := PostInfoFromMarkdown(path)
	if !errors.Is(err, ErrNoDate) {
		t.Fatalf("err = %v", err)
	}

	bare := writePost(t, "bare.md", "# Just markdown\n\nNo front matter at all.\n")
	_, _, err = PostInfoFromMarkdown(bare)
	if !errors.Is(err, ErrNoDate) {
		t.Fatalf("err = %v", err)
	}
}

func TestReadPostSourceToleratesMissingMetadata(t *testing.T) {
	path := writePost(t, "bare.md", "# Just markdown\n\nNo front matter at all.\n")
	body, err := ReadPostSource(path)
	if err != nil {
		t.Fatalf("read post source: %v", err)
	}
	if string(body) != "# Just markdown\n\nNo front matter at all.\n" {
		t.Fatalf("body = %q", body)
	}

	withMatter := writePost(t, "dated.md", "---\ndate: 01/01/2021\n---\nBody only.\n")
	body, err = ReadPostSource(withMatter)
	if err != nil {
		t.Fatalf("read post source: %v", err)
	}
	if strings.Contains(string(body), "01/01/2021") {
		t.Fatalf("front matter leaked: %q", body)
	}
}

func TestPostInfoRejectsBinaryFile(t *testing.T) {
	path := writePost(t, "garbage.md", "text\x00more")
	_, _, err := PostInfoFromMarkdown(path)
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestPostInfoMissingFile(t *testing.T) {
	_, _, err := PostInfoFromMarkdown(filepath.Join(t.TempDir(), "absent.md"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParsePostDate(t *testing.T) {
	date, err := ParsePostDate("24/03/2021")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	want := time.Date(2021, time.March, 24, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Fatalf("date = %v, want %v", date, want)
	}

	if _, err := ParsePostDate(" 01/01/2021 "); err != nil {
		t.Fatalf("trimmed date rejected: %v", err)
	}

	for _, bad := range []string{"", "2021-03-24", "31/02/2021", "24 March 2021"} {
		if _, err := ParsePostDate(bad); !errors.Is(err, ErrDateFormat) {
			t.Fatalf("%q: err = %v", bad, err)
		}
	}
}
