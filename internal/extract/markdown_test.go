package extract

import (
	"context"
	"strings"
	"testing"
)

func TestMarkdownExtractor(t *testing.T) {
	src := "# Урок первый\n\nЭто *новое* слово: [словарь](https://example.com).\n"
	path := writeFile(t, "lesson.md", []byte(src))

	fragments, err := MarkdownExtractor{}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("fragments = %d, want 1", len(fragments))
	}

	text := fragments[0].Text
	for _, want := range []string{"Урок", "новое", "словарь"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q missing %q", text, want)
		}
	}
	if strings.Contains(text, "example.com") {
		t.Errorf("text should not contain the link target: %q", text)
	}
}

func TestMarkdownExtractor_SkipsCode(t *testing.T) {
	src := "слово до\n\n```\nпеременная внутри\n```\n\nи `встроенный код` после\n"
	path := writeFile(t, "code.md", []byte(src))

	fragments, err := MarkdownExtractor{}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	text := fragments[0].Text
	if strings.Contains(text, "переменная") || strings.Contains(text, "встроенный") {
		t.Errorf("code content leaked into text: %q", text)
	}
	if !strings.Contains(text, "слово") || !strings.Contains(text, "после") {
		t.Errorf("prose missing from text: %q", text)
	}
}

func TestMarkdownExtractor_Empty(t *testing.T) {
	path := writeFile(t, "empty.md", []byte("\n\n"))

	fragments, err := MarkdownExtractor{}.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(fragments) != 0 {
		t.Errorf("fragments = %d, want 0", len(fragments))
	}
}
