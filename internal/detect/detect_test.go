package detect

import (
	"testing"

	"github.com/Revicx/russian-anki/internal/errors"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"notes.txt", KindText},
		{"README.md", KindMarkdown},
		{"lesson.docx", KindDocx},
		{"book.pdf", KindPDFText},
		{"scan.PNG", KindImage},
		{"photo.JPG", KindImage},
		{"photo.jpeg", KindImage},
		{"/abs/path/to/Лекция.TXT", KindText},
	}

	for _, tc := range cases {
		got, err := Classify(tc.path)
		if err != nil {
			t.Errorf("Classify(%q) failed: %v", tc.path, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestClassify_Unsupported(t *testing.T) {
	for _, path := range []string{"data.xlsx", "archive.zip", "noext", "video.mp4"} {
		_, err := Classify(path)
		if err == nil {
			t.Errorf("Classify(%q) should fail", path)
			continue
		}
		if !errors.Is(err, errors.ErrUnsupportedFormat) {
			t.Errorf("Classify(%q) error code = %v, want UNSUPPORTED_FORMAT", path, err)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("a.pdf") {
		t.Error("Supported(a.pdf) = false, want true")
	}
	if Supported("a.exe") {
		t.Error("Supported(a.exe) = true, want false")
	}
}
