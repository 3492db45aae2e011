package extract_test

import (
	"strings"
	"testing"

	"github.com/classpad/classpad-lms/internal/extract"
)

func TestEligible(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"notes.pdf", true},
		{"notes.PDF", true},
		{"readme.txt", true},
		{"readme.TXT", true},
		{"slides.docx", false},
		{"diagram.png", false},
		{"photo.jpeg", false},
		{"noext", false},
	}
	for _, c := range cases {
		if got := extract.Eligible(c.name); got != c.want {
			t.Errorf("Eligible(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFileTxt(t *testing.T) {
	res := extract.File("classes/c1/a.txt", []byte("Newton's laws of motion"))
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Text != "Newton's laws of motion" {
		t.Fatalf("got %q", res.Text)
	}
}

func TestFileTxtInvalidUTF8(t *testing.T) {
	res := extract.File("a.txt", []byte{0xff, 0xfe, 'h', 'i'})
	if res.Err != nil {
		t.Fatalf("undecodable bytes must not fail: %v", res.Err)
	}
	if !strings.Contains(res.Text, "hi") {
		t.Fatalf("decodable part lost: %q", res.Text)
	}
	if !strings.Contains(res.Text, "�") {
		t.Fatalf("invalid bytes should be substituted: %q", res.Text)
	}
}

func TestFileMalformedPDF(t *testing.T) {
	res := extract.File("b.pdf", []byte("definitely not a pdf"))
	if res.Err == nil {
		t.Fatal("expected an error for a malformed pdf")
	}
	if res.Text != "" {
		t.Fatalf("failed extraction must contribute nothing, got %q", res.Text)
	}
}

func TestFileUnsupportedType(t *testing.T) {
	res := extract.File("c.png", []byte{0x89, 'P', 'N', 'G'})
	if res.Err == nil {
		t.Fatal("expected an error for an unsupported type")
	}
}
