// Package extract converts stored class materials into plain text for the
// quiz corpus. A file that cannot be opened or parsed yields an error Result;
// callers fold Results and drop the failures, so one bad file never aborts a
// corpus build.
package extract

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the outcome of extracting one file.
type Result struct {
	Key  string
	Text string
	Err  error
}

// Eligible reports whether a file of this name can contribute to a corpus.
// Other upload types (docx, images) are stored but never extracted.
func Eligible(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}

// File extracts plain text from a single stored file, dispatching on the
// filename extension.
func File(key string, data []byte) Result {
	switch strings.ToLower(path.Ext(key)) {
	case ".pdf":
		text, err := pdfText(data)
		return Result{Key: key, Text: text, Err: err}
	case ".txt":
		// Decode as UTF-8, substituting undecodable sequences.
		return Result{Key: key, Text: strings.ToValidUTF8(string(data), "�")}
	default:
		return Result{Key: key, Err: fmt.Errorf("unsupported file type: %s", key)}
	}
}

func pdfText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= rd.NumPage(); i++ {
		p := rd.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil || s == "" {
			continue // a page with no extractable text contributes nothing
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}
