package quiz

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/classpad/classpad-lms/internal/extract"
	"github.com/classpad/classpad-lms/internal/storage"
)

// MaterialPrefix is the blob namespace holding class materials. Submission
// attachments live under a different prefix so student uploads never leak
// into a corpus.
const MaterialPrefix = "classes/"

// CorpusBuilder assembles the generation context for a class from its stored
// materials. Every call re-lists and re-extracts; there is no cache, so the
// corpus always reflects the current uploads.
type CorpusBuilder struct {
	blobs storage.BlobStore
}

func NewCorpusBuilder(blobs storage.BlobStore) *CorpusBuilder {
	return &CorpusBuilder{blobs: blobs}
}

// Build returns the concatenated text of all extraction-eligible materials
// of the class, each followed by a newline, in stable (sorted key) order.
// Files that fail to extract contribute nothing. A corpus that is empty or
// whitespace-only yields ErrNoMaterials.
func (b *CorpusBuilder) Build(ctx context.Context, classID string) (string, error) {
	keys, err := b.blobs.List(MaterialPrefix + classID)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, key := range keys {
		if !extract.Eligible(key) {
			continue
		}
		res := b.extractBlob(key)
		if res.Err != nil {
			log.Printf("corpus: skipping %s: %v", key, res.Err)
			continue
		}
		if res.Text == "" {
			continue
		}
		sb.WriteString(res.Text)
		sb.WriteString("\n")
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrNoMaterials
	}
	return sb.String(), nil
}

func (b *CorpusBuilder) extractBlob(key string) extract.Result {
	rc, err := b.blobs.Get(key)
	if err != nil {
		return extract.Result{Key: key, Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return extract.Result{Key: key, Err: err}
	}
	return extract.File(key, data)
}
