package storage

import (
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error) // keys under prefix, sorted
}

// NewKey builds a collision-resistant blob key under the given namespace,
// keeping only the (lowercased) extension of the original filename. The
// original name is never part of the key; it is stored separately for
// display.
func NewKey(namespace, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return path.Join(namespace, id+ext)
}
