package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// FileStamp is the identity of one file for change detection.
type FileStamp struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// ComputeFileSetHash fingerprints a set of files. Order does not matter;
// any added, removed, resized or touched file changes the hash.
func ComputeFileSetHash(files []FileStamp) Hash {
	lines := make([]string, len(files))
	for i, f := range files {
		lines[i] = fmt.Sprintf("%s|%d|%d", f.Name, f.Size, f.ModTime.UnixNano())
	}
	sort.Strings(lines)
	return NewHash([]byte(strings.Join(lines, "\n")))
}
