// Package slide provides content addressing for whole-slide image
// files and the reader collaborator contract for slide metadata.
package slide

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// chunkSize is the read buffer size for digest streaming.
const chunkSize = 64 * 1024

// Digest returns the hex MD5 digest of the file at path. The file is
// read in 64 KiB chunks and never loaded whole; slide files are
// routinely multiple gigabytes. MD5 serves as a stable content
// address here, not as a security measure.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open slide: %w", err)
	}
	defer f.Close()

	sum, err := DigestReader(f)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return sum, nil
}

// DigestReader returns the hex MD5 digest of everything readable from r.
func DigestReader(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.CopyBuffer(h, r, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ContentRef returns the content-address IRI for a hex digest, in the
// urn:md5 scheme the downstream catalogue resolves.
func ContentRef(digest string) string {
	return "urn:md5:" + digest
}
