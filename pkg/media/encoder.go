// Package media converts raw image attachments to and from the
// self-describing data-URL form used on the wire. The payload bytes are
// carried verbatim: no recompression, no resizing.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxAttachmentSize caps a single attachment at 10 MiB.
const MaxAttachmentSize = 10 << 20

// ErrTooLarge indicates an attachment exceeds MaxAttachmentSize.
var ErrTooLarge = errors.New("attachment exceeds maximum size")

const dataURLPrefix = "data:"

// Encode wraps raw bytes in a data URL, sniffing the MIME type from the
// payload itself.
func Encode(data []byte) string {
	mime := http.DetectContentType(data)
	return dataURLPrefix + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeFile reads one file and encodes it. Reading is the I/O-bound step of
// an attachment batch; callers treat any failure as aborting the whole batch.
func EncodeFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat attachment %s: %w", path, err)
	}
	if info.Size() > MaxAttachmentSize {
		return "", fmt.Errorf("attachment %s: %w", path, ErrTooLarge)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read attachment %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("attachment %s is empty", path)
	}

	return Encode(data), nil
}

// EncodeAll encodes a batch of files. The batch is all-or-nothing: the first
// failure aborts and nothing partial is returned.
func EncodeAll(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	encoded := make([]string, 0, len(paths))
	for _, p := range paths {
		s, err := EncodeFile(p)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, s)
	}
	return encoded, nil
}

// Decode is the inverse of Encode: it splits a data URL into the original
// bytes and the declared MIME type.
func Decode(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, "", fmt.Errorf("not a data URL")
	}

	rest := strings.TrimPrefix(dataURL, dataURLPrefix)
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("data URL missing payload separator")
	}

	mime, b64 := strings.CutSuffix(meta, ";base64")
	if !b64 {
		return nil, "", fmt.Errorf("data URL is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL payload: %w", err)
	}

	return data, mime, nil
}

// IsDataURL reports whether s looks like an encoded image rather than a
// fetchable location.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLPrefix)
}
