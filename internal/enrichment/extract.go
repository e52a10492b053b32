package enrichment

import (
	"fmt"
	"io"
	"strings"

	"code.sajari.com/docconv"
)

// DocconvExtractor turns PDF, DOC(X), RTF, ODT and HTML resumes into plain
// text before they are sent to the model.
type DocconvExtractor struct{}

func (DocconvExtractor) Extract(r io.Reader, mimeType string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "text/plain" {
		b, err := io.ReadAll(r)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	res, err := docconv.Convert(r, mimeType, true)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", mimeType, err)
	}
	return res.Body, nil
}

// MimeTypeByName guesses the mime type from a file name when the client
// sent none.
func MimeTypeByName(name string) string {
	return docconv.MimeTypeByExtension(name)
}
