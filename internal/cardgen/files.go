package cardgen

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FileKind says how a file takes part in the prompt.
type FileKind int

const (
	// KindIgnored files are skipped.
	KindIgnored FileKind = iota
	// KindInline files are sent as binary attachments (images, PDFs).
	KindInline
	// KindText files are appended to the prompt as text.
	KindText
)

func (k FileKind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindText:
		return "text"
	default:
		return "ignored"
	}
}

// Classify decides how a file with the given MIME type is used.
func Classify(mimeType string) FileKind {
	base := baseMIME(mimeType)
	switch {
	case strings.HasPrefix(base, "image/"), base == "application/pdf":
		return KindInline
	case strings.HasPrefix(base, "text/"):
		return KindText
	default:
		return KindIgnored
	}
}

// LoadFile reads path and detects its MIME type from the extension,
// falling back to content sniffing.
func LoadFile(path string) (FileBlob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileBlob{}, fmt.Errorf("read %s: %w", path, err)
	}
	return FileBlob{
		Name:     filepath.Base(path),
		MIMEType: DetectMIME(path, data),
		Data:     data,
	}, nil
}

// DetectMIME returns the MIME type for a file name and its contents.
func DetectMIME(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return baseMIME(t)
	}
	return baseMIME(http.DetectContentType(data))
}

func baseMIME(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}
