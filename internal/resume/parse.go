package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"

	"github.com/jonathan/interview-coach/internal/types"
)

// Supported upload MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDOC  = "application/msword"
	MIMEText = "text/plain"
	MIMEHTML = "text/html"
)

// MaxUploadBytes bounds resume uploads.
const MaxUploadBytes = 10 << 20

var (
	// ErrUnsupported is returned for MIME types with no text extractor.
	ErrUnsupported = errors.New("unsupported resume format")
	// ErrEmpty is returned when a document yields no text.
	ErrEmpty = errors.New("resume contains no text")
)

// ParseError wraps a failure to read a document of a supported type.
type ParseError struct {
	MIMEType string
	Cause    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read %s resume: %v", e.MIMEType, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse extracts text from an uploaded document and runs Extract on it.
func Parse(ctx context.Context, data []byte, mimeType string) (*types.ParsedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("resume is %d bytes, limit is %d", len(data), MaxUploadBytes)
	}

	mediaType := strings.ToLower(strings.TrimSpace(mimeType))
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mediaType = parsed
	}

	var (
		text string
		err  error
	)
	switch mediaType {
	case MIMEPDF:
		text, err = pdfText(data)
	case MIMEDOCX:
		text, err = docxText(data)
	case MIMEText:
		text = string(data)
	case MIMEHTML:
		text, err = htmlText(data)
	case MIMEDOC:
		return nil, fmt.Errorf("%w: legacy Word documents, save as .docx", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, mimeType)
	}
	if err != nil {
		return nil, &ParseError{MIMEType: mediaType, Cause: err}
	}

	extracted := Extract(text)
	if extracted.RawText == "" {
		return nil, ErrEmpty
	}
	return types.NewParsedResume(extracted), nil
}

// DetectMIMEType maps a file name extension to a supported MIME type.
func DetectMIMEType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return MIMEPDF
	case strings.HasSuffix(lower, ".docx"):
		return MIMEDOCX
	case strings.HasSuffix(lower, ".doc"):
		return MIMEDOC
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return MIMEHTML
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".md"):
		return MIMEText
	default:
		return ""
	}
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	// Block elements end a line so education scanning still sees separate lines.
	doc.Find("p, div, li, br, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return doc.Find("body").Text(), nil
}
