package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

var ErrInvalidDocument = errors.New("invalid document")

type ExtractorMode string

const (
	// ExtractorModeParse runs the real parsers and falls back to templates.
	ExtractorModeParse ExtractorMode = "parse"
	// ExtractorModePlaceholder never parses non plain-text files.
	ExtractorModePlaceholder ExtractorMode = "placeholder"
)

// UploadedDocument is a CV held in memory for the duration of one request.
type UploadedDocument struct {
	Name      string
	MediaType string
	Size      int64
	Content   []byte
}

func (d UploadedDocument) Meta() FileMeta {
	return FileMeta{Name: d.Name, Size: d.Size, MediaType: d.MediaType}
}

type TextExtractor interface {
	Extract(ctx context.Context, doc UploadedDocument) (string, error)
}

type textExtractor struct {
	validator FileValidator
	pdfParser PDFParserService
	office    officeParser
	mode      ExtractorMode
	logger    *zap.Logger
}

func NewTextExtractor(validator FileValidator, pdfParser PDFParserService, mode ExtractorMode, logger *zap.Logger) TextExtractor {
	if mode == "" {
		mode = ExtractorModeParse
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &textExtractor{
		validator: validator,
		pdfParser: pdfParser,
		mode:      mode,
		logger:    logger,
	}
}

// Extract implements TextExtractor. It only fails for files the validator
// rejects; every other failure degrades to a canned template.
func (e *textExtractor) Extract(ctx context.Context, doc UploadedDocument) (string, error) {
	if err := e.validator.Check(doc.Meta()); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	ext := strings.ToLower(filepath.Ext(doc.Name))
	if isPlainText(ext, doc.MediaType) {
		text := sanitizeUTF8(string(doc.Content))
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		return e.fallback(doc, errNoTextContent), nil
	}

	if e.mode == ExtractorModePlaceholder {
		return SelectTemplate(doc.Name).Text(), nil
	}

	text, err := e.parse(ext, doc.Content)
	if err != nil {
		return e.fallback(doc, err), nil
	}
	return text, nil
}

func (e *textExtractor) parse(ext string, data []byte) (string, error) {
	switch ext {
	case ".pdf":
		content, err := e.pdfParser.ExtractTextFromBytes(data)
		if err != nil {
			return "", err
		}
		return CleanText(sanitizeUTF8(content.Text)), nil
	case ".docx":
		return e.office.ExtractDOCX(data)
	case ".odt":
		return e.office.ExtractODT(data)
	default:
		return "", fmt.Errorf("no parser for %s documents", ext)
	}
}

func (e *textExtractor) fallback(doc UploadedDocument, cause error) string {
	tmpl := SelectTemplate(doc.Name)
	e.logger.Warn("⚠️ Text extraction failed, using placeholder CV",
		zap.String("filename", doc.Name),
		zap.String("template", string(tmpl)),
		zap.Error(cause),
	)
	return tmpl.Text()
}

func isPlainText(ext, mediaType string) bool {
	return ext == ".txt" || strings.HasPrefix(strings.ToLower(mediaType), "text/plain")
}

func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
