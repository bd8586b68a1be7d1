package services

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxUploadSize is the largest accepted CV in bytes (5 MiB, inclusive).
const MaxUploadSize int64 = 5 * 1024 * 1024

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".doc":  {},
	".txt":  {},
	".odt":  {},
}

type FileMeta struct {
	Name      string
	Size      int64
	MediaType string
}

type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

// ValidationError carries the rejection reason of a file and unwraps to one of
// ErrUnsupportedFileType or ErrFileTooLarge.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

type FileValidator interface {
	Validate(meta FileMeta) ValidationResult
	Check(meta FileMeta) error
}

type fileValidator struct {
	maxSize int64
}

func NewFileValidator() FileValidator {
	return &fileValidator{maxSize: MaxUploadSize}
}

// Validate implements FileValidator.
func (v *fileValidator) Validate(meta FileMeta) ValidationResult {
	if err := v.Check(meta); err != nil {
		return ValidationResult{IsValid: false, Reason: err.Error()}
	}
	return ValidationResult{IsValid: true}
}

// Check implements FileValidator.
func (v *fileValidator) Check(meta FileMeta) error {
	ext := strings.ToLower(filepath.Ext(meta.Name))
	if _, ok := allowedExtensions[ext]; !ok {
		return &ValidationError{Reason: ErrUnsupportedFileType}
	}

	if meta.Size > v.maxSize {
		return &ValidationError{Reason: ErrFileTooLarge}
	}

	return nil
}
