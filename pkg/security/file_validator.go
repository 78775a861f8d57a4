package security

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxResumeUploadBytes bounds resume uploads accepted for text extraction.
const MaxResumeUploadBytes = 5 << 20

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Magic byte signatures for the resume formats we extract text from.
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	".docx": {{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
	".txt":  {},
}

var strictMIMETypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/zip": true,
	"text/plain":      true,
}

// ValidateResumeFile checks extension, size, magic bytes and sniffed MIME type.
// application/octet-stream is only tolerated for .docx, whose ZIP signature was
// already verified.
func ValidateResumeFile(filename string, data []byte, detectedMIME string) FileValidationResult {
	result := FileValidationResult{DetectedMIME: detectedMIME}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if _, ok := magicBytes[ext]; !ok {
		result.Error = "unsupported file type " + ext + "; upload a PDF, DOCX or TXT file"
		return result
	}
	if len(data) == 0 {
		result.Error = "file is empty"
		return result
	}
	if len(data) > MaxResumeUploadBytes {
		result.Error = "file exceeds the 5MB limit"
		return result
	}

	if ext == ".txt" {
		if !utf8.Valid(data) {
			result.Error = "text file is not valid UTF-8"
			return result
		}
	} else if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension"
		return result
	}

	// text/plain sniffing adds a charset suffix
	mime := strings.TrimSpace(strings.SplitN(detectedMIME, ";", 2)[0])
	switch {
	case mime == "application/octet-stream" && ext == ".docx":
	case !strictMIMETypes[mime]:
		result.Error = "MIME type not allowed: " + mime
		return result
	}

	result.Valid = true
	return result
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	signatures := magicBytes[ext]
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// ValidateFileExtension checks only the extension (for quick pre-validation)
func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("file has no extension")
	}
	if _, ok := magicBytes[ext]; !ok {
		return errors.New("file extension not allowed: " + ext)
	}
	return nil
}
