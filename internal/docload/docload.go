package docload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/searchparams/internal/params"
)

// Format identifies a document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatCUE  Format = "cue"
)

// ErrorCode categorizes load failures.
type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"
	ErrCodeNotMapping  ErrorCode = "NOT_MAPPING"
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    ErrorCode
	Path    string // empty for in-memory documents
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", &LoadError{
			Code:    ErrCodeUnsupported,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q: must be one of .yaml .yml .json .toml .cue", filepath.Ext(path)),
		}
	}
}

// LoadFile reads the document at path.
func LoadFile(path string) (params.Pairs, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		code := ErrCodeParseFailed
		if os.IsNotExist(err) {
			code = ErrCodeNotFound
		}
		return nil, &LoadError{Code: code, Path: path, Message: "failed to read document", Err: err}
	}

	pairs, err := Load(format, data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return pairs, nil
}

// Load parses an in-memory document.
func Load(format Format, data []byte) (params.Pairs, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return loadYAML(data)
	case FormatTOML:
		return loadTOML(data)
	case FormatCUE:
		return loadCUE(data)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported format %q", format)}
	}
}
