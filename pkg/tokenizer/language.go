package tokenizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFileType is returned when a path's extension does not map to a known language.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Language represents a supported programming language.
type Language string

const (
	LangUnknown    Language = "unknown"
	LangRust       Language = "rust"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangGo         Language = "go"
	LangJava       Language = "java"
	LangCPP        Language = "cpp"
)

var extensions = map[Language][]string{
	LangRust:       {"rs"},
	LangJavaScript: {"js", "jsx", "mjs", "cjs"},
	LangTypeScript: {"ts", "tsx"},
	LangGo:         {"go"},
	LangJava:       {"java"},
	LangCPP:        {"cpp", "cc", "cxx", "c++", "hpp", "h", "hh", "hxx"},
}

var byExtension = func() map[string]Language {
	m := make(map[string]Language)
	for lang, exts := range extensions {
		for _, ext := range exts {
			m[ext] = lang
		}
	}
	return m
}()

// Languages returns every supported language in a fixed order.
func Languages() []Language {
	return []Language{LangRust, LangJavaScript, LangTypeScript, LangGo, LangJava, LangCPP}
}

// DetectLanguage maps a file path to its language by extension.
// Extension matching is case-sensitive.
func DetectLanguage(path string) (Language, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return LangUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}
	if lang, ok := byExtension[ext]; ok {
		return lang, nil
	}
	return LangUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
}

// IsSupported reports whether path has a recognized source extension.
func IsSupported(path string) bool {
	_, err := DetectLanguage(path)
	return err == nil
}

// Extensions returns the file extensions recognized for the language.
func (l Language) Extensions() []string {
	return append([]string(nil), extensions[l]...)
}

// LineComment returns the marker that opens a comment running to end of line.
func (l Language) LineComment() string {
	switch l {
	case LangRust, LangJavaScript, LangTypeScript, LangGo, LangJava, LangCPP:
		return "//"
	default:
		return ""
	}
}

// BlockComment returns the open and close markers of a block comment.
func (l Language) BlockComment() (open, close string) {
	switch l {
	case LangRust, LangJavaScript, LangTypeScript, LangGo, LangJava, LangCPP:
		return "/*", "*/"
	default:
		return "", ""
	}
}

func (l Language) String() string {
	return string(l)
}
