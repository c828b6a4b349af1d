package reporting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format names a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJUnit    Format = "junit"
)

// Compression names an optional export wrapper.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// ErrUnknownFormat is returned for an export path whose extension selects no renderer.
var ErrUnknownFormat = errors.New("unknown export format")

var exportExtensions = map[string]Format{
	".json":     FormatJSON,
	".md":       FormatMarkdown,
	".markdown": FormatMarkdown,
	".html":     FormatHTML,
	".htm":      FormatHTML,
	".xml":      FormatJUnit,
}

var contentTypes = map[Format]string{
	FormatText:     "text/plain; charset=utf-8",
	FormatJSON:     "application/json",
	FormatMarkdown: "text/markdown; charset=utf-8",
	FormatHTML:     "text/html; charset=utf-8",
	FormatJUnit:    "application/xml",
}

// ParseFormat validates a --format value for console output.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid format %q: expected text, json, or markdown", s)
	}
}

// ContentType returns the MIME type for f.
func ContentType(f Format) string {
	return contentTypes[f]
}

// ContentEncoding returns the HTTP content encoding for c, or "" for none.
func ContentEncoding(c Compression) string {
	return string(c)
}

// ExportTarget describes how an export path is rendered.
type ExportTarget struct {
	Format      Format
	Compression Compression
}

// TargetForPath selects the renderer from the file extension, case-insensitively.
// A trailing .gz or .zst selects compression and the extension before it
// selects the format, e.g. report.json.gz.
func TargetForPath(path string) (ExportTarget, error) {
	name := strings.ToLower(filepath.Base(path))
	var t ExportTarget
	switch ext := filepath.Ext(name); ext {
	case ".gz":
		t.Compression = CompressionGzip
		name = strings.TrimSuffix(name, ext)
	case ".zst":
		t.Compression = CompressionZstd
		name = strings.TrimSuffix(name, ext)
	}
	ext := filepath.Ext(name)
	f, ok := exportExtensions[ext]
	if !ok {
		return ExportTarget{}, fmt.Errorf("%w %q: use .json, .md, .markdown, .html or .xml, optionally followed by .gz or .zst", ErrUnknownFormat, ext)
	}
	t.Format = f
	return t, nil
}

// Render writes r to w in format f. Text output uses opts; the timestamp is
// used by JUnit output only.
func Render(w io.Writer, f Format, r *Report, opts TextOptions, timestamp time.Time) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	case FormatHTML:
		return WriteHTML(w, r)
	case FormatJUnit:
		return WriteJUnitXML(w, r, timestamp)
	case FormatText:
		WriteText(w, r, opts)
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Encode renders r for the export path, compressing when the path asks for it.
func Encode(path string, r *Report, timestamp time.Time) ([]byte, ExportTarget, error) {
	target, err := TargetForPath(path)
	if err != nil {
		return nil, ExportTarget{}, err
	}

	var rendered bytes.Buffer
	if err := Render(&rendered, target.Format, r, TextOptions{Detailed: true}, timestamp); err != nil {
		return nil, target, err
	}

	data, err := compress(rendered.Bytes(), target.Compression)
	if err != nil {
		return nil, target, err
	}
	return data, target, nil
}

// Export writes r to path in the format selected by its extension.
func Export(path string, r *Report, timestamp time.Time) error {
	data, _, err := Encode(path, r, timestamp)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func compress(data []byte, c Compression) ([]byte, error) {
	var buf bytes.Buffer
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
	case CompressionZstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		if _, err := zw.Write(data); err != nil {
			zw.Close() //nolint:errcheck
			return nil, fmt.Errorf("zstd: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
	return buf.Bytes(), nil
}

// Decompress reverses the compression applied by Encode.
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close() //nolint:errcheck
		return io.ReadAll(zr)
	case CompressionZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}
