// Package source turns batch inputs (local files or document URLs) into
// model.Document text for the pipeline.
package source

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ppiankov/piitier/internal/model"
	"go.uber.org/zap"
)

// ErrUnsupported is returned for formats piitier cannot read text from
var ErrUnsupported = errors.New("unsupported document format")

var extensions = map[string]Format{
	".txt":   FormatText,
	".text":  FormatText,
	".csv":   FormatText,
	".log":   FormatText,
	".md":    FormatText,
	".json":  FormatText,
	".html":  FormatHTML,
	".htm":   FormatHTML,
	".xhtml": FormatHTML,
	".pdf":   FormatPDF,
}

// FormatForPath picks a format from the file extension
func FormatForPath(p string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(p))]
	return f, ok
}

// FormatForContentType picks a format from a Content-Type header
func FormatForContentType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch {
	case mediaType == "application/pdf":
		return FormatPDF, true
	case mediaType == "text/html", mediaType == "application/xhtml+xml":
		return FormatHTML, true
	case strings.HasPrefix(mediaType, "text/"), mediaType == "application/json":
		return FormatText, true
	}
	return "", false
}

// IsURL reports whether input names an http(s) document
func IsURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Loader reads documents from disk or over HTTP
type Loader struct {
	fetcher  *Fetcher
	maxBytes int64
	logger   *zap.Logger
}

// NewLoader creates a loader from source configuration
func NewLoader(cfg model.SourceConfig, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher:  NewFetcher(cfg, logger),
		maxBytes: cfg.MaxBytes,
		logger:   logger,
	}
}

// Load reads input and returns its text. The document name is the file's
// base name or the URL's last path segment.
func (l *Loader) Load(ctx context.Context, input string) (model.Document, error) {
	if IsURL(input) {
		return l.loadURL(ctx, input)
	}
	return l.loadFile(input)
}

func (l *Loader) loadFile(p string) (model.Document, error) {
	doc := model.Document{FileName: filepath.Base(p)}

	format, ok := FormatForPath(p)
	if !ok {
		return doc, fmt.Errorf("%s: %w", doc.FileName, ErrUnsupported)
	}

	info, err := os.Stat(p)
	if err != nil {
		return doc, fmt.Errorf("stat %s: %w", p, err)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return doc, fmt.Errorf("%s: %w: over %d bytes", doc.FileName, ErrTooLarge, l.maxBytes)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return doc, fmt.Errorf("read %s: %w", p, err)
	}

	doc.Text, err = Decode(format, data)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", doc.FileName, err)
	}
	l.logger.Debug("Document loaded",
		zap.String("file_name", doc.FileName),
		zap.String("format", string(format)),
		zap.Int("chars", len(doc.Text)))
	return doc, nil
}

func (l *Loader) loadURL(ctx context.Context, rawURL string) (model.Document, error) {
	doc := model.Document{FileName: nameFromURL(rawURL)}

	res, err := l.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return doc, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	doc.FileName = nameFromURL(res.FinalURL)

	format, ok := FormatForContentType(res.ContentType)
	if !ok {
		if format, ok = FormatForPath(urlPath(res.FinalURL)); !ok {
			return doc, fmt.Errorf("%s (%s): %w", doc.FileName, res.ContentType, ErrUnsupported)
		}
	}

	doc.Text, err = Decode(format, res.Body)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", doc.FileName, err)
	}
	l.logger.Debug("Document fetched",
		zap.String("file_name", doc.FileName),
		zap.String("url", res.FinalURL),
		zap.String("format", string(format)))
	return doc, nil
}

func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path
	}
	return rawURL
}

// nameFromURL uses the last path segment, falling back to the host
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" || base == "" {
		return u.Host
	}
	return base
}
