package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"

	"timelinechart/pkg/errors"
)

// Format identifies the encoding of a timeline document.
type Format string

const (
	// FormatJSON is the canonical ingestion encoding.
	FormatJSON Format = "json"
	// FormatYAML is accepted for hand-written timelines.
	FormatYAML Format = "yaml"
)

// maxDocumentSize bounds how much of a remote document is read.
const maxDocumentSize = 32 << 20

// Decode parses a timeline document in the given format and validates it.
func Decode(raw []byte, format Format) (*Data, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("decoding document: %w", errors.ErrEmpty)
	}
	var data Data
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(bytes.NewReader(raw))
		if err := dec.Decode(&data); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	default:
		return nil, fmt.Errorf("format %q: %w", format, errors.ErrUnsupported)
	}

	if data.TypeNames == nil {
		data.TypeNames = map[string]string{}
	}
	if err := Validate(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate checks the invariants the engine relies on. An empty event list is
// valid; it renders as an empty canvas.
func Validate(data *Data) error {
	if data == nil {
		return errors.NewValidationError("", nil, "document is empty")
	}
	for i, e := range data.Events {
		field := func(name string) string {
			return fmt.Sprintf("events[%d].%s", i, name)
		}
		if strings.TrimSpace(e.ID) == "" {
			return errors.NewValidationError(field("id"), e.ID, "must not be empty")
		}
		if strings.TrimSpace(e.Group) == "" {
			return errors.NewValidationError(field("group"), e.Group, "must not be empty")
		}
		if math.IsNaN(e.Time) || math.IsInf(e.Time, 0) {
			return errors.NewValidationError(field("time"), e.Time, "must be a finite number")
		}
		if e.EndTime != nil {
			end := *e.EndTime
			if math.IsNaN(end) || math.IsInf(end, 0) {
				return errors.NewValidationError(field("endTime"), end, "must be a finite number")
			}
		}
	}
	for i, g := range data.TypeOrder {
		if strings.TrimSpace(g) == "" {
			return errors.NewValidationError(fmt.Sprintf("type_order[%d]", i), g, "must not be empty")
		}
	}
	return nil
}

// FormatFor guesses the document format from a file name or URL path.
func FormatFor(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Loader fetches timeline documents from local files or http(s) URLs.
type Loader struct {
	client *http.Client
	logger zerolog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.client = c
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader with a 30 second HTTP timeout.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the document at source. Every failure is returned as
// a *errors.LoadError; there are no retries.
func (l *Loader) Load(ctx context.Context, source string) (*Data, error) {
	var (
		raw    []byte
		format = FormatFor(source)
		err    error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		raw, format, err = l.fetch(ctx, source, format)
	} else {
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, errors.NewLoadError(source, err)
	}

	data, err := Decode(raw, format)
	if err != nil {
		return nil, errors.NewLoadError(source, err)
	}

	l.logger.Debug().
		Str("source", source).
		Str("format", string(format)).
		Int("events", len(data.Events)).
		Int("types", len(data.TypeOrder)).
		Msg("Loaded timeline data")
	return data, nil
}

// fetch performs a single GET request.
func (l *Loader) fetch(ctx context.Context, url string, format Format) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, format, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, format, fmt.Errorf("requesting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, format, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = FormatYAML
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, format, fmt.Errorf("reading body: %w", err)
	}
	return raw, format, nil
}
