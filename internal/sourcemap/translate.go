package sourcemap

import (
	"errors"
	"fmt"

	gosourcemap "github.com/go-sourcemap/sourcemap"
)

// DefaultMaxSourceLines bounds how large a translated original source may be
// before it is considered unsafe to parse synchronously.
const DefaultMaxSourceLines = 100_000

// ErrSourceTooLarge is returned when a translated position lands beyond the
// configured line bound.
var ErrSourceTooLarge = errors.New("original source exceeds line bound")

// Position is a bundled position translated back to its original source.
type Position struct {
	// Source is the original source path as recorded in the map.
	Source string
	// Line is the 1-based line in the original source.
	Line int
	// Content is the embedded original source text.
	Content string
}

// Translator wraps a parsed source-map consumer for one bundle.
type Translator struct {
	consumer *gosourcemap.Consumer
	maxLines int
}

// NewTranslator parses a source-map document. mapURL is used for resolving
// relative source paths inside the map. maxLines <= 0 selects
// DefaultMaxSourceLines.
func NewTranslator(mapURL string, data []byte, maxLines int) (*Translator, error) {
	consumer, err := gosourcemap.Parse(mapURL, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source map %s: %w", mapURL, err)
	}
	if maxLines <= 0 {
		maxLines = DefaultMaxSourceLines
	}
	return &Translator{consumer: consumer, maxLines: maxLines}, nil
}

// Translate maps a 1-based bundled (line, column) to the original source.
// It fails when the map has no entry for the position, when the original
// content is not embedded, or when the translated line exceeds the safety
// bound.
func (t *Translator) Translate(line, column int) (*Position, error) {
	source, _, origLine, _, ok := t.consumer.Source(line, column)
	if !ok || source == "" {
		return nil, fmt.Errorf("no mapping for line %d column %d", line, column)
	}
	if origLine > t.maxLines {
		return nil, fmt.Errorf("%w: line %d > %d", ErrSourceTooLarge, origLine, t.maxLines)
	}
	content := t.consumer.SourceContent(source)
	if content == "" {
		return nil, fmt.Errorf("no embedded content for source %s", source)
	}
	return &Position{Source: source, Line: origLine, Content: content}, nil
}
