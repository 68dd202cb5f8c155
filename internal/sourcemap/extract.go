package sourcemap

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Sentinel errors callers branch on when deciding how to report a file.
var (
	// ErrNoSourceMap means the bundle carries no sourceMappingURL comment.
	ErrNoSourceMap = errors.New("no source map reference")
	// ErrAmbiguousSourceMap means the bundle carries more than one.
	ErrAmbiguousSourceMap = errors.New("ambiguous source map reference")
)

// mappingURLPattern matches the trailing magic comment:
//
//	//# sourceMappingURL=main.js.map
//	//@ sourceMappingURL=https://cdn.example.com/main.js.map
//
// anchored to end-of-line, across the whole bundle body.
var mappingURLPattern = regexp.MustCompile(`(?m)//[#@] ?sourceMappingURL=([^\s'"]+)$`)

// ExtractMappingURL scans a bundle body for its sourceMappingURL comment and
// returns the absolute URL of the companion source map. Relative references
// resolve against the directory of the bundle URL. data: URLs are returned
// verbatim for the fetcher to decode in place.
func ExtractMappingURL(bundleURL, body string) (string, error) {
	matches := mappingURLPattern.FindAllStringSubmatch(body, -1)
	switch {
	case len(matches) == 0:
		return "", ErrNoSourceMap
	case len(matches) > 1:
		return "", fmt.Errorf("%w: %d sourceMappingURL comments", ErrAmbiguousSourceMap, len(matches))
	}

	token := matches[0][1]
	if strings.HasPrefix(token, "data:") {
		return token, nil
	}

	base, err := url.Parse(bundleURL)
	if err != nil {
		return "", fmt.Errorf("invalid bundle URL %q: %w", bundleURL, err)
	}
	resolved, err := base.Parse(token)
	if err != nil {
		return "", fmt.Errorf("invalid sourceMappingURL %q: %w", token, err)
	}
	if !resolved.IsAbs() {
		return "", fmt.Errorf("sourceMappingURL %q did not resolve to an absolute URL", token)
	}
	return resolved.String(), nil
}
