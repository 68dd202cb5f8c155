package sourcemap

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// identityMappings builds a mappings string where each generated line maps
// to the same line of the first source, column 0.
func identityMappings(lines int) string {
	return "AAAA" + strings.Repeat(";AACA", lines-1)
}

// testMap builds a source-map document embedding content for one source.
func testMap(t *testing.T, source, content string) []byte {
	t.Helper()
	lines := strings.Count(content, "\n") + 1
	doc := map[string]any{
		"version":        3,
		"sources":        []string{source},
		"sourcesContent": []string{content},
		"names":          []string{},
		"mappings":       identityMappings(lines),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal test map: %v", err)
	}
	return data
}

func TestTranslate(t *testing.T) {
	content := strings.Join([]string{
		"import React from 'react';",
		"",
		"const [count, setCount] = React.useState(1);",
		"export default count;",
	}, "\n")
	data := testMap(t, "src/App.js", content)

	tr, err := NewTranslator("https://app.example.com/main.js.map", data, 0)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	pos, err := tr.Translate(3, 27)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if !strings.HasSuffix(pos.Source, "src/App.js") {
		t.Errorf("Source = %q, want suffix src/App.js", pos.Source)
	}
	if pos.Line != 3 {
		t.Errorf("Line = %d, want 3", pos.Line)
	}
	if pos.Content != content {
		t.Errorf("Content does not match embedded source content")
	}
}

func TestTranslate_NoMapping(t *testing.T) {
	data := testMap(t, "src/App.js", "const a = 1;")

	tr, err := NewTranslator("https://app.example.com/main.js.map", data, 0)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	if _, err := tr.Translate(9999, 1); err == nil {
		t.Error("Translate() should fail for a line the map does not cover")
	}
}

func TestTranslate_LineBound(t *testing.T) {
	content := strings.Repeat("const a = 1;\n", 9) + "const b = 2;"
	data := testMap(t, "src/App.js", content)

	tr, err := NewTranslator("https://app.example.com/main.js.map", data, 5)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	_, err = tr.Translate(8, 1)
	if !errors.Is(err, ErrSourceTooLarge) {
		t.Errorf("Translate() error = %v, want ErrSourceTooLarge", err)
	}
}

func TestTranslate_MissingSourceContent(t *testing.T) {
	doc := map[string]any{
		"version":  3,
		"sources":  []string{"src/App.js"},
		"names":    []string{},
		"mappings": identityMappings(3),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal test map: %v", err)
	}

	tr, err := NewTranslator("https://app.example.com/main.js.map", data, 0)
	if err != nil {
		t.Fatalf("NewTranslator() error = %v", err)
	}

	if _, err := tr.Translate(2, 1); err == nil {
		t.Error("Translate() should fail when the map embeds no source content")
	}
}

func TestNewTranslator_InvalidDocument(t *testing.T) {
	if _, err := NewTranslator("https://app.example.com/main.js.map", []byte("not json"), 0); err == nil {
		t.Error("NewTranslator() should fail on an invalid document")
	}
}
