package types

import "encoding/json"

// HookObservation is one node of the hook tree reported by the runtime.
// The shape mirrors the JSON payload produced by the backend, so a dump can
// be decoded, enriched and re-encoded without losing unrelated fields.
type HookObservation struct {
	// ID is the primitive hook index. A nil ID marks a custom hook.
	ID *int `json:"id"`

	// Name is the primitive hook category (State, Reducer, Effect, ...) or
	// the custom hook's name.
	Name string `json:"name"`

	// Value is the observed hook value. It is opaque to the resolver and
	// preserved byte-for-byte.
	Value json.RawMessage `json:"value,omitempty"`

	// SubHooks holds the primitives invoked inside a custom hook, in call
	// order.
	SubHooks []*HookObservation `json:"subHooks"`

	// HookSource locates the hook call in the bundled script.
	HookSource *HookSource `json:"hookSource,omitempty"`

	// HookVariableName is the resolved binding name, nil until resolution
	// succeeds. It is never the empty string.
	HookVariableName *string `json:"hookVariableName,omitempty"`
}

// IsCustom reports whether the observation describes a custom hook.
func (h *HookObservation) IsCustom() bool {
	return h.ID == nil
}

// HookSource is the runtime-reported call site of a hook, in bundled
// coordinates. Any field may be absent.
type HookSource struct {
	FileName     *string `json:"fileName"`
	LineNumber   *int    `json:"lineNumber"`
	ColumnNumber *int    `json:"columnNumber"`
	FunctionName *string `json:"functionName"`
}

// FetchedFile is a retrieved script or source-map document.
type FetchedFile struct {
	URL  string
	Text string
}
