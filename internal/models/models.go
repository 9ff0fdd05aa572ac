// Package models holds the static model metadata registry: which encoding
// family each model uses, its context window, and list pricing.
package models

import (
	"sort"
	"strings"
)

// Encoding names understood by the encoder backends.
const (
	EncodingO200kBase  = "o200k_base"
	EncodingCL100kBase = "cl100k_base"
	EncodingP50kBase   = "p50k_base"
	EncodingP50kEdit   = "p50k_edit"
	EncodingR50kBase   = "r50k_base"
)

// DefaultEncoding is used for identifiers that are neither a known encoding
// nor a known model.
const DefaultEncoding = EncodingCL100kBase

// Encodings lists every known encoding family.
var Encodings = []string{
	EncodingO200kBase,
	EncodingCL100kBase,
	EncodingP50kBase,
	EncodingP50kEdit,
	EncodingR50kBase,
}

// Model describes a named model.
type Model struct {
	ID            string
	Name          string
	Provider      string
	Encoding      string
	ContextWindow int
	// Prices are USD per million tokens. Zero means unknown.
	InputPrice  float64
	OutputPrice float64
}

// InputCost returns the USD cost of sending n prompt tokens.
func (m Model) InputCost(n int) float64 {
	return float64(n) * m.InputPrice / 1_000_000
}

// OutputCost returns the USD cost of receiving n completion tokens.
func (m Model) OutputCost(n int) float64 {
	return float64(n) * m.OutputPrice / 1_000_000
}

// ContextUsage returns n as a percentage of the context window, or 0 when
// the window is unknown.
func (m Model) ContextUsage(n int) float64 {
	if m.ContextWindow <= 0 {
		return 0
	}
	return float64(n) / float64(m.ContextWindow) * 100
}

var registry = []Model{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 128_000, InputPrice: 2.50, OutputPrice: 10.00},
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 128_000, InputPrice: 0.15, OutputPrice: 0.60},
	{ID: "gpt-4.1", Name: "GPT-4.1", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 1_047_576, InputPrice: 2.00, OutputPrice: 8.00},
	{ID: "gpt-4.1-mini", Name: "GPT-4.1 mini", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 1_047_576, InputPrice: 0.40, OutputPrice: 1.60},
	{ID: "gpt-4.1-nano", Name: "GPT-4.1 nano", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 1_047_576, InputPrice: 0.10, OutputPrice: 0.40},
	{ID: "o1", Name: "o1", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 200_000, InputPrice: 15.00, OutputPrice: 60.00},
	{ID: "o1-mini", Name: "o1-mini", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 128_000, InputPrice: 1.10, OutputPrice: 4.40},
	{ID: "o3", Name: "o3", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 200_000, InputPrice: 2.00, OutputPrice: 8.00},
	{ID: "o3-mini", Name: "o3-mini", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 200_000, InputPrice: 1.10, OutputPrice: 4.40},
	{ID: "o4-mini", Name: "o4-mini", Provider: "OpenAI", Encoding: EncodingO200kBase, ContextWindow: 200_000, InputPrice: 1.10, OutputPrice: 4.40},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 128_000, InputPrice: 10.00, OutputPrice: 30.00},
	{ID: "gpt-4", Name: "GPT-4", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 8_192, InputPrice: 30.00, OutputPrice: 60.00},
	{ID: "gpt-4-32k", Name: "GPT-4 32k", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 32_768, InputPrice: 60.00, OutputPrice: 120.00},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 16_385, InputPrice: 0.50, OutputPrice: 1.50},
	{ID: "text-embedding-3-small", Name: "Embedding 3 small", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 8_191, InputPrice: 0.02},
	{ID: "text-embedding-3-large", Name: "Embedding 3 large", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 8_191, InputPrice: 0.13},
	{ID: "text-embedding-ada-002", Name: "Embedding Ada v2", Provider: "OpenAI", Encoding: EncodingCL100kBase, ContextWindow: 8_191, InputPrice: 0.10},
	{ID: "text-davinci-003", Name: "Davinci 003", Provider: "OpenAI", Encoding: EncodingP50kBase, ContextWindow: 4_097},
	{ID: "text-davinci-002", Name: "Davinci 002", Provider: "OpenAI", Encoding: EncodingP50kBase, ContextWindow: 4_097},
	{ID: "code-davinci-002", Name: "Codex Davinci", Provider: "OpenAI", Encoding: EncodingP50kBase, ContextWindow: 8_001},
	{ID: "text-davinci-edit-001", Name: "Davinci Edit", Provider: "OpenAI", Encoding: EncodingP50kEdit, ContextWindow: 2_049},
	{ID: "davinci", Name: "Davinci", Provider: "OpenAI", Encoding: EncodingR50kBase, ContextWindow: 2_049},
	{ID: "gpt2", Name: "GPT-2", Provider: "OpenAI", Encoding: EncodingR50kBase, ContextWindow: 1_024},
}

// prefixes resolves dated snapshots such as "gpt-4o-2024-08-06". Longest
// prefix first so "gpt-4o-mini-" wins over "gpt-4o-".
var prefixes = []struct {
	prefix string
	id     string
}{
	{"gpt-4o-mini-", "gpt-4o-mini"},
	{"gpt-4o-", "gpt-4o"},
	{"gpt-4.1-mini-", "gpt-4.1-mini"},
	{"gpt-4.1-nano-", "gpt-4.1-nano"},
	{"gpt-4.1-", "gpt-4.1"},
	{"o1-mini-", "o1-mini"},
	{"o1-", "o1"},
	{"o3-mini-", "o3-mini"},
	{"o3-", "o3"},
	{"o4-mini-", "o4-mini"},
	{"gpt-4-turbo-", "gpt-4-turbo"},
	{"gpt-4-32k-", "gpt-4-32k"},
	{"gpt-4-", "gpt-4"},
	{"gpt-3.5-turbo-", "gpt-3.5-turbo"},
}

var byID = func() map[string]Model {
	m := make(map[string]Model, len(registry))
	for _, model := range registry {
		m[model.ID] = model
	}
	return m
}()

// Lookup returns the model with the given id.
func Lookup(id string) (Model, bool) {
	m, ok := byID[normalize(id)]
	return m, ok
}

// List returns every registered model sorted by provider, encoding, then id.
func List() []Model {
	out := make([]Model, len(registry))
	copy(out, registry)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		if out[i].Encoding != out[j].Encoding {
			return encodingRank(out[i].Encoding) < encodingRank(out[j].Encoding)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// IsEncoding reports whether id names an encoding family.
func IsEncoding(id string) bool {
	return encodingRank(normalize(id)) < len(Encodings)
}

func encodingRank(name string) int {
	for i, e := range Encodings {
		if e == name {
			return i
		}
	}
	return len(Encodings)
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
