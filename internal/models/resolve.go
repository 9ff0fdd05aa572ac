package models

import "strings"

// Kind classifies a model-or-encoding identifier.
type Kind int

const (
	KindUnknown Kind = iota
	KindEncoding
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindEncoding:
		return "encoding"
	case KindModel:
		return "model"
	default:
		return "unknown"
	}
}

// Resolution is the deterministic interpretation of an identifier.
type Resolution struct {
	Input    string
	Kind     Kind
	Encoding string
	// Model is set only when Kind is KindModel.
	Model *Model
}

// Resolve classifies id and picks its encoding. Encoding names win over model
// names, exact model ids win over snapshot prefixes, and anything else falls
// back to DefaultEncoding with KindUnknown.
func Resolve(id string) Resolution {
	key := normalize(id)
	r := Resolution{Input: id}

	if IsEncoding(key) {
		r.Kind = KindEncoding
		r.Encoding = key
		return r
	}

	if m, ok := byID[key]; ok {
		r.Kind = KindModel
		r.Encoding = m.Encoding
		r.Model = &m
		return r
	}

	for _, p := range prefixes {
		if strings.HasPrefix(key, p.prefix) {
			m := byID[p.id]
			r.Kind = KindModel
			r.Encoding = m.Encoding
			r.Model = &m
			return r
		}
	}

	r.Kind = KindUnknown
	r.Encoding = DefaultEncoding
	return r
}

// Label is a short human description, e.g. "gpt-4o (o200k_base)".
func (r Resolution) Label() string {
	switch r.Kind {
	case KindModel:
		return r.Model.ID + " (" + r.Encoding + ")"
	case KindEncoding:
		return r.Encoding
	default:
		if strings.TrimSpace(r.Input) == "" {
			return r.Encoding
		}
		return r.Input + " (unknown, using " + r.Encoding + ")"
	}
}
