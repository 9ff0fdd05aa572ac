package encoder

import (
	"fmt"
	"strings"

	"github.com/tiktoken-go/tokenizer"
)

// CodecLoader loads encodings with tiktoken-go/tokenizer, whose vocabularies
// are compiled into the binary.
func CodecLoader() Loader {
	return func(encoding string) (Encoder, error) {
		codec, err := tokenizer.Get(tokenizer.Encoding(encoding))
		if err != nil {
			return nil, fmt.Errorf("failed to load codec %q: %w", encoding, err)
		}
		return &codecEncoder{codec: codec, name: encoding}, nil
	}
}

type codecEncoder struct {
	codec tokenizer.Codec
	name  string
}

func (c *codecEncoder) Name() string {
	return c.name
}

func (c *codecEncoder) Encode(text string) ([]int, error) {
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return nil, err
	}
	return toInts(ids), nil
}

// EncodeWithTexts uses the per-token strings the codec already produces.
func (c *codecEncoder) EncodeWithTexts(text string) ([]int, []string, error) {
	ids, texts, err := c.codec.Encode(text)
	if err != nil {
		return nil, nil, err
	}
	if len(texts) != len(ids) {
		return toInts(ids), nil, nil
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = strings.ToValidUTF8(s, "�")
	}
	return toInts(ids), out, nil
}

func (c *codecEncoder) DecodeToken(id int) (string, error) {
	if id < 0 {
		return "", fmt.Errorf("invalid token id %d", id)
	}
	s, err := c.codec.Decode([]uint{uint(id)})
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(s, "�"), nil
}

func toInts(ids []uint) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
