package encoder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// tiktoken-go keeps its BPE loader in a package variable, so it is set once
// per process.
var offlineLoaderOnce sync.Once

// TiktokenLoader loads encodings with pkoukk/tiktoken-go. When offline is
// true the embedded BPE ranks are used instead of downloading them.
func TiktokenLoader(offline bool) Loader {
	return func(encoding string) (Encoder, error) {
		if offline {
			offlineLoaderOnce.Do(func() {
				tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
			})
		}
		enc, err := tiktoken.GetEncoding(encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encoding, err)
		}
		return &tiktokenEncoder{enc: enc, name: encoding}, nil
	}
}

type tiktokenEncoder struct {
	enc  *tiktoken.Tiktoken
	name string
}

func (t *tiktokenEncoder) Name() string {
	return t.name
}

// Encode treats special-token text as ordinary text.
func (t *tiktokenEncoder) Encode(text string) ([]int, error) {
	return t.enc.Encode(text, nil, nil), nil
}

// DecodeToken decodes one id. Tokens holding part of a multi-byte rune decode
// to U+FFFD, matching how a UTF-8 text decoder would show them.
func (t *tiktokenEncoder) DecodeToken(id int) (string, error) {
	return strings.ToValidUTF8(t.enc.Decode([]int{id}), "�"), nil
}
