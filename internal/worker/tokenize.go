package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/errors"
	"github.com/zhubert/tokenlens/internal/models"
)

// Options tune a tokenization run.
type Options struct {
	// ChunkSize is the character count above which input is chunked.
	ChunkSize int
	// ChatTemplate frames chat messages when the encoder has no chat support.
	ChatTemplate encoder.Template
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		ChunkSize:    DefaultChunkSize,
		ChatTemplate: encoder.TemplatePlain,
	}
}

// Tokenize runs one request to completion on the calling goroutine. It never
// panics and never returns a partial result: on failure Result.Err is set and
// Tokens is empty. onProgress, if set, is called after each chunk when the
// input is chunked.
func Tokenize(ctx context.Context, cache *encoder.Cache, req Request, opts Options, onProgress func(Progress)) (res Result) {
	started := time.Now()
	res = Result{
		Seq:          req.Seq,
		Model:        req.Model,
		IsChatMode:   req.IsChatMode,
		ChatMessages: req.ChatMessages,
	}

	resolution := models.Resolve(req.Model)
	res.Encoding = resolution.Encoding

	defer func() {
		if r := recover(); r != nil {
			res.Tokens, res.TokenTexts, res.Count = nil, nil, 0
			res.Err = errors.EncodeFailed(req.Model, fmt.Errorf("encoder panic: %v", r))
		}
		res.Elapsed = time.Since(started)
	}()

	enc, err := cache.Get(resolution.Encoding)
	if err != nil {
		res.Err = err
		return res
	}

	ids, texts, err := encode(ctx, enc, req, opts, onProgress)
	if err != nil {
		res.Err = errors.EncodeFailed(req.Model, err)
		return res
	}

	res.Tokens = ids
	res.TokenTexts = texts
	res.Count = len(ids)
	return res
}

func encode(ctx context.Context, enc encoder.Encoder, req Request, opts Options, onProgress func(Progress)) ([]int, []string, error) {
	if req.IsChatMode {
		if len(req.ChatMessages) == 0 {
			return []int{}, nil, nil
		}
		if ce, ok := enc.(encoder.ChatEncoder); ok {
			ids, err := ce.EncodeChat(req.ChatMessages)
			if err != nil {
				return nil, nil, err
			}
			texts, err := decodeTexts(enc, ids)
			return ids, texts, err
		}
		req.Text = encoder.FormatChat(opts.ChatTemplate, req.ChatMessages)
	}

	if req.Text == "" {
		return []int{}, nil, nil
	}

	chunks := SplitChunks(req.Text, opts.ChunkSize)
	if len(chunks) == 1 {
		return encodeChunk(enc, chunks[0])
	}

	var (
		ids   []int
		texts []string
		// a chunk without texts drops texts for the whole result so the
		// arrays stay parallel
		haveTexts = true
	)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		chunkIDs, chunkTexts, err := encodeChunk(enc, chunk)
		if err != nil {
			return nil, nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		ids = append(ids, chunkIDs...)
		if haveTexts && len(chunkTexts) == len(chunkIDs) {
			texts = append(texts, chunkTexts...)
		} else {
			haveTexts = false
			texts = nil
		}

		if onProgress != nil {
			onProgress(Progress{
				Seq:         req.Seq,
				ChunkIndex:  i + 1,
				TotalChunks: len(chunks),
				Percentage:  float64(i+1) / float64(len(chunks)) * 100,
			})
		}
	}
	return ids, texts, nil
}

func encodeChunk(enc encoder.Encoder, text string) ([]int, []string, error) {
	if te, ok := enc.(encoder.TextEncoder); ok {
		return te.EncodeWithTexts(text)
	}
	ids, err := enc.Encode(text)
	if err != nil {
		return nil, nil, err
	}
	texts, err := decodeTexts(enc, ids)
	return ids, texts, err
}

// decodeTexts decodes each id once. Encoders without per-token decoding give
// nil texts.
func decodeTexts(enc encoder.Encoder, ids []int) ([]string, error) {
	dec, ok := enc.(encoder.TokenDecoder)
	if !ok || len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[int]string)
	texts := make([]string, len(ids))
	for i, id := range ids {
		s, ok := seen[id]
		if !ok {
			var err error
			s, err = dec.DecodeToken(id)
			if err != nil {
				return nil, fmt.Errorf("decode token %d: %w", id, err)
			}
			seen[id] = s
		}
		texts[i] = s
	}
	return texts, nil
}
