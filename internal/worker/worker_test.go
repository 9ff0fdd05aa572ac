package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/errors"
)

func tiktokenCache() *encoder.Cache {
	return encoder.NewCache(encoder.BackendTiktoken, encoder.TiktokenLoader(true))
}

// runeEncoder emits one id per rune and can decode them back.
type runeEncoder struct{}

func (runeEncoder) Name() string { return "runes" }

func (runeEncoder) Encode(text string) ([]int, error) {
	var ids []int
	for _, r := range text {
		ids = append(ids, int(r))
	}
	return ids, nil
}

func (runeEncoder) DecodeToken(id int) (string, error) { return string(rune(id)), nil }

// idsOnly cannot decode single tokens.
type idsOnly struct{}

func (idsOnly) Name() string                      { return "ids" }
func (idsOnly) Encode(text string) ([]int, error) { return []int{len(text)}, nil }

type panicky struct{}

func (panicky) Name() string                      { return "panicky" }
func (panicky) Encode(text string) ([]int, error) { panic("bad input") }

type failing struct{}

func (failing) Name() string                      { return "failing" }
func (failing) Encode(text string) ([]int, error) { return nil, fmt.Errorf("unsupported") }

type chatAware struct{ runeEncoder }

func (chatAware) EncodeChat(msgs []encoder.Message) ([]int, error) {
	return []int{100000 + len(msgs)}, nil
}

func stubCache(enc encoder.Encoder) *encoder.Cache {
	return encoder.NewCache("stub", func(string) (encoder.Encoder, error) { return enc, nil })
}

func collect(t *testing.T, w *Worker, seq uint64) ([]Progress, Result) {
	t.Helper()
	var progress []Progress
	timeout := time.After(30 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "events closed before result %d", seq)
			if ev.Progress != nil && ev.Progress.Seq == seq {
				progress = append(progress, *ev.Progress)
			}
			if ev.Result != nil && ev.Result.Seq == seq {
				return progress, *ev.Result
			}
		case <-timeout:
			t.Fatalf("timed out waiting for result %d", seq)
		}
	}
}

func TestWorker_EncodesAndIsIdempotent(t *testing.T) {
	w := New(tiktokenCache())
	defer w.Close()

	req := Request{Seq: 1, Text: "GPT-4o is great.", Model: "gpt-4o"}
	require.NoError(t, w.Submit(req))
	_, first := collect(t, w, 1)

	req.Seq = 2
	require.NoError(t, w.Submit(req))
	_, second := collect(t, w, 2)

	require.NoError(t, first.Err)
	assert.NotEmpty(t, first.Tokens)
	assert.Equal(t, "o200k_base", first.Encoding)
	assert.Equal(t, len(first.Tokens), first.Count)
	assert.Len(t, first.TokenTexts, len(first.Tokens))
	assert.Equal(t, "GPT-4o is great.", strings.Join(first.TokenTexts, ""))
	assert.Equal(t, first.Tokens, second.Tokens)
	assert.Equal(t, first.TokenTexts, second.TokenTexts)
}

func TestWorker_ChatModeWithNoMessagesIsEmpty(t *testing.T) {
	w := New(tiktokenCache())
	defer w.Close()

	require.NoError(t, w.Submit(Request{
		Seq:          1,
		Model:        "gpt-4o",
		IsChatMode:   true,
		ChatMessages: []encoder.Message{{Role: "system", Content: "Hi"}},
	}))
	_, withMsg := collect(t, w, 1)
	require.NoError(t, withMsg.Err)
	assert.NotEmpty(t, withMsg.Tokens)

	require.NoError(t, w.Submit(Request{Seq: 2, Model: "gpt-4o", IsChatMode: true}))
	_, cleared := collect(t, w, 2)
	require.NoError(t, cleared.Err)
	assert.Empty(t, cleared.Tokens)
	assert.Equal(t, 0, cleared.Count)
	assert.True(t, cleared.IsChatMode)
}

func TestWorker_ChunkedMatchesUnchunked(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 556)[:25000]
	require.Equal(t, 25000, len(text))

	w := New(tiktokenCache())
	defer w.Close()

	require.NoError(t, w.Submit(Request{Seq: 7, Text: text, Model: "gpt-4o"}))
	progress, res := collect(t, w, 7)
	require.NoError(t, res.Err)

	require.NotEmpty(t, progress)
	assert.Greater(t, progress[0].TotalChunks, 1)
	for i, p := range progress {
		assert.Equal(t, i+1, p.ChunkIndex)
		assert.InDelta(t, float64(i+1)/float64(p.TotalChunks)*100, p.Percentage, 1e-9)
	}

	whole := Tokenize(context.Background(), tiktokenCache(), Request{Text: text, Model: "gpt-4o"},
		Options{ChunkSize: len(text) + 1}, nil)
	require.NoError(t, whole.Err)
	assert.Equal(t, whole.Tokens, res.Tokens)
	assert.Equal(t, whole.TokenTexts, res.TokenTexts)
}

func TestWorker_UnsplittableInputIsOneChunk(t *testing.T) {
	text := strings.Repeat("x", DefaultChunkSize+5000)
	require.Len(t, SplitChunks(text, DefaultChunkSize), 1)

	w := New(stubCache(runeEncoder{}))
	defer w.Close()

	require.NoError(t, w.Submit(Request{Seq: 3, Text: text}))
	progress, res := collect(t, w, 3)
	require.NoError(t, res.Err)
	assert.Empty(t, progress)
	assert.Equal(t, len(text), res.Count)
	assert.Equal(t, text, strings.Join(res.TokenTexts, ""))
}

func TestWorker_FIFO(t *testing.T) {
	w := New(stubCache(runeEncoder{}))
	defer w.Close()

	for seq := uint64(1); seq <= 5; seq++ {
		require.NoError(t, w.Submit(Request{Seq: seq, Text: strings.Repeat("x", int(seq))}))
	}
	for seq := uint64(1); seq <= 5; seq++ {
		ev := <-w.Events()
		require.NotNil(t, ev.Result)
		assert.Equal(t, seq, ev.Result.Seq)
		assert.Equal(t, int(seq), ev.Result.Count)
	}
}

func TestWorker_SurvivesEncoderPanic(t *testing.T) {
	w := New(stubCache(panicky{}))
	defer w.Close()

	require.NoError(t, w.Submit(Request{Seq: 1, Text: "boom"}))
	_, res := collect(t, w, 1)
	require.Error(t, res.Err)
	assert.Equal(t, errors.KindEncoding, errors.GetKind(res.Err))
	assert.Empty(t, res.Tokens)

	require.NoError(t, w.Submit(Request{Seq: 2, Text: "again"}))
	_, res = collect(t, w, 2)
	assert.Error(t, res.Err)
}

func TestWorker_SubmitAfterClose(t *testing.T) {
	w := New(stubCache(runeEncoder{}))
	w.Close()
	w.Close()

	err := w.Submit(Request{Seq: 1, Text: "late"})
	require.Error(t, err)
	assert.Equal(t, errors.KindWorker, errors.GetKind(err))

	_, ok := <-w.Events()
	assert.False(t, ok, "events should be closed")
}

func TestTokenize_EncoderCapabilities(t *testing.T) {
	ctx := context.Background()

	res := Tokenize(ctx, stubCache(idsOnly{}), Request{Text: "abc"}, DefaultOptions(), nil)
	require.NoError(t, res.Err)
	assert.Equal(t, []int{3}, res.Tokens)
	assert.Empty(t, res.TokenTexts, "no per-token decode means no texts")

	res = Tokenize(ctx, stubCache(failing{}), Request{Text: "abc", Model: "gpt-4"}, DefaultOptions(), nil)
	require.Error(t, res.Err)
	assert.Empty(t, res.Tokens)
	assert.Equal(t, "cl100k_base", res.Encoding)

	res = Tokenize(ctx, stubCache(chatAware{}), Request{
		IsChatMode:   true,
		ChatMessages: []encoder.Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}},
	}, DefaultOptions(), nil)
	require.NoError(t, res.Err)
	assert.Equal(t, []int{100002}, res.Tokens)
}

func TestTokenize_PlainChatTemplate(t *testing.T) {
	res := Tokenize(context.Background(), stubCache(runeEncoder{}), Request{
		IsChatMode:   true,
		ChatMessages: []encoder.Message{{Role: "system", Content: "Hi"}},
	}, DefaultOptions(), nil)
	require.NoError(t, res.Err)
	assert.Equal(t, "[system]: Hi", strings.Join(res.TokenTexts, ""))
}

func TestTokenize_LoadFailure(t *testing.T) {
	cache := encoder.NewCache("stub", func(string) (encoder.Encoder, error) {
		return nil, fmt.Errorf("no vocab")
	})
	res := Tokenize(context.Background(), cache, Request{Text: "x", Model: "mystery"}, DefaultOptions(), nil)
	require.Error(t, res.Err)
	assert.Equal(t, errors.KindEncoding, errors.GetKind(res.Err))
	assert.Equal(t, "cl100k_base", res.Encoding)
}

func TestTokenize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text := strings.Repeat("word ", 100)
	res := Tokenize(ctx, stubCache(runeEncoder{}), Request{Text: text}, Options{ChunkSize: 10}, nil)
	assert.Error(t, res.Err)
	assert.Empty(t, res.Tokens)
}
