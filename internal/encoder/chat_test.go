package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatChat(t *testing.T) {
	msgs := []Message{
		{Role: "system", Content: "Be brief."},
		{Role: "user", Content: "Hi"},
	}

	tests := []struct {
		name string
		tmpl Template
		want string
	}{
		{"plain", TemplatePlain, "[system]: Be brief.\n\n[user]: Hi"},
		{"chatml", TemplateChatML, "<|im_start|>system\nBe brief.<|im_end|>\n<|im_start|>user\nHi<|im_end|>\n<|im_start|>assistant\n"},
		{"unset falls back to plain", "", "[system]: Be brief.\n\n[user]: Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatChat(tt.tmpl, msgs))
		})
	}
}

func TestFormatChat_NoMessages(t *testing.T) {
	for _, tmpl := range Templates {
		assert.Empty(t, FormatChat(tmpl, nil), string(tmpl))
	}
}

func TestParseTemplate(t *testing.T) {
	got, err := ParseTemplate(" ChatML ")
	require.NoError(t, err)
	assert.Equal(t, TemplateChatML, got)

	got, err = ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, TemplatePlain, got)

	_, err = ParseTemplate("llama")
	assert.Error(t, err)
}

func TestParseTranscript(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Message
	}{
		{"empty", "", nil},
		{"blank lines only", "\n\n  \n", nil},
		{
			"roles",
			"System: Be brief.\nuser: Hi\nthere\nassistant: Hello",
			[]Message{
				{Role: "system", Content: "Be brief."},
				{Role: "user", Content: "Hi\nthere"},
				{Role: "assistant", Content: "Hello"},
			},
		},
		{
			"untagged prefix is user",
			"just text\nsystem: rules",
			[]Message{
				{Role: "user", Content: "just text"},
				{Role: "system", Content: "rules"},
			},
		},
		{
			"unknown role is content",
			"user: see note: this\nnote: not a role",
			[]Message{{Role: "user", Content: "see note: this\nnote: not a role"}},
		},
		{"bare role", "system:", []Message{{Role: "system", Content: ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTranscript(tt.text))
		})
	}
}
