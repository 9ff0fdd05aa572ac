package clipboard

import (
	"fmt"
	"testing"

	"github.com/zhubert/tokenlens/internal/errors"
)

func captureWrites(t *testing.T, fail error) *[]string {
	t.Helper()
	var got []string
	orig := write
	write = func(text string) error {
		if fail != nil {
			return fail
		}
		got = append(got, text)
		return nil
	}
	t.Cleanup(func() { write = orig })
	return &got
}

func TestFormatIDs(t *testing.T) {
	tests := []struct {
		ids  []int
		want string
	}{
		{nil, "[]"},
		{[]int{42}, "[42]"},
		{[]int{9906, 1917, 0}, "[9906, 1917, 0]"},
	}
	for _, tt := range tests {
		if got := FormatIDs(tt.ids); got != tt.want {
			t.Errorf("FormatIDs(%v) = %q, want %q", tt.ids, got, tt.want)
		}
	}
}

func TestFormatTexts(t *testing.T) {
	got := FormatTexts([]string{"Hello", " world", "\n"})
	want := "\"Hello\"\n\" world\"\n\"\\n\""
	if got != want {
		t.Errorf("FormatTexts = %q, want %q", got, want)
	}
}

func TestCopyIDs(t *testing.T) {
	writes := captureWrites(t, nil)
	n, err := CopyIDs([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("CopyIDs error = %v", err)
	}
	if n != 3 || len(*writes) != 1 || (*writes)[0] != "[1, 2, 3]" {
		t.Errorf("n=%d writes=%q", n, *writes)
	}
}

func TestCopyTexts_Failure(t *testing.T) {
	captureWrites(t, errors.ClipboardUnavailable(fmt.Errorf("no display")))
	_, err := CopyTexts([]string{"a"})
	if !errors.Is(err, errors.KindClipboard) {
		t.Errorf("err = %v, want clipboard kind", err)
	}
}
