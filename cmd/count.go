package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zhubert/tokenlens/internal/config"
	"github.com/zhubert/tokenlens/internal/encoder"
	"github.com/zhubert/tokenlens/internal/fileinput"
	"github.com/zhubert/tokenlens/internal/models"
	"github.com/zhubert/tokenlens/internal/worker"
)

var (
	countIDs     bool
	countJSON    bool
	countChat    bool
	countNoColor bool
)

var countCmd = &cobra.Command{
	Use:   "count [file|-]",
	Short: "Count tokens without the interface",
	Long: `Tokenizes a file, or standard input when the argument is "-" or missing,
and prints the token count for the selected model. --ids adds the token ids
and --json prints a machine-readable result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCount,
}

func init() {
	countCmd.Flags().BoolVar(&countIDs, "ids", false, "Print token ids")
	countCmd.Flags().BoolVar(&countJSON, "json", false, "Print the result as JSON")
	countCmd.Flags().BoolVar(&countChat, "chat", false, "Treat the input as a role: transcript")
	countCmd.Flags().BoolVar(&countNoColor, "no-color", false, "Never colorize JSON output")
	rootCmd.AddCommand(countCmd)
}

// countOutput is the --json shape.
type countOutput struct {
	Model      string   `json:"model"`
	Encoding   string   `json:"encoding"`
	Count      int      `json:"count"`
	Chars      int      `json:"chars"`
	IsChatMode bool     `json:"isChatMode,omitempty"`
	Messages   int      `json:"messages,omitempty"`
	InputCost  *float64 `json:"inputCost,omitempty"`
	Tokens     []int    `json:"tokens,omitempty"`
	TokenTexts []string `json:"tokenTexts,omitempty"`
}

func runCount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var f fileinput.File
	if len(args) == 0 || args[0] == "-" {
		f, err = fileinput.ReadFrom(cmd.InOrStdin(), "stdin", cfg.MaxFileBytes)
	} else {
		f, err = fileinput.Read(args[0], cfg.MaxFileBytes)
	}
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := countText(ctx, cfg, f.Text, countChat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if countJSON {
		return writeCountJSON(out, f.Text, res, countIDs, !countNoColor && isTerminal(out))
	}
	return writeCountText(out, res, countIDs)
}

// countText tokenizes text on the calling goroutine with the configured
// backend and chat template.
func countText(ctx context.Context, cfg *config.Config, text string, chat bool) (worker.Result, error) {
	loader, err := encoder.LoaderFor(cfg.GetBackend())
	if err != nil {
		return worker.Result{}, err
	}
	tmpl, err := encoder.ParseTemplate(cfg.GetChatTemplate())
	if err != nil {
		return worker.Result{}, err
	}

	req := worker.Request{Seq: 1, Text: text, Model: cfg.GetModel()}
	if chat {
		req.IsChatMode = true
		req.ChatMessages = encoder.ParseTranscript(text)
	}

	cache := encoder.NewCache(cfg.GetBackend(), loader)
	res := worker.Tokenize(ctx, cache, req, worker.Options{
		ChunkSize:    cfg.ChunkThreshold,
		ChatTemplate: tmpl,
	}, nil)
	if res.Err != nil {
		return res, res.Err
	}
	return res, nil
}

func writeCountText(w io.Writer, res worker.Result, ids bool) error {
	label := res.Encoding
	if res.Model != "" && !strings.EqualFold(res.Model, res.Encoding) {
		label = res.Model + ", " + res.Encoding
	}
	noun := "tokens"
	if res.Count == 1 {
		noun = "token"
	}
	if _, err := fmt.Fprintf(w, "%s %s (%s)\n", humanize.Comma(int64(res.Count)), noun, label); err != nil {
		return err
	}
	if !ids || len(res.Tokens) == 0 {
		return nil
	}

	parts := make([]string, len(res.Tokens))
	for i, id := range res.Tokens {
		parts[i] = strconv.Itoa(id)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

func writeCountJSON(w io.Writer, text string, res worker.Result, ids, color bool) error {
	out := countOutput{
		Model:      res.Model,
		Encoding:   res.Encoding,
		Count:      res.Count,
		Chars:      utf8.RuneCountInString(text),
		IsChatMode: res.IsChatMode,
		Messages:   len(res.ChatMessages),
	}
	if r := models.Resolve(res.Model); r.Model != nil && r.Model.InputPrice > 0 {
		cost := r.Model.InputCost(res.Count)
		out.InputCost = &cost
	}
	if ids {
		out.Tokens = res.Tokens
		out.TokenTexts = res.TokenTexts
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	s := string(data)
	if color {
		s = highlightJSON(s)
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// highlightJSON colors JSON for a terminal, returning it unchanged on any
// failure.
func highlightJSON(s string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return s
	}
	return strings.TrimRight(buf.String(), "\n")
}

// isTerminal reports whether w is a character device such as a tty.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
