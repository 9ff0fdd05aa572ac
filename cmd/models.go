package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/zhubert/tokenlens/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models and encodings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeModels(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func writeModels(w io.Writer) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("MODEL", "PROVIDER", "ENCODING", "CONTEXT", "INPUT $/M", "OUTPUT $/M")
	for _, m := range models.List() {
		t.Row(
			m.ID,
			m.Provider,
			m.Encoding,
			humanize.Comma(int64(m.ContextWindow)),
			formatPrice(m.InputPrice),
			formatPrice(m.OutputPrice),
		)
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nEncodings: %s\n", strings.Join(models.Encodings, ", "))
	return err
}

func formatPrice(usd float64) string {
	if usd == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", usd)
}
