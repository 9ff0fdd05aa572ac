package cmd

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/tokenlens/internal/app"
	"github.com/zhubert/tokenlens/internal/config"
	"github.com/zhubert/tokenlens/internal/logger"
)

var (
	configFile            string
	inputFile             string
	watchFile             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "tokenlens [file]",
	Short: "See how text splits into tokens",
	Long: `tokenlens shows how a model's tokenizer splits text. Type or paste into
the editor, or open a file, and every token is drawn as a colored chip with
its id, alongside the count, context usage and input cost for the model.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default ~/.tokenlens/config.yaml)")
	pf.StringP("model", "m", config.DefaultModel, "Model id or encoding name")
	pf.String("backend", config.DefaultBackend, "Encoder backend: tiktoken or codec")
	pf.String("chat-template", config.DefaultChatTemplate, "Chat framing: plain or chatml")
	pf.Int("chunk-size", config.DefaultChunkThreshold, "Characters above which input is encoded in chunks")
	pf.Int64("max-file-bytes", config.DefaultMaxFileBytes, "Largest file that will be loaded")
	pf.Bool("debug", false, "Enable debug logging")
	pf.String("log-file", "", "Log file (default "+logger.DefaultLogPath+")")

	f := rootCmd.Flags()
	f.StringVarP(&inputFile, "file", "f", "", "Open a file at startup")
	f.BoolVarP(&watchFile, "watch", "w", false, "Reload the file when it changes on disk")
	f.String("view", config.DefaultView, "Token view: inline, grid or list")
	f.String("theme", config.DefaultTheme, "Color theme")
	f.Duration("debounce", config.DefaultDebounce, "Delay after typing before tokenizing")
	f.Bool("notify", false, "Desktop notification when a long tokenization finishes")
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("tokenlens %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("tokenlens %s\n", version)
}

// loadConfig reads the config with this command's flags on top, then sets
// up logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{File: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if cfg.LogFile != "" {
		if err := logger.Init(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	logger.SetDebug(cfg.Debug)
	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Ensure logger is closed on exit
	defer logger.Close()

	path := inputFile
	if len(args) == 1 {
		path = args[0]
	}

	m := app.New(cfg, app.WithVersion(version), app.WithWatch(watchFile))
	defer m.Close()
	if path != "" {
		if err := m.LoadFile(path); err != nil {
			return err
		}
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
