package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/earentir/remend/internal/config"
	"github.com/earentir/remend/internal/log"
	"github.com/earentir/remend/internal/remend"
	"github.com/earentir/remend/internal/render"
	"github.com/earentir/remend/internal/viewer"
)

// ---------- flags ----------

type startFlags struct {
	configPath  string
	logLevel    string
	noNormalize bool
	style       string
	wrap        int
	baudrate    int
	follow      bool

	cfg *config.Config
}

// load reads the config file, then lets explicitly set flags win.
func (f *startFlags) load(cmd *cobra.Command) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("no-normalize-math") {
		cfg.NormalizeMath = !f.noNormalize
	}
	if flags.Changed("style") {
		cfg.Render.Style = f.style
	}
	if flags.Changed("wrap") {
		cfg.Render.Wrap = f.wrap
	}
	if flags.Changed("baudrate") {
		cfg.Stream.Baudrate = f.baudrate
	}
	if flags.Changed("follow") {
		cfg.Stream.Follow = f.follow
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log.SetLevel(cfg.LogLevel)
	f.cfg = cfg
	return nil
}

// readInput returns the named file, or stdin for no argument or "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isTTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// terminalWidth falls back to 80 when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// ---------- cobra CLI ----------

func newRootCmd() *cobra.Command {
	var flags startFlags

	root := &cobra.Command{
		Use:   "remend [file.md|-]",
		Short: "Normalize LaTeX math delimiters and close math blocks cut off mid-stream",
		Long: "remend rewrites \\( \\) \\[ \\] to $$ outside code spans and appends a closing $$\n" +
			"when a streamed response stops inside a math block. Reads stdin when no file is given.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := remend.Process(raw, flags.cfg.Options()...)
			log.Debugf("processed %d bytes -> %d bytes", len(raw), len(out))
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $REMEND_CONFIG or ~/.config/remend/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.noNormalize, "no-normalize-math", false, "pass text through without math normalization or repair")

	root.AddCommand(newRenderCmd(&flags), newViewCmd(&flags))
	return root
}

func addRenderFlags(cmd *cobra.Command, flags *startFlags) {
	cmd.Flags().StringVar(&flags.style, "style", "auto", "glamour style: auto, dark, light, notty, dracula, pink, or a JSON style file path")
	cmd.Flags().IntVar(&flags.wrap, "wrap", 0, "wrap width (0 = auto to terminal width)")
}

func newRenderCmd(flags *startFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file.md|-]",
		Short: "Process markdown and print it rendered for the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			wrap := flags.cfg.Render.Wrap
			if wrap <= 0 {
				wrap = terminalWidth()
			}
			out, err := render.Markdown(remend.Process(raw, flags.cfg.Options()...), wrap, flags.cfg.Render.Style)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
	addRenderFlags(cmd, flags)
	return cmd
}

func newViewCmd(flags *startFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <file.md>",
		Short: "Stream a markdown file into a terminal pager, repairing math as it arrives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if !isTTY(os.Stdout.Fd()) {
				return errors.New("stdout is not a TTY (refusing to render ANSI output)")
			}
			abs, _ := filepath.Abs(path)

			// file metadata (for header)
			fi, err := os.Stat(path)
			if err != nil {
				return err
			}

			vc := viewer.Config{
				Path:          abs,
				Style:         flags.cfg.Render.Style,
				Wrap:          flags.cfg.Render.Wrap,
				Baudrate:      flags.cfg.Stream.Baudrate,
				NormalizeMath: flags.cfg.NormalizeMath,
			}
			if flags.cfg.Stream.Follow {
				w, err := viewer.Watch(abs)
				if err != nil {
					return err
				}
				defer w.Close()
				vc.Watcher = w
			}

			m := viewer.New(vc, string(b), fi.ModTime(), fi.Size())

			// size to the real terminal BEFORE starting Bubble Tea
			w, h := 80, 24
			if ww, hh, err := term.GetSize(int(os.Stdout.Fd())); err == nil && ww > 0 && hh > 0 {
				w, h = ww, hh
			}
			m.Resize(w, h)

			prog := tea.NewProgram(m, tea.WithAltScreen())
			_, err = prog.Run()
			return err
		},
	}
	addRenderFlags(cmd, flags)
	cmd.Flags().IntVar(&flags.baudrate, "baudrate", 9600, "modem baud rate (bits/sec), e.g., 1200, 9600, 115200; 0 shows everything at once")
	cmd.Flags().BoolVar(&flags.follow, "follow", false, "reload and keep streaming when the file grows")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
