package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	terrors "github.com/vango-dev/tether/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔╦╗┌─┐┌┬┐┬ ┬┌─┐┬─┐
   ║ ├┤  │ ├─┤├┤ ├┬┘
   ╩ └─┘ ┴ ┴ ┴└─┘┴└─
`

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	markupStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var coded *terrors.Error
		if terrors.As(err, &coded) {
			terrors.Fprint(os.Stderr, coded)
		} else {
			errorMsg("%s", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tether",
		Short: "Reactive state and tree reconciliation for Go",
		Long: `Tether keeps a host tree in sync with reactive state.

Components declare data and a render function. Writes to that data
queue the components that read it, and a batched flush re-renders
them and patches only what changed into the host tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringP("dir", "C", ".", "Directory containing tether.json or tether.yaml")

	rootCmd.AddCommand(
		demoCmd(),
		benchCmd(),
		configCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(titleStyle.Render(banner))
	fmt.Println()
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("%s %s\n", warnStyle.Render("⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("✗"), fmt.Sprintf(format, args...))
}
