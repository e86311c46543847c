package commands

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"moviebot/internal/tui"
)

var chatLogFile string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat window (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", defaultChatLog(), "log destination while the TUI owns the terminal")
}

func defaultChatLog() string {
	return filepath.Join(os.TempDir(), "moviebot.log")
}

func runChat(cmd *cobra.Command) error {
	logFile := chatLogFile
	if logFile == "" {
		logFile = defaultChatLog()
	}
	ctx := cmd.Context()
	a, err := buildApp(ctx, logFile)
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.New(ctx, a.bot, banner(a))
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
