package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "moviebot",
	Short: "MovieBot - movie recommendations and facts from a local catalog",
	Long: `MovieBot answers free-text messages. It recommends titles and looks up
movie facts from a TF-IDF index over the IMDb catalog, and chats through a
local Ollama model for everything else.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults to ./config.yaml or ~/.config/moviebot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "extra dotenv file to load")

	rootCmd.AddCommand(chatCmd, serveCmd, askCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
