package cmd

import (
	"fmt"
	"os"

	"formify.app/configs"
	"formify.app/configs/configslog"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "formify",
	Short: "Form and survey builder",
	Long: `Formify lets users build form templates, fill them in and read the aggregated answers.

Configuration comes from .env, config/config.yaml and FORMIFY_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.Load(configDir); err != nil {
			return err
		}
		return configslog.InitLogger(configs.Conf().Logging.LoggerOptions())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		configslog.SyncLogger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "Directory holding config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
