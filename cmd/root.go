package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mealplan",
	Short: "Meal recommendation service for the GT North Avenue dining hall",
	Long: `mealplan serves personalized dining hall meal recommendations: it pulls
the Nutrislice menu feed, estimates nutrition through Gemini with a
persistent cache, filters and ranks the menu per user, and composes
goal-aware meal and full-day plans.`,
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string")
	rootCmd.PersistentFlags().Bool("demo-mode", false, "Serve generated menus instead of the live feed")

	viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("demo_mode", rootCmd.PersistentFlags().Lookup("demo-mode"))
}

func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
