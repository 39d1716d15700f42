package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Global flag values, resolvable through GROUPCHECK_* env vars as well.
var (
	flagManifest string
	flagType     string
	flagJSON     bool
	flagDebug    bool
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

var rootCmd = &cobra.Command{
	Use:           "groupcheck",
	Short:         "Groupcheck reports field classification for component group structs",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("debug") {
			log = log.Level(zerolog.DebugLevel)
		} else {
			log = log.Level(zerolog.InfoLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "dump scan internals")
	scanCmd.Flags().StringVar(&flagManifest, "manifest", "", "groupcheck.toml manifest listing files to scan")
	scanCmd.Flags().StringVar(&flagType, "type", "", "only report the struct with this name")
	scanCmd.Flags().BoolVar(&flagJSON, "json", false, "output as JSON")

	viper.SetEnvPrefix("GROUPCHECK")
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))
	cobra.CheckErr(viper.BindPFlag("manifest", scanCmd.Flags().Lookup("manifest")))
	cobra.CheckErr(viper.BindPFlag("type", scanCmd.Flags().Lookup("type")))
	cobra.CheckErr(viper.BindPFlag("json", scanCmd.Flags().Lookup("json")))

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("groupcheck v0.1.0")
	},
}
