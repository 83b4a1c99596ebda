package config

import (
	"fmt"
	"os"

	"github.com/meysamhadeli/depscope/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Version    string            `mapstructure:"version"`
	Theme      string            `mapstructure:"theme"`
	MaxDepth   int               `mapstructure:"max_depth"`
	Workers    int               `mapstructure:"workers"`
	Resolution *ResolutionConfig `mapstructure:"resolution"`
}

// ResolutionConfig holds the import resolution settings, typically derived
// from the project's tsconfig/jsconfig paths section.
type ResolutionConfig struct {
	BaseDir    string              `mapstructure:"base_dir"`
	Aliases    map[string][]string `mapstructure:"aliases"`
	Extensions []string            `mapstructure:"extensions"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:  "0.3.1",
	Theme:    "dracula",
	MaxDepth: 3,
	Workers:  8,
	Resolution: &ResolutionConfig{
		BaseDir:    "",
		Aliases:    map[string][]string{},
		Extensions: []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"},
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("depscope-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			// If YAML fails, try JSON before falling back to defaults
			viper.SetConfigType("json")
			_ = viper.ReadInConfig()
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	if config.Resolution == nil {
		config.Resolution = DefaultConfig.Resolution
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("max_depth", DefaultConfig.MaxDepth)
	viper.SetDefault("workers", DefaultConfig.Workers)
	viper.SetDefault("resolution.base_dir", DefaultConfig.Resolution.BaseDir)
	viper.SetDefault("resolution.aliases", DefaultConfig.Resolution.Aliases)
	viper.SetDefault("resolution.extensions", DefaultConfig.Resolution.Extensions)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "THEME")
	_ = viper.BindEnv("max_depth", "MAX_DEPTH")
	_ = viper.BindEnv("workers", "WORKERS")
	_ = viper.BindEnv("resolution.base_dir", "BASE_DIR")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max_depth"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("resolution.base_dir", rootCmd.PersistentFlags().Lookup("base_dir"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set the syntax highlighting theme for report output. (e.g., 'dracula', 'light', 'dark')")
	rootCmd.PersistentFlags().Int("max_depth", DefaultConfig.MaxDepth, "Maximum traversal depth for impact queries. Negative means unbounded.")
	rootCmd.PersistentFlags().Int("workers", DefaultConfig.Workers, "Number of concurrent workers for parsing and resolving files.")
	rootCmd.PersistentFlags().String("base_dir", "", "Base directory alias replacement templates resolve against. Defaults to the scanned root.")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}
