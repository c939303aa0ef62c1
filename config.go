package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is a read-once snapshot of the effective API settings. It is
// assembled after flag parsing and never mutated, so every component sees
// the same values for the whole run.
type Config struct {
	Token     string
	BaseURL   string
	Model     string
	MaxTokens int // completion budget sent to the API
}

// loadConfig snapshots the client settings from the merged
// flag/env/file/default state.
func loadConfig() *Config {
	return &Config{
		Token:     viper.GetString("openai_token"),
		BaseURL:   viper.GetString("openai_base_url"),
		Model:     viper.GetString("openai_model"),
		MaxTokens: viper.GetInt("openai_max_tokens"),
	}
}

// filterConfig assembles the collection filters from the merged settings.
func filterConfig() FilterConfig {
	return FilterConfig{
		Extensions:    viper.GetStringSlice("extensions"),
		ExcludePaths:  viper.GetStringSlice("exclude_paths"),
		Recursive:     !viper.GetBool("no_recursive"),
		ExcludeHidden: !viper.GetBool("hidden"),
		HiddenDirs:    viper.GetBool("hidden_dirs"),
		NameWhitelist: viper.GetString("name_whitelist"),
		NameBlacklist: viper.GetString("name_blacklist"),
		PathWhitelist: viper.GetString("path_whitelist"),
		PathBlacklist: viper.GetString("path_blacklist"),
		UseGitignore:  !viper.GetBool("no_ignore"),
		MaxFileSize:   viper.GetInt64("max_size"),
	}
}

// budgetConfig assembles the tokenizer and budget settings. The tokenizer
// model falls back to the completion model, so fine-tuned deployments can
// pin an encoding with tokenizer_model.
func budgetConfig() BudgetConfig {
	model := viper.GetString("tokenizer_model")
	if model == "" {
		model = viper.GetString("openai_model")
	}
	return BudgetConfig{
		MaxTokens:     viper.GetInt("context_tokens"),
		Model:         model,
		TokenizerFile: viper.GetString("tokenizer_file"),
		SkipEmpty:     viper.GetBool("skip_empty"),
	}
}

// configDir resolves the settings directory, honoring OPENAI_HELPER_HOME for
// tests and portable setups.
func configDir() string {
	if dir := os.Getenv("OPENAI_HELPER_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	return filepath.Join(home, ".config", "openai-helper")
}

// configFilePath is where saveConfig writes, regardless of where the loaded
// config came from.
func configFilePath() string {
	return filepath.Join(configDir(), "config.toml")
}

// initConfig reads in the config file and matching environment variables.
func initConfig() {
	viper.AddConfigPath(configDir())
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("OPENAI_HELPER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// The token and base URL also honor the conventional OpenAI variables.
	viper.BindEnv("openai_token", "OPENAI_HELPER_OPENAI_TOKEN", "OPENAI_API_KEY")
	viper.BindEnv("openai_base_url", "OPENAI_HELPER_OPENAI_BASE_URL", "OPENAI_BASE_URL")

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", zap.String("path", viper.ConfigFileUsed()))
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

// saveConfig persists the current settings, creating the config directory on
// first save.
func saveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", dir, err)
	}
	path := configFilePath()
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config file %s: %w", path, err)
	}
	logger.Debug("config saved", zap.String("path", path))
	return nil
}

// maskToken keeps just enough of a secret to recognize it.
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and persist settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Run: func(cmd *cobra.Command, args []string) {
		keys := viper.AllKeys()
		sort.Strings(keys)
		for _, key := range keys {
			// Presets have their own listing.
			if strings.HasPrefix(key, "presets.") {
				continue
			}
			value := viper.Get(key)
			if key == "openai_token" {
				value = maskToken(viper.GetString(key))
			}
			fmt.Printf("%s = %v\n", key, value)
		}
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist one setting to the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set(args[0], args[1])
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Printf("Saved %s to %s\n", args[0], configFilePath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(configFilePath())
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
}
