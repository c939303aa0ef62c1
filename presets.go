package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Preset is a named bundle of filter, budget and model settings. Zero fields
// are "unset" and leave the current value alone when the preset is applied.
type Preset struct {
	Extensions    []string `mapstructure:"extensions"`
	ExcludePaths  []string `mapstructure:"exclude_paths"`
	NameWhitelist string   `mapstructure:"name_whitelist"`
	NameBlacklist string   `mapstructure:"name_blacklist"`
	PathWhitelist string   `mapstructure:"path_whitelist"`
	PathBlacklist string   `mapstructure:"path_blacklist"`
	ContextTokens int      `mapstructure:"context_tokens"`
	Model         string   `mapstructure:"model"`
}

// builtinPresets ship with the tool and cannot be deleted.
var builtinPresets = map[string]Preset{
	"python": {
		NameWhitelist: `\.py$|\.toml$|requirements\.txt$|requirements(\.|-)\.txt$`,
		NameBlacklist: `__\w+__\.py$`,
		PathBlacklist: `/__\w+__/|\.venv/|venv/`,
	},
}

// loadPreset finds a preset by name, letting a saved preset shadow a
// built-in one.
func loadPreset(name string) (Preset, error) {
	if viper.IsSet("presets." + name) {
		var p Preset
		if err := viper.UnmarshalKey("presets."+name, &p); err != nil {
			return Preset{}, fmt.Errorf("invalid preset %q: %w", name, err)
		}
		return p, nil
	}
	if p, ok := builtinPresets[name]; ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("unknown preset %q", name)
}

// applyPreset overlays non-zero preset fields onto settings the user did not
// pin with an explicit flag. Explicit flags always win over the preset.
func applyPreset(p Preset) {
	flags := rootCmd.PersistentFlags()
	set := func(flag, key string, value interface{}) {
		if !flags.Changed(flag) {
			viper.Set(key, value)
		}
	}
	if len(p.Extensions) > 0 {
		set("ext", "extensions", p.Extensions)
	}
	if len(p.ExcludePaths) > 0 {
		set("exclude", "exclude_paths", p.ExcludePaths)
	}
	if p.NameWhitelist != "" {
		set("name-whitelist", "name_whitelist", p.NameWhitelist)
	}
	if p.NameBlacklist != "" {
		set("name-blacklist", "name_blacklist", p.NameBlacklist)
	}
	if p.PathWhitelist != "" {
		set("path-whitelist", "path_whitelist", p.PathWhitelist)
	}
	if p.PathBlacklist != "" {
		set("path-blacklist", "path_blacklist", p.PathBlacklist)
	}
	if p.ContextTokens > 0 {
		set("context-tokens", "context_tokens", p.ContextTokens)
	}
	if p.Model != "" {
		set("model", "openai_model", p.Model)
	}
}

// currentPreset captures the effective filter/budget/model settings.
func currentPreset() Preset {
	return Preset{
		Extensions:    viper.GetStringSlice("extensions"),
		ExcludePaths:  viper.GetStringSlice("exclude_paths"),
		NameWhitelist: viper.GetString("name_whitelist"),
		NameBlacklist: viper.GetString("name_blacklist"),
		PathWhitelist: viper.GetString("path_whitelist"),
		PathBlacklist: viper.GetString("path_blacklist"),
		ContextTokens: viper.GetInt("context_tokens"),
		Model:         viper.GetString("openai_model"),
	}
}

// presetNames merges built-in and saved preset names, sorted.
func presetNames() []string {
	seen := make(map[string]bool)
	for name := range builtinPresets {
		seen[name] = true
	}
	for name := range viper.GetStringMap("presets") {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage named filter presets",
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available presets",
	Run: func(cmd *cobra.Command, args []string) {
		saved := viper.GetStringMap("presets")
		for _, name := range presetNames() {
			if _, ok := saved[name]; ok {
				fmt.Println(name)
			} else {
				fmt.Printf("%s (built-in)\n", name)
			}
		}
	},
}

var presetsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print one preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPreset(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("extensions = %v\n", p.Extensions)
		fmt.Printf("exclude_paths = %v\n", p.ExcludePaths)
		fmt.Printf("name_whitelist = %q\n", p.NameWhitelist)
		fmt.Printf("name_blacklist = %q\n", p.NameBlacklist)
		fmt.Printf("path_whitelist = %q\n", p.PathWhitelist)
		fmt.Printf("path_blacklist = %q\n", p.PathBlacklist)
		fmt.Printf("context_tokens = %d\n", p.ContextTokens)
		fmt.Printf("model = %q\n", p.Model)
		return nil
	},
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save NAME",
	Short: "Save the current filters as a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		p := currentPreset()
		viper.Set("presets."+name, map[string]interface{}{
			"extensions":     p.Extensions,
			"exclude_paths":  p.ExcludePaths,
			"name_whitelist": p.NameWhitelist,
			"name_blacklist": p.NameBlacklist,
			"path_whitelist": p.PathWhitelist,
			"path_blacklist": p.PathBlacklist,
			"context_tokens": p.ContextTokens,
			"model":          p.Model,
		})
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Printf("Preset %q saved\n", name)
		return nil
	},
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		saved := viper.GetStringMap("presets")
		if _, ok := saved[name]; !ok {
			if _, builtin := builtinPresets[name]; builtin {
				return fmt.Errorf("preset %q is built-in and cannot be deleted", name)
			}
			return fmt.Errorf("unknown preset %q", name)
		}
		delete(saved, name)
		viper.Set("presets", saved)
		if err := saveConfig(); err != nil {
			return err
		}
		fmt.Printf("Preset %q deleted\n", name)
		return nil
	},
}

func init() {
	presetsCmd.AddCommand(presetsListCmd, presetsShowCmd, presetsSaveCmd, presetsDeleteCmd)
}
