package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgoulah/wattcast/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings in config.yaml",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting and save the config file",
	Long:  fmt.Sprintf("Changes one top-level setting. Keys: %s.", strings.Join(config.Keys, ", ")),
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configSetCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("✓ Set %s = %s in %s\n", args[0], args[1], getConfigPath())
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Printf("Config file:      %s\n", getConfigPath())
	fmt.Printf("data_path:        %s\n", getDataPath(cfg))
	fmt.Printf("model_path:       %s\n", cfg.GetModelPath())
	fmt.Printf("db_path:          %s\n", getDBPath(cfg))
	fmt.Printf("price_per_kwh:    %s\n", formatPrice(cfg.GetCurrency(), cfg.GetPricePerKWh()))
	fmt.Printf("sampling_minutes: %.0f\n", cfg.GetSamplingInterval().Minutes())
	fmt.Printf("fill_policy:      %s\n", cfg.GetFillPolicy())
	fmt.Printf("mqtt:             %t (%s)\n", cfg.MQTT.Enabled, cfg.MQTT.GetTopicPrefix())
	fmt.Printf("home_assistant:   %t\n", cfg.HomeAssistant.Enabled)
	return nil
}
