package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/claimcheck/internal/calendar"
	"github.com/ppiankov/claimcheck/internal/model"
)

const version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimcheck",
	Short: "Claimcheck - timing and eligibility rules for animal health claims",
	Long: `Claimcheck evaluates farmers' annual health and welfare claims page by page.

Given the answers collected so far and the farm's earlier claims and agreements,
it decides whether an answer is accepted, which page comes next, and whether the
claim must stop because a timing, species or herd rule does not allow it.

Scenarios can be evaluated offline from YAML files, or a whole claim can be run
against the applications and claims backends.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of claimcheck.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("claimcheck v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default from config)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".claimcheck"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CLAIMCHECK_BACKEND_CLAIMS_URL overrides backend.claims_url
	viper.SetEnvPrefix("CLAIMCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key of cfg so environment variables can override
// keys that no config file mentions
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setTree(v, "", tree)

	// Omitted from the YAML when empty
	for _, key := range []string{"backend.http_proxy", "backend.https_proxy", "backend.no_proxy"} {
		v.SetDefault(key, "")
	}
	return nil
}

func setTree(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			setTree(v, key, sub)
			continue
		}
		v.SetDefault(key, value)
	}
}

// loadConfig decodes the merged flags, environment, config file and defaults
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timeToDateHook(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// timeToDateHook accepts YAML timestamps for calendar dates: an unquoted
// 2025-05-01 in a config file arrives as a time.Time
func timeToDateHook() mapstructure.DecodeHookFuncType {
	dateType := reflect.TypeOf(calendar.Date{})
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != dateType {
			return data, nil
		}
		if t, ok := data.(time.Time); ok {
			return calendar.FromTime(t), nil
		}
		return data, nil
	}
}

// newLogger builds the slog logger described by the logging config.
// --verbose forces debug level.
func newLogger(cfg model.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// setup loads the config and logger shared by the commands
func setup() (*model.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg.Logging), nil
}
