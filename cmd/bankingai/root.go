package bankingai

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dasdy/bankingai/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configName = ".bankingai"

var (
	cfgFile     string
	verbose     bool
	storagePath string
	fixturesDir string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bankingai",
	Short: "Mocked AI banking assistant",
	Long: `bankingai serves a web front-end where natural language questions about
transactions are answered from fixture data. Transaction details are laid out
in a balanced masonry grid that adapts to the viewport width.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(os.Stderr, verbose)
		bindFlags(cmd, args)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bankingai.toml or ./.bankingai.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&fixturesDir, "fixtures", "",
		"Directory with fixture TOML files (default: built-in fixtures)")
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(configName)
	}
	// Set environment variable prefix
	viper.SetEnvPrefix("bankingai")
	viper.AutomaticEnv()

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create an example config
			createExampleConfig("./" + configName + ".toml")
		} else {
			slog.Error("Error reading config file", "error", err)
			os.Exit(1)
		}
	}
}

const exampleConfig = `# port = 9000
# storage = "./bankingai.sqlite"
# redisaddr = "localhost:6379"
# searchdelay = "1200ms"
# pagettl = "10m"
# pagecachesize = 1024
# ratelimit = 1.0
# rateburst = 5
# defaultwidth = 1280
`

// createExampleConfig writes a commented template. A failure to write it
// is not fatal: every setting has a default.
func createExampleConfig(configPath string) {
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		slog.Warn("Could not create example config file", "path", configPath, "error", err)

		return
	}

	slog.Info("Example config file created", "path", configPath)
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Since viper does case-insensitive comparisons, we don't need to bother fixing the case, and only need to remove the hyphens.
		configName := strings.ReplaceAll(f.Name, "-", "")

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			if err != nil {
				slog.Error("Error setting flag from config", "flag", f.Name, "error", err)
				panic(err)
			}

			slog.Debug("Flag set to config value", "flag", f.Name, "value", val)
		}
	})
}
