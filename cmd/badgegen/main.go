// Command badgegen prints conference placards and name badges.
//
//	badgegen generate --input delegates.csv --type placard --brand MUN-SH -o placards.pdf
//	badgegen brands
//	badgegen mcp
//
// Asset locations, fonts, barcode symbology and page backgrounds come from
// badgegen.yml (or --config).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	badgegen "github.com/DeutscheModelUnitedNations/badgeGenerator"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/config"
)

var (
	cfgFile  string
	cfg      *config.Config
	logFlags = logger.Flags{Level: "info", LogToStderr: true}
)

var rootCmd = &cobra.Command{
	Use:   "badgegen",
	Short: "Generate placards and badges for Model United Nations conferences",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Configure(logFlags)
		if cmd.Name() == "brands" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func bindLogFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", logFlags.Level, "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: badgegen.yml)")
	bindLogFlags(rootCmd.PersistentFlags())
}

// newGenerator builds a generator from the loaded configuration. The
// returned function releases the asset sources.
func newGenerator() (*badgegen.Generator, func() error, error) {
	opts, closer, err := cfg.Options(logger.GetLogger("badgegen"))
	if err != nil {
		return nil, nil, err
	}
	gen, err := badgegen.New(opts...)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return gen, closer, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.errorText.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
