package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevels = map[string]logrus.Level{
	"trace":    logrus.TraceLevel,
	"debug":    logrus.DebugLevel,
	"info":     logrus.InfoLevel,
	"warn":     logrus.WarnLevel,
	"error":    logrus.ErrorLevel,
	"critical": logrus.FatalLevel,
	"off":      logrus.PanicLevel,
}

var log = logrus.WithField("module", "ganancias")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "ganancias",
		Short: "Monthly income tax (Impuesto a las Ganancias) withholding calculator",
		Long: `ganancias simulates one worker's fiscal year and prints the income tax
withheld each month, the aguinaldo, the mandatory contributions and the
deductions that produced it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := logLevels[strings.ToLower(logLevel)]
			if !ok {
				names := lo.Keys(logLevels)
				sort.Strings(names)
				return fmt.Errorf("log level must be one of %s", strings.Join(names, " "))
			}
			logrus.SetLevel(level)
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (trace debug info warn error critical off)")

	root.AddCommand(newCalculateCmd(), newTablesCmd(), newInitCmd())
	return root
}
