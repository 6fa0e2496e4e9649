package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	debugMode bool
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "iseg",
	Short: "Утилиты интерактивной сегментации",
	Long: `Симуляция корректирующих кликов, кодирование масок в RLE,
визуализация кликов и Telegram-бот для разметки.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = initLogger(debugMode)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "подробный текстовый лог")
	rootCmd.AddCommand(encodeCmd, decodeCmd, clicksCmd, overlayCmd, evalCmd, augmentCmd, botCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogger настраивает logrus: текст в режиме отладки, JSON иначе
func initLogger(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	if debug {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		l.Debug("debug logging enabled")
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return l
}
