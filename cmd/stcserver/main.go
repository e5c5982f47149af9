// Command stcserver runs the cache manager and distributed query
// scheduler behind an HTTP surface (health, metrics, stats, worker
// registration).
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stcserver",
	Short: "Spatio-temporal cache manager and distributed query scheduler",
	RunE:  runServer,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "stcserver.yaml", "config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := loadServerConfigFromFile(cfgFile)
	if err != nil {
		return err
	}

	app := NewApplication(cfg)
	if err := app.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return app.Stop()
}
