// Command stcworker speaks the Remote Tile Backend Protocol on one TCP
// listener and registers its connection with a stcserver scheduler.
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
	Use:   "stcworker",
	Short: "RTP worker connection for the distributed query scheduler",
	RunE:  runWorker,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "stcworker.yaml", "config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := loadWorkerConfigFromFile(cfgFile)
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
