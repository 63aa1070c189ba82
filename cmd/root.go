/*
Copyright © 2025 pageramp

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/caarlos0/ctrlc"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pageramp/pagerampd/internal/config"
	"github.com/pageramp/pagerampd/internal/daemon"
)

var (
	cfgFile    string
	cmdFIFO    string
	statusFIFO string
	verbose    bool
)

// rootCmd runs the playback daemon itself; the subcommands talk to it.
var rootCmd = &cobra.Command{
	Use:   "pagerampd",
	Short: "Streaming audio playback daemon",
	Long: `pagerampd decodes MP3 and WAV files into a continuous S16LE PCM
stream on stdout, ready to pipe into aplay, pacat or any other raw
audio sink.

The running daemon is controlled through a command FIFO and reports
playback state as JSON lines on a status FIFO:

  pagerampd | aplay -f cd -t raw
  pagerampd ctl PLAY /music/track.mp3`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		// stdout carries the PCM stream; everything else goes to stderr.
		log.SetOutput(os.Stderr)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		err = ctrlc.Default.Run(ctx, func() error {
			return daemon.New(cfg, os.Stdout).Run(ctx)
		})
		var interrupted ctrlc.ErrorCtrlC
		if errors.As(err, &interrupted) {
			log.Warn("interrupted", "signal", interrupted)
			return nil
		}
		return err
	},
}

// loadConfig layers the settings: defaults, then the config file, then
// whatever flags were set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("cmd-fifo") {
		cfg.CmdFIFO = cmdFIFO
	}
	if cmd.Flags().Changed("status-fifo") {
		cfg.StatusFIFO = statusFIFO
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	def := config.Default()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&cmdFIFO, "cmd-fifo", def.CmdFIFO, "command FIFO path")
	rootCmd.PersistentFlags().StringVar(&statusFIFO, "status-fifo", def.StatusFIFO, "status FIFO path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "verbose logging")
}
