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
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageramp/pagerampd/internal/fifo"
)

var ctlCmd = &cobra.Command{
	Use:   "ctl COMMAND [ARG]",
	Short: "Send a command to a running daemon",
	Long: `ctl writes one command line to the daemon's command FIFO.

Commands: PLAY <file>, PAUSE, RESUME, TOGGLE, STOP, NEXT, PREV,
SEEK <sec>|+sec|-sec, VOL <0-100>|+n|-n, PLAYLIST <file>,
QUEUE <file>, JUMP <index>, STATUS, QUIT.

Examples:
  pagerampd ctl PLAY /music/track.mp3
  pagerampd ctl VOL +10
  pagerampd ctl SEEK 90`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return fifo.Send(cfg.CmdFIFO, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(ctlCmd)
}
