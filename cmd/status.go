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
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pageramp/pagerampd/internal/daemon"
)

var (
	statusWatch bool
	statusJSON  bool
)

var (
	playingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))  // Green
	pausedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")) // Yellow
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))            // Gray
	fileStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what a running daemon is playing",
	Long: `status attaches to the daemon's status FIFO and prints the next
report. With --watch it keeps printing until interrupted, reattaching
whenever the daemon pauses between reports.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		for {
			// Blocks until the daemon's next report opens the write end.
			f, err := os.Open(cfg.StatusFIFO)
			if err != nil {
				return fmt.Errorf("open %s: %w (is the daemon running?)", cfg.StatusFIFO, err)
			}
			sc := bufio.NewScanner(f)
			for sc.Scan() {
				if err := printStatus(sc.Bytes()); err != nil {
					f.Close()
					return err
				}
				if !statusWatch {
					f.Close()
					return nil
				}
			}
			f.Close()
			if err := sc.Err(); err != nil {
				return err
			}
		}
	},
}

func printStatus(line []byte) error {
	if statusJSON {
		fmt.Println(string(line))
		return nil
	}
	var st daemon.Status
	if err := json.Unmarshal(line, &st); err != nil {
		return fmt.Errorf("bad status line: %w", err)
	}
	fmt.Println(renderStatus(st))
	return nil
}

func renderStatus(st daemon.Status) string {
	switch st.State {
	case "playing", "paused":
		style := playingStyle
		marker := "▶"
		if st.State == "paused" {
			style = pausedStyle
			marker = "⏸"
		}
		return fmt.Sprintf("%s %s  %s  %s  %s",
			style.Render(marker),
			fileStyle.Render(st.File),
			clock(st.Position)+" / "+clock(st.Duration),
			dimStyle.Render(fmt.Sprintf("vol %d%%", st.Volume)),
			dimStyle.Render(fmt.Sprintf("[%d/%d] %d Hz", st.Track, st.Total, st.Rate)))
	default:
		return stoppedStyle.Render("⏹ stopped") + "  " +
			dimStyle.Render(fmt.Sprintf("vol %d%%", st.Volume))
	}
}

func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func init() {
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "keep printing status reports")
	statusCmd.Flags().BoolVarP(&statusJSON, "json", "j", false, "print the raw JSON lines")
	rootCmd.AddCommand(statusCmd)
}
