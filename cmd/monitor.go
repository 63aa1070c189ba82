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
	"errors"
	"io"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	monitorRate  = 44100
	monitorChunk = 4096
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Play the daemon's PCM stream through the local speakers",
	Long: `monitor reads the daemon's raw S16LE stereo output from stdin and
plays it on the default audio device, for checking a stream without
wiring up aplay:

  pagerampd | pagerampd monitor`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		chunks := make(chan []byte, 16)
		g, _ := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			defer close(chunks)
			r := bufio.NewReaderSize(os.Stdin, 64<<10)
			for {
				buf := make([]byte, monitorChunk)
				n, err := io.ReadFull(r, buf)
				n -= n % 4 // whole stereo frames only
				if n > 0 {
					chunks <- buf[:n]
				}
				if err != nil {
					if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
						return nil
					}
					return err
				}
			}
		})

		sr := beep.SampleRate(monitorRate)
		if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
			return err
		}
		defer speaker.Close()

		played := make(chan struct{})
		speaker.Play(beep.Seq(&pcmStreamer{chunks: chunks}, beep.Callback(func() {
			close(played)
		})))
		<-played
		return g.Wait()
	},
}

// pcmStreamer adapts an S16LE stereo byte stream to beep.Streamer. A
// starved source plays as silence instead of an underrun; the stream
// only ends when the chunk channel closes.
type pcmStreamer struct {
	chunks <-chan []byte
	cur    []byte
	done   bool
}

func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.done {
		return 0, false
	}
	for i := range samples {
		if len(s.cur) == 0 {
			select {
			case chunk, open := <-s.chunks:
				if !open {
					s.done = true
					if i == 0 {
						return 0, false
					}
					silence(samples[i:])
					return len(samples), true
				}
				s.cur = chunk
			default:
				silence(samples[i:])
				return len(samples), true
			}
		}
		l := int16(s.cur[0]) | int16(s.cur[1])<<8
		r := int16(s.cur[2]) | int16(s.cur[3])<<8
		samples[i][0] = float64(l) / 32768.0
		samples[i][1] = float64(r) / 32768.0
		s.cur = s.cur[4:]
	}
	return len(samples), true
}

func (s *pcmStreamer) Err() error { return nil }

func silence(samples [][2]float64) {
	for i := range samples {
		samples[i][0] = 0
		samples[i][1] = 0
	}
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
