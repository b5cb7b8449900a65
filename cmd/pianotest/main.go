package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-piano/config"
	"go-piano/keys"
	"go-piano/synth"
)

var styleName string

func main() {
	root := &cobra.Command{
		Use:          "pianotest",
		Short:        "Diagnostics for go-piano audio and MIDI",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&styleName, "style", "grand", "style: grand or synth")

	root.AddCommand(
		&cobra.Command{
			Use:   "ports",
			Short: "List MIDI input ports",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listPorts(cmd.OutOrStdout())
			},
		},
		scaleCmd(),
		&cobra.Command{
			Use:   "envelope",
			Short: "Print the gain envelope of the selected style",
			RunE: func(cmd *cobra.Command, args []string) error {
				style, err := synth.ParseStyle(styleName)
				if err != nil {
					return err
				}
				return printEnvelope(cmd.OutOrStdout(), style)
			},
		},
		&cobra.Command{
			Use:   "init-config [path]",
			Short: "Write a default config file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := ""
				if len(args) == 1 {
					path = args[0]
				}
				return config.DefaultConfig().Save(path)
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func listPorts(w io.Writer) error {
	fmt.Fprintln(w, "=== MIDI Input Ports ===")
	fmt.Fprintln(w, "(waiting up to 3 seconds...)")

	ch := make(chan []string, 1)
	go func() {
		var names []string
		for _, p := range midi.GetInPorts() {
			names = append(names, p.String())
		}
		ch <- names
	}()

	select {
	case names := <-ch:
		for i, n := range names {
			fmt.Fprintf(w, "  %d: %s\n", i, n)
		}
		if len(names) == 0 {
			fmt.Fprintln(w, "  (none)")
		}
		return nil
	case <-time.After(3 * time.Second):
		fmt.Fprintln(w, "\nTIMEOUT! CoreMIDI is hung.")
		fmt.Fprintln(w, "Fix: sudo killall coreaudiod midiserver")
		return fmt.Errorf("port scan timed out")
	}
}

func scaleCmd() *cobra.Command {
	var gap time.Duration
	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Play every key from C4 to C6 through the audio output",
		RunE: func(cmd *cobra.Command, args []string) error {
			style, err := synth.ParseStyle(styleName)
			if err != nil {
				return err
			}
			engine := synth.NewEngine(synth.OpenOto, synth.DefaultSampleRate)
			defer engine.Close()
			if _, err := engine.EnsureContext(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, k := range keys.Default().Keys() {
				fmt.Fprintf(out, "%-4s %-3s %8.2f Hz\n", k.Note, k.Trigger, k.Frequency)
				engine.PlayTone(k.Frequency, style)
				time.Sleep(gap)
			}
			// let the last note ring out
			time.Sleep(time.Duration(synth.ProfileFor(style).Duration() * float64(time.Second)))
			return nil
		},
	}
	cmd.Flags().DurationVar(&gap, "gap", 250*time.Millisecond, "time between notes")
	return cmd
}

// printEnvelope renders one note offline and prints gain over time
func printEnvelope(w io.Writer, style synth.Style) error {
	p := synth.ProfileFor(style)
	fmt.Fprintf(w, "style %s: %s wave, %.1fs\n", style, p.Waveform, p.Duration())

	engine := synth.NewEngine(func(io.Reader, int) (synth.Output, error) { return nopOutput{}, nil }, 1000)
	ctx, err := engine.EnsureContext()
	if err != nil {
		return fmt.Errorf("offline render: %w", err)
	}
	v := ctx.Play(261.63, style)
	g := v.Gain()

	for _, st := range p.Stages() {
		fmt.Fprintf(w, "  %6.0fms  %.2f\n", st.At*1000, g.ValueAt(st.At))
	}
	return nil
}

type nopOutput struct{}

func (nopOutput) Close() error { return nil }
