package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-piano/config"
	"go-piano/debug"
	"go-piano/keys"
	"go-piano/midi"
	"go-piano/piano"
	"go-piano/synth"
	"go-piano/tui"
)

var (
	configPath string
	styleFlag  string
	midiFlag   bool
	midiPort   string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "go-piano",
	Short: "A two-octave piano in your terminal",
	Long: `go-piano turns the letter keys into a C4-C6 keyboard.

Keys q..n play notes, tab switches between the grand piano and synth
styles, and keys can also be clicked with the mouse. Sound starts with
the first key press.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.config/go-piano/config.yaml)")
	rootCmd.Flags().StringVar(&styleFlag, "style", "", "starting style: grand or synth")
	rootCmd.Flags().BoolVar(&midiFlag, "midi", false, "accept notes from MIDI keyboards")
	rootCmd.Flags().StringVar(&midiPort, "midi-port", "", "only connect MIDI inputs whose name contains this")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "write a debug log to ~/.config/go-piano/debug.log")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	if cfg.Debug.Enabled {
		if err := debug.Enable(cfg.Debug.Path); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
	}

	// Audio opens lazily on the first key or click
	engine := synth.NewEngine(synth.OpenOto, cfg.SampleRate)
	defer engine.Close()

	dispatcher := piano.NewDispatcher(keys.Default(), engine, cfg.Style)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var deviceMgr *midi.DeviceManager
	if cfg.MIDI.Enabled {
		deviceMgr = midi.NewDeviceManager(cfg.MIDI.Port)
		go deviceMgr.Run(ctx)
	}

	debug.Log("main", "starting: style=%s sampleRate=%d midi=%v", cfg.Style, cfg.SampleRate, cfg.MIDI.Enabled)

	m := tui.NewModel(dispatcher, engine, deviceMgr)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("style") {
		s, err := synth.ParseStyle(styleFlag)
		if err != nil {
			return err
		}
		cfg.Style = s
	}
	if flags.Changed("midi") {
		cfg.MIDI.Enabled = midiFlag
	}
	if flags.Changed("midi-port") {
		cfg.MIDI.Port = midiPort
		cfg.MIDI.Enabled = true
	}
	if flags.Changed("debug") {
		cfg.Debug.Enabled = debugFlag
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
