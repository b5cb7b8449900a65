package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-piano/config"
	"go-piano/synth"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "go-piano"}
	cmd.Flags().StringVar(&styleFlag, "style", "", "")
	cmd.Flags().BoolVar(&midiFlag, "midi", false, "")
	cmd.Flags().StringVar(&midiPort, "midi-port", "", "")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cmd := newFlagCmd(t, "--style", "synth", "--midi-port", "keystation", "--debug")

	require.NoError(t, applyFlags(cmd, cfg))
	assert.Equal(t, synth.StyleSynth, cfg.Style)
	assert.True(t, cfg.MIDI.Enabled)
	assert.Equal(t, "keystation", cfg.MIDI.Port)
	assert.True(t, cfg.Debug.Enabled)
}

func TestApplyFlagsLeavesUnsetFields(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Style = synth.StyleSynth
	cfg.MIDI.Enabled = true

	require.NoError(t, applyFlags(newFlagCmd(t), cfg))
	assert.Equal(t, synth.StyleSynth, cfg.Style)
	assert.True(t, cfg.MIDI.Enabled)
}

func TestApplyFlagsBadStyle(t *testing.T) {
	cfg := config.DefaultConfig()
	err := applyFlags(newFlagCmd(t, "--style", "organ"), cfg)
	assert.Error(t, err)
}
