package synth

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
)

type otoOutput struct {
	ctx    *oto.Context
	player *oto.Player
}

// OpenOto is the production Opener: a mono float32 oto player that pulls
// from src for the life of the process
func OpenOto(src io.Reader, sampleRate int) (Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(src)
	player.Play()
	return &otoOutput{ctx: ctx, player: player}, nil
}

func (o *otoOutput) Close() error {
	if err := o.player.Close(); err != nil {
		return err
	}
	return o.ctx.Suspend()
}
