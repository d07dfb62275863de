package assetc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/emberfw/assetc/heatshrink"
)

// EmbeddedCompressor compresses frames with the built in heatshrink
// codec.
type EmbeddedCompressor struct{}

func (EmbeddedCompressor) Compress(_ context.Context, p []byte) ([]byte, error) {
	return heatshrink.Compress(p), nil
}

// HeatshrinkTool pipes frames through an external heatshrink binary
// running with the same parameters as the embedded codec.
type HeatshrinkTool struct {
	Tool string
}

func (t HeatshrinkTool) Compress(ctx context.Context, p []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, t.Tool, "-e",
		fmt.Sprintf("-w%d", heatshrink.WindowBits),
		fmt.Sprintf("-l%d", heatshrink.LookaheadBits))
	cmd.Stdin = bytes.NewReader(p)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Tool, err)
	}
	return out, nil
}
