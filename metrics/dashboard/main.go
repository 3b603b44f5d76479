package dashboard

import (
	"context"
	"fmt"
	"time"

	"block_streamer/metrics"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/linestyle"
	"github.com/mum4k/termdash/terminal/tcell"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgets/text"
)

const redrawInterval = time.Second

// Run renders the transfer counters in the terminal until q is pressed or the
// context is cancelled.
func Run(ctx context.Context) error {
	terminal, err := tcell.New()
	if err != nil {
		return err
	}
	defer terminal.Close()

	counters, err := text.New()
	if err != nil {
		return err
	}

	root, err := container.New(
		terminal,
		container.Border(linestyle.Light),
		container.BorderTitle(" block streamer (q to quit) "),
		container.PlaceWidget(counters),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ticker := time.NewTicker(redrawInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snapshot := metrics.GetSnapshot()

				counters.Reset()
				counters.Write(fmt.Sprintf(
					"bytes read:      %d\npackets fetched: %d\nreaders created: %d\n",
					snapshot.BytesRead,
					snapshot.PacketsFetched,
					snapshot.ReadersCreated,
				))
			}
		}
	}()

	quitter := func(keyboard *terminalapi.Keyboard) {
		if keyboard.Key == 'q' || keyboard.Key == 'Q' {
			cancel()
		}
	}

	return termdash.Run(ctx, terminal, root,
		termdash.KeyboardSubscriber(quitter),
		termdash.RedrawInterval(redrawInterval),
	)
}
