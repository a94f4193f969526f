package term

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// PollEvents feeds screen events into the returned channel until ctx is
// done or the screen is finalized. The channel is closed when it stops.
func PollEvents(ctx context.Context, screen tcell.Screen) <-chan tcell.Event {
	events := make(chan tcell.Event, 16)
	go func() {
		defer close(events)
		for ctx.Err() == nil {
			ev := screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events
}
