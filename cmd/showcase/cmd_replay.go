package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/showcase/internal/carousel"
	"github.com/jask/showcase/internal/gesture"
)

func (c *cli) replayCmd() *cobra.Command {
	var items int
	cmd := &cobra.Command{
		Use:   "replay <recording.jsonl>",
		Short: "Replay a recorded gesture stream through the carousel",
		Long: `Feeds a JSON Lines recording of touch, mouse and click events through the
gesture adapters and prints every focus decision and resolved tap.

Each line is one event, for example:
  {"type": "touchstart", "touches": [{"id": 0, "x": 300}]}
  {"type": "mousemove", "x": 180}
  {"type": "click", "index": 2}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return replay(cmd.OutOrStdout(), f, items, c.cfg.Carousel.Geometry())
		},
	}
	cmd.Flags().IntVarP(&items, "items", "n", 5, "number of cards in the carousel")
	return cmd
}

// replay runs recorded events against a fresh carousel of n cards.
func replay(w io.Writer, r io.Reader, n int, geom carousel.Geometry) error {
	if n < 0 {
		return fmt.Errorf("--items must not be negative, got %d", n)
	}
	recs, err := gesture.Decode(r)
	if err != nil {
		return err
	}
	cards := make([]string, n)
	for i := range cards {
		cards[i] = fmt.Sprintf("card-%d", i+1)
	}
	car := carousel.New(cards, geom, carousel.WithOnSelect(func(i int) {
		fmt.Fprintf(w, "tap %d\n", i)
	}))
	player := gesture.NewPlayer(car, func(i int) {
		if !car.Tap(i) {
			fmt.Fprintf(w, "tap %d suppressed\n", i)
		}
	})

	for i, rec := range recs {
		wasDragging := car.Dragging()
		if err := player.Play(rec); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
		if wasDragging && !car.Dragging() {
			r := car.LastRelease()
			fmt.Fprintf(w, "release offset=%.1f peak=%.1f focus %d -> %d\n", r.Offset, r.Peak, r.From, r.To)
		}
	}
	fmt.Fprintf(w, "focus %d of %d\n", car.Focus(), car.Len())
	return nil
}
