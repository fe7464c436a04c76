package cli

import (
	"fmt"

	"planning/internal/domain/schedule"
)

// SlotsCmd prints the 15-minute time axis.
type SlotsCmd struct {
	Start string `help:"First slot (HH:MM); defaults to the configured start time."`
	End   string `help:"Last slot (HH:MM); defaults to the configured end time."`
}

func (c *SlotsCmd) Run(ctx *Context) error {
	start, end := c.Start, c.End
	if start == "" || end == "" {
		cfg, err := ctx.Settings.Load(ctx.Ctx)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if start == "" {
			start = cfg.StartTime
		}
		if end == "" {
			end = cfg.EndTime
		}
	}

	slots, err := schedule.GenerateTimeSlots(start, end)
	if err != nil {
		return err
	}
	for _, s := range slots {
		fmt.Fprintln(ctx.Out, s)
	}
	fmt.Fprintf(ctx.Out, "%d slots\n", len(slots))
	return nil
}
