package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"planning/internal/application/orchestrators"
	"planning/internal/domain/booking"
)

// BookCmd submits a booking request read from a JSON file.
type BookCmd struct {
	File string `arg:"" help:"JSON document with courses and form keys." type:"existingfile"`
}

func (c *BookCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}
	var req booking.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode %s: %w", c.File, err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	endpoint, err := ctx.Endpoint()
	if err != nil {
		return err
	}
	if err := endpoint.Submit(ctx.Ctx, req); err != nil {
		return fmt.Errorf("submit booking: %w", err)
	}
	fmt.Fprintf(ctx.Out, "booking submitted for %d course(s)\n", len(req.Courses))
	return nil
}

// TestEmailCmd sends the fixed test message.
type TestEmailCmd struct {
	To string `arg:"" optional:"" help:"Recipient; defaults to the configured notification email."`
}

func (c *TestEmailCmd) Run(ctx *Context) error {
	to, err := orchestrators.ExecuteSendTestEmail(ctx.Ctx, c.To, orchestrators.SendTestEmailDeps{
		Settings: ctx.Settings,
		Sender:   ctx.Sender,
		From:     ctx.From,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "test email sent to %s\n", to)
	return nil
}
