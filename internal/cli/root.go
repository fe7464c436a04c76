// Package cli implements the planning operator commands.
package cli

import (
	"context"
	"io"

	"planning/internal/adapters/email"
	"planning/internal/adapters/sheets"
	"planning/internal/application/orchestrators"
	"planning/internal/application/projections"
)

// Context carries the collaborators every command may use.
type Context struct {
	Ctx        context.Context
	Out        io.Writer
	Settings   orchestrators.SettingsStoreForOrchestrator
	HeaderRows int
	Sender     email.Sender
	From       string

	// Source and Endpoint build their adapter on each call.
	Source   func() (projections.PlanningScheduleSource, error)
	Endpoint func() (orchestrators.BookingEndpoint, error)
}

// source returns file when set, otherwise the configured source.
func (c *Context) source(file string) (projections.PlanningScheduleSource, error) {
	if file != "" {
		return sheets.FileSource{Path: file}, nil
	}
	return c.Source()
}
