package cli

import (
	"fmt"
	"os"

	"planning/internal/application/orchestrators"
)

// SettingsExportCmd writes the settings document to stdout or a file.
type SettingsExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *SettingsExportCmd) Run(ctx *Context) error {
	data, err := orchestrators.ExecuteExportSettings(ctx.Ctx, orchestrators.SeedSettingsDeps{Settings: ctx.Settings})
	if err != nil {
		return err
	}
	if c.Output == "" {
		_, err := fmt.Fprintln(ctx.Out, string(data))
		return err
	}
	if err := os.WriteFile(c.Output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	fmt.Fprintf(ctx.Out, "settings written to %s\n", c.Output)
	return nil
}

// SettingsImportCmd validates and stores a settings document.
type SettingsImportCmd struct {
	File string `arg:"" help:"Settings JSON file." type:"existingfile"`
}

func (c *SettingsImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}
	saved, err := orchestrators.ExecuteImportSettings(ctx.Ctx, data, orchestrators.SeedSettingsDeps{Settings: ctx.Settings})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "imported %d categories, %d teachers, %d form fields\n",
		len(saved.Categories), len(saved.Teachers), len(saved.FormFields))
	return nil
}
