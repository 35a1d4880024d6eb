package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"spooltag/internal/engine"
	"spooltag/internal/form"
	"spooltag/internal/rfidapi"
	"spooltag/internal/tags"
)

type writeOptions struct {
	fields     []string
	materialTy string
	brand      string
	color      string
	fresh      bool
	dryRun     bool
	noWait     bool
	jsonOutput bool
}

func newWriteCommand(ctx *commandContext) *cobra.Command {
	var opts writeOptions

	cmd := &cobra.Command{
		Use:   "write <channel>",
		Short: "Program an OpenSpool tag",
		Long: "Program the tag on a channel. The form starts from the tag's current " +
			"contents (or defaults with --fresh) and --field key=value pairs edit it.\n" +
			"Editable fields: " + fmt.Sprint(form.EditableFields()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			edits, err := opts.edits(cmd)
			if err != nil {
				return err
			}
			eng, err := ctx.newEngine(cmd)
			if err != nil {
				return err
			}

			if err := eng.RefreshAll(cmd.Context()); err != nil {
				return reported(err)
			}
			eng.SelectWriteChannel(channel)
			if opts.fresh {
				eng.Edit(func(s *form.Synchronizer) { s.Reset(channel) })
			}
			if err := eng.Apply(edits); err != nil {
				return err
			}

			if opts.dryRun {
				return writeDryRun(cmd, eng)
			}

			res, err := eng.SubmitWrite(cmd.Context())
			if err != nil {
				return reported(err)
			}
			return finishOperation(cmd, ctx, eng, channel, res, opts.noWait, opts.jsonOutput)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.fields, "field", "f", nil, "Set a form field (key=value, repeatable)")
	flags.StringVar(&opts.materialTy, "type", "", "Material type (PLA, PETG, ABS, ...)")
	flags.StringVar(&opts.brand, "brand", "", "Filament brand")
	flags.StringVar(&opts.color, "color", "", "Primary colour as RRGGBB or RRGGBBAA")
	flags.BoolVar(&opts.fresh, "fresh", false, "Start from defaults instead of the tag's current contents")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the form data and payload without writing")
	flags.BoolVar(&opts.noWait, "no-wait", false, "Do not wait for the confirmation read")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output the device result as JSON")
	return cmd
}

// edits merges the shortcut flags and --field pairs; --field wins.
func (o writeOptions) edits(cmd *cobra.Command) (url.Values, error) {
	data, err := form.ParseFields(o.fields)
	if err != nil {
		return nil, err
	}
	shortcuts := []struct{ flag, key, value string }{
		{"type", "type", o.materialTy},
		{"brand", "brand", o.brand},
		{"color", "color_hex", o.color},
	}
	for _, s := range shortcuts {
		if cmd.Flags().Changed(s.flag) && !data.Has(s.key) {
			data.Set(s.key, s.value)
		}
	}
	return data, nil
}

type dryRunOutput struct {
	Form    url.Values        `json:"form"`
	Payload form.WritePayload `json:"payload"`
}

func writeDryRun(cmd *cobra.Command, eng *engine.Engine) error {
	data, err := eng.Form().FormData()
	if err != nil {
		return err
	}
	var payload form.WritePayload
	var encodeErr error
	eng.Edit(func(s *form.Synchronizer) {
		payload, encodeErr = s.Encode()
	})
	if encodeErr != nil {
		return encodeErr
	}
	return writeJSON(cmd, dryRunOutput{Form: data, Payload: payload})
}

func newEraseCommand(ctx *commandContext) *cobra.Command {
	var confirm bool
	var noWait bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "erase <channel>",
		Short: "Erase the tag on a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channel, err := parseChannel(args[0])
			if err != nil {
				return err
			}
			eng, err := ctx.newEngine(cmd)
			if err != nil {
				return err
			}
			if err := eng.RefreshChannel(cmd.Context(), channel); err != nil {
				return reported(err)
			}
			eng.SelectEraseChannel(channel)
			eng.SetEraseConfirm(confirm)

			res, err := eng.SubmitErase(cmd.Context())
			if err != nil {
				return reported(err)
			}
			return finishOperation(cmd, ctx, eng, channel, res, noWait, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm the erase")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Do not wait for the confirmation read")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the device result as JSON")
	return cmd
}

// finishOperation waits for the confirmation read and prints either the
// device result or the refreshed channel.
func finishOperation(cmd *cobra.Command, ctx *commandContext, eng *engine.Engine, channel int, res rfidapi.OperationResult, noWait, jsonOutput bool) error {
	if !noWait {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		if err := waitForConfirmation(cmd.Context(), eng, cfg); err != nil {
			return fmt.Errorf("wait for confirmation read: %w", err)
		}
	}
	if jsonOutput {
		return writeJSON(cmd, res)
	}
	if noWait {
		return nil
	}
	rec, err := eng.Channel(channel)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, line := range renderChannelDetail(rec, tags.Gate(rec), shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
	return nil
}
