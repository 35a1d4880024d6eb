package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spooltag/internal/tags"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"ls", "list"},
		Short:   "List the tag on every channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.newEngine(cmd)
			if err != nil {
				return err
			}
			if err := eng.RefreshAll(cmd.Context()); err != nil {
				return reported(err)
			}
			records := eng.Channels()
			if jsonOutput {
				return writeJSON(cmd, records)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderChannelTable(records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output channel records as JSON")
	return cmd
}

func renderChannelTable(records []tags.ChannelRecord) string {
	headers := []string{"Ch", "Status", "Filament", "Color", "Diameter", "Weight", "Extruder", "Bed", "Tag"}
	aligns := []columnAlignment{alignRight}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		s := tags.Describe(rec)
		rows = append(rows, []string{
			strconv.Itoa(s.Channel),
			s.Status.Label(),
			dash(s.Filament),
			dash(s.Color),
			dash(s.Diameter),
			dash(s.Weight),
			dash(s.ExtruderTemp),
			dash(s.BedTemp),
			dash(s.TagType),
		})
	}
	return renderTable(headers, rows, aligns)
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <channel>",
		Short: "Read one channel and show its tag in detail",
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
			rec, err := eng.Channel(channel)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, rec)
			}
			gate := tags.Gate(rec)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderChannelDetail(rec, gate, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the channel record as JSON")
	return cmd
}

func renderChannelDetail(rec tags.ChannelRecord, gate tags.Capability, colorize bool) []string {
	s := tags.Describe(rec)
	lines := renderSectionHeader(fmt.Sprintf("Channel %d", s.Channel), colorize)

	fields := []struct{ label, value string }{
		{"Status", s.Status.Label()},
		{"Filament", s.Filament},
		{"Color", s.Color},
		{"Swatches", strings.Join(s.Swatches, " ")},
		{"Diameter", s.Diameter},
		{"Density", s.Density},
		{"Weight", s.Weight},
		{"Extruder", s.ExtruderTemp},
		{"Bed", s.BedTemp},
		{"Tag type", s.TagType},
		{"UID", s.UID},
	}
	if rec.TagPresent {
		fields = append(fields,
			struct{ label, value string }{"Writable", yesNo(gate.CanWrite)},
			struct{ label, value string }{"Erasable", yesNo(gate.CanErase)},
		)
	}
	for _, f := range fields {
		if line, ok := renderField(f.label, f.value); ok {
			lines = append(lines, line)
		}
	}
	if s.Note != "" {
		lines = append(lines, renderNote(s.Note, colorize))
	}
	if gate.WriteMessage != "" {
		lines = append(lines, renderNote(gate.WriteMessage, colorize))
	}
	return lines
}

func parseChannel(raw string) (int, error) {
	channel, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || channel < 0 {
		return 0, fmt.Errorf("invalid channel %q: must be a non-negative integer", raw)
	}
	return channel, nil
}
