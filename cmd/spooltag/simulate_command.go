package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"spooltag/internal/devicesim"
	"spooltag/internal/logging"
	"spooltag/internal/tags"
)

func newSimulateCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var channels int
	var token string
	var bare bool
	var demo bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Serve an in-memory RFID device for offline use",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("bind") {
				bind = cfg.Simulator.Bind
			}
			if !cmd.Flags().Changed("channels") {
				channels = cfg.Simulator.Channels
			}
			if channels <= 0 {
				return fmt.Errorf("simulate: channels must be positive, got %d", channels)
			}

			dev := devicesim.NewDevice(channels)
			if demo {
				if err := seedDemoTags(dev); err != nil {
					return err
				}
			}
			srv := devicesim.NewServer(dev, devicesim.Options{
				BasePath: cfg.Device.BasePath,
				Token:    strings.TrimSpace(token),
				Bare:     bare,
				Logger:   logger,
			})
			addr, err := srv.Start(signalCtx, bind)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Simulated RFID device on http://%s%s (%d channels)\n", addr, cfg.Device.BasePath, channels)
			fmt.Fprintln(out, "Press Ctrl+C to stop.")

			<-signalCtx.Done()
			srv.Stop()
			logger.Info("simulator stopped", logging.String("address", addr))
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to simulator.bind)")
	cmd.Flags().IntVar(&channels, "channels", 0, "Channel count (defaults to simulator.channels)")
	cmd.Flags().StringVar(&token, "token", "", "Require this bearer token or X-Api-Key")
	cmd.Flags().BoolVar(&bare, "bare", false, "Reply without the result envelope")
	cmd.Flags().BoolVar(&demo, "demo", false, "Seed a programmed, a blank and a read-only tag")
	return cmd
}

// seedDemoTags places one tag of each kind on the first channels that exist.
func seedDemoTags(dev *devicesim.Device) error {
	seeds := []devicesim.Tag{
		{Filament: &tags.FilamentData{
			Type:       tags.Str("PLA"),
			Brand:      tags.Str("Generic"),
			Subtype:    tags.Str("Matte"),
			ColorHex:   tags.Str("1E90FF"),
			Diameter:   tags.Num(1.75),
			MinTemp:    tags.Num(190),
			MaxTemp:    tags.Num(220),
			BedMinTemp: tags.Num(50),
			BedMaxTemp: tags.Num(70),
			Weight:     tags.Num(1000),
		}},
		{},
		{Type: devicesim.TagM1, Filament: &tags.FilamentData{
			Type:     tags.Str("PETG"),
			Brand:    tags.Str("Snapmaker"),
			ColorHex: tags.Str("FF4500"),
			Diameter: tags.Num(1.75),
		}},
	}
	for ch, tag := range seeds {
		if ch >= dev.Channels() {
			break
		}
		if err := dev.Insert(ch, tag); err != nil {
			return fmt.Errorf("seed channel %d: %w", ch, err)
		}
	}
	return nil
}
