package engine

import (
	"context"
	"fmt"

	"spooltag/internal/form"
	"spooltag/internal/logging"
	"spooltag/internal/rfidapi"
	"spooltag/internal/services"
)

// RefreshAll reads every channel and replaces the store.
func (e *Engine) RefreshAll(ctx context.Context) error {
	ctx = services.WithOperation(ctx, string(OpReadAll))
	logger := logging.WithContext(ctx, e.logger)

	e.begin(OpReadAll, "Refreshing channels...")
	records, err := e.device.ListTags(ctx)
	if err != nil {
		e.fail(OpReadAll, "Failed to refresh channels: "+services.UserMessage(err))
		logging.WarnWithContext(logger, "channel refresh failed", "refresh_failed",
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, refreshHint(err)),
			logging.String(logging.FieldImpact, "channel list unchanged"),
		)
		return err
	}

	e.store.ReplaceAll(records)
	e.reproject()
	e.succeed(OpReadAll, "Channels refreshed successfully")
	logger.Info("channels refreshed", logging.Int("channels", len(records)))
	return nil
}

// RefreshChannel reads one channel and upserts it into the store.
func (e *Engine) RefreshChannel(ctx context.Context, channel int) error {
	return e.refreshChannel(ctx, channel, false)
}

// refreshChannel backs both operator reads and the quiet confirmation read
// that follows a write or erase. Failures are reported either way.
func (e *Engine) refreshChannel(ctx context.Context, channel int, confirmation bool) error {
	ctx = services.WithChannel(services.WithOperation(ctx, string(OpReadOne)), channel)
	logger := logging.WithContext(ctx, e.logger)

	if confirmation {
		e.setState(OpReadOne, InFlight)
	} else {
		e.begin(OpReadOne, fmt.Sprintf("Refreshing channel %d...", channel))
	}
	rec, err := e.device.GetTag(ctx, channel)
	if err != nil {
		e.fail(OpReadOne, fmt.Sprintf("Failed to refresh channel %d: %s", channel, services.UserMessage(err)))
		if !confirmation {
			logging.WarnWithContext(logger, "channel read failed", "refresh_failed",
				logging.String("error_kind", services.Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, refreshHint(err)),
			)
		}
		return err
	}
	rec.Channel = channel

	e.store.Upsert(rec)
	e.reproject(channel)
	e.setState(OpReadOne, Succeeded)
	logger.Debug("channel refreshed",
		logging.Bool("confirmation", confirmation),
		logging.Bool("tag_present", rec.TagPresent),
	)
	return nil
}

// SubmitWrite encodes the write form and sends it to the selected channel.
// Guard failures return ErrValidation without contacting the device.
func (e *Engine) SubmitWrite(ctx context.Context) (rfidapi.OperationResult, error) {
	if gate := e.WriteCapability(); !gate.CanWrite {
		err := services.Validation(string(OpWrite), gate.WriteMessage)
		e.status.Show(StatusError, gate.WriteMessage)
		return rfidapi.OperationResult{}, err
	}

	e.mu.Lock()
	payload, err := e.form.Encode()
	e.mu.Unlock()
	if err != nil {
		e.status.Show(StatusError, "Write failed: "+services.UserMessage(err))
		return rfidapi.OperationResult{}, err
	}

	ctx = services.WithChannel(services.WithOperation(ctx, string(OpWrite)), payload.Channel)
	logger := logging.WithContext(ctx, e.logger)

	e.begin(OpWrite, "Writing tag...")
	res, err := e.device.WriteOpenSpool(ctx, payload)
	if err != nil {
		e.fail(OpWrite, "Write failed: "+services.UserMessage(err))
		logging.WarnWithContext(logger, "tag write failed", "write_failed",
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "tag was not programmed"),
		)
		return res, err
	}

	verdict := "(verification pending) "
	if res.Verified {
		verdict = "and verified "
	}
	e.succeed(OpWrite, fmt.Sprintf("Tag written %ssuccessfully on channel %d", verdict, payload.Channel))
	logger.Info("tag written",
		logging.Bool("verified", res.Verified),
		logging.String("type", payload.Type),
		logging.String("brand", payload.Brand),
		logging.String("color_hex", payload.ColorHex),
	)
	if res.Mismatch != nil {
		logging.WarnWithContext(logger, "device reported verification mismatch", "verification_mismatch",
			logging.Any("mismatch", res.Mismatch),
			logging.String(logging.FieldImpact, "tag contents may differ from the submitted form"),
		)
	}

	e.resetWriteForm()
	e.scheduleConfirmation(ctx, payload.Channel)
	return res, nil
}

// SubmitErase clears the tag on the selected erase channel. The operator
// must have confirmed first.
func (e *Engine) SubmitErase(ctx context.Context) (rfidapi.OperationResult, error) {
	if gate := e.EraseCapability(); !gate.CanErase {
		err := services.Validation(string(OpErase), gate.EraseMessage)
		e.status.Show(StatusError, gate.EraseMessage)
		return rfidapi.OperationResult{}, err
	}

	e.mu.Lock()
	payload, err := form.EncodeErase(e.eraseChannel, e.eraseConfirmed)
	e.mu.Unlock()
	if err != nil {
		e.status.Show(StatusError, services.UserMessage(err))
		return rfidapi.OperationResult{}, err
	}

	ctx = services.WithChannel(services.WithOperation(ctx, string(OpErase)), payload.Channel)
	logger := logging.WithContext(ctx, e.logger)

	e.begin(OpErase, "Erasing tag...")
	res, err := e.device.Erase(ctx, payload)
	if err != nil {
		e.fail(OpErase, "Erase failed: "+services.UserMessage(err))
		logging.WarnWithContext(logger, "tag erase failed", "erase_failed",
			logging.String("error_kind", services.Kind(err)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "tag contents unchanged"),
		)
		return res, err
	}

	msg := fmt.Sprintf("Tag erased on channel %d", payload.Channel)
	if res.Verified {
		msg = fmt.Sprintf("Tag erased and verified on channel %d", payload.Channel)
	}
	e.succeed(OpErase, msg)
	logger.Info("tag erased", logging.Bool("verified", res.Verified))

	e.mu.Lock()
	e.eraseChannel = e.defaultChannel
	e.eraseConfirmed = false
	e.mu.Unlock()
	e.scheduleConfirmation(ctx, payload.Channel)
	return res, nil
}

// resetWriteForm clears touches and returns the form to the default channel,
// loading that channel's tag when the store knows it.
func (e *Engine) resetWriteForm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.writeChannel = e.defaultChannel
	if rec, ok := e.store.Get(e.defaultChannel); ok {
		e.form.Load(rec)
		return
	}
	e.form.Reset(e.defaultChannel)
}

func (e *Engine) scheduleConfirmation(ctx context.Context, channel int) {
	ctx = context.WithoutCancel(ctx)
	delay := e.confirmDelay
	e.addPending()
	e.after(delay, func() {
		defer e.donePending()
		if err := e.refreshChannel(ctx, channel, true); err != nil {
			logging.ErrorWithContext(logging.WithContext(ctx, e.logger), "confirmation read failed", "confirmation_failed",
				logging.Duration("delay", delay),
				logging.String("error_kind", services.Kind(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, refreshHint(err)),
			)
		}
	})
}

func refreshHint(err error) string {
	if rfidapi.IsUnreachable(err) {
		return "check that the device service is reachable"
	}
	return "check the device service logs"
}

func (e *Engine) begin(op Op, msg string) {
	e.setState(op, InFlight)
	e.status.Show(StatusInfo, msg)
}

func (e *Engine) succeed(op Op, msg string) {
	e.setState(op, Succeeded)
	e.status.Show(StatusSuccess, msg)
}

func (e *Engine) fail(op Op, msg string) {
	e.setState(op, Failed)
	e.status.Show(StatusError, msg)
}
