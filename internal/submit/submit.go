package submit

import (
	"context"
	"errors"

	"github.com/julianstephens/slotbook/internal/booking"
	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/models"
)

// Result describes the outcome of a submission.
type Result struct {
	Notice  string
	Err     error
	Cleared []models.Selection
	Effects []booking.Effect
}

// OK reports whether the bookings were saved.
func (r Result) OK() bool {
	return r.Err == nil
}

// Payload flattens every committed selection into wire entries.
func Payload(state *booking.State) []Entry {
	all := state.All()
	entries := make([]Entry, 0, len(all))
	for _, sel := range all {
		entries = append(entries, Entry{Date: sel.Date, StartMin: sel.StartMin, EndMin: sel.EndMin})
	}
	return entries
}

// Prepare builds the payload, failing with ErrNothingToSubmit when empty.
func Prepare(state *booking.State) ([]Entry, error) {
	entries := Payload(state)
	if len(entries) == 0 {
		return nil, ErrNothingToSubmit
	}
	return entries, nil
}

// Apply folds the outcome of a save into state. On success every selection
// is cleared and its block removed; on failure state is left untouched.
func Apply(state *booking.State, saveErr error) Result {
	if saveErr != nil {
		return failure(saveErr)
	}
	return success(state.Clear())
}

// Settle is Apply for a save that ran while the user kept editing: on
// success only the selections matching sent are cleared, so anything
// committed after the payload was built stays for the next submission.
func Settle(state *booking.State, sent []Entry, saveErr error) Result {
	if saveErr != nil {
		return failure(saveErr)
	}

	wanted := make(map[Entry]struct{}, len(sent))
	for _, e := range sent {
		wanted[e] = struct{}{}
	}
	var cleared []models.Selection
	for _, sel := range state.All() {
		if _, ok := wanted[Entry{Date: sel.Date, StartMin: sel.StartMin, EndMin: sel.EndMin}]; !ok {
			continue
		}
		if removed, ok := state.Remove(sel.ID); ok {
			cleared = append(cleared, removed)
		}
	}
	return success(cleared)
}

func failure(saveErr error) Result {
	notice := constants.NoticeSubmitError
	switch {
	case errors.Is(saveErr, ErrNothingToSubmit):
		notice = constants.NoticeNothingToSubmit
	case errors.Is(saveErr, ErrRejected):
		notice = constants.NoticeSubmitRejected
	}
	return Result{Notice: notice, Err: saveErr}
}

func success(cleared []models.Selection) Result {
	effects := make([]booking.Effect, 0, len(cleared)+1)
	for _, sel := range cleared {
		effects = append(effects, booking.Effect{
			Kind:     booking.EffectRemoveBlock,
			ID:       sel.ID,
			Date:     sel.Date,
			StartMin: sel.StartMin,
			EndMin:   sel.EndMin,
		})
	}
	effects = append(effects, booking.Effect{Kind: booking.EffectRefreshCheckout})
	return Result{Notice: constants.NoticeSubmitSuccess, Cleared: cleared, Effects: effects}
}

// Send posts entries through saver and logs the outcome. A nil saver means
// no endpoint is configured.
func Send(ctx context.Context, saver Saver, entries []Entry) error {
	if saver == nil {
		logger.Error("Checkout failed", "error", ErrNoEndpoint, "count", len(entries))
		return ErrNoEndpoint
	}
	err := saver.Save(ctx, entries)
	if err != nil {
		logger.Error("Checkout failed", "error", err, "count", len(entries))
	} else {
		logger.Info("Bookings saved", "count", len(entries))
	}
	return err
}

// Submit sends every committed selection through saver and applies the
// outcome. An empty selection set makes no request.
func Submit(ctx context.Context, saver Saver, state *booking.State) Result {
	entries, err := Prepare(state)
	if err != nil {
		return Apply(state, err)
	}
	return Apply(state, Send(ctx, saver, entries))
}
