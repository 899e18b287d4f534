package usecases

import (
	"context"
	"fmt"
	"time"

	"contact_relay/internal/entities"
	"contact_relay/internal/interfaces"
	"contact_relay/internal/metrics"

	"github.com/rs/zerolog"
)

// DefaultReminderInterval is the pause between two poll iterations.
const DefaultReminderInterval = 300 * time.Second

// PollResult summarises one poll iteration.
type PollResult struct {
	Fetched      int
	Delivered    int
	Acknowledged int
	Failed       int
	Err          error // fetch failure; per-reminder failures only count in Failed
}

// ReminderPoller forwards due reminders from the backend to the chat.
type ReminderPoller struct {
	backend  interfaces.BackendAPI
	notifier interfaces.Notifier
	interval time.Duration
	metrics  *metrics.RelayMetrics
	log      zerolog.Logger
}

func NewReminderPoller(backend interfaces.BackendAPI, notifier interfaces.Notifier, interval time.Duration, m *metrics.RelayMetrics, log zerolog.Logger) *ReminderPoller {
	if interval <= 0 {
		interval = DefaultReminderInterval
	}
	return &ReminderPoller{
		backend:  backend,
		notifier: notifier,
		interval: interval,
		metrics:  m,
		log:      log,
	}
}

// PollerHandle controls a running poll loop.
type PollerHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the loop and waits for it to exit. Safe to call more than once.
func (h *PollerHandle) Stop() {
	h.cancel()
	<-h.done
}

// Done is closed once the loop has exited.
func (h *PollerHandle) Done() <-chan struct{} {
	return h.done
}

// Start runs the first iteration immediately and then one iteration per
// interval until the returned handle is stopped or ctx is cancelled.
func (p *ReminderPoller) Start(ctx context.Context) *PollerHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &PollerHandle{cancel: cancel, done: make(chan struct{})}

	p.log.Info().Dur("interval", p.interval).Msg("reminder poller started")
	go p.loop(ctx, h.done)
	return h
}

func (p *ReminderPoller) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("reminder poller stopped")
			return
		case <-timer.C:
		}

		p.safeRun(ctx)
		timer.Reset(p.interval)
	}
}

// safeRun keeps a panicking iteration from taking the loop down.
func (p *ReminderPoller) safeRun(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.ObservePollerRun("panic")
			p.log.Error().Interface("panic", r).Msg("reminder poll panicked")
		}
	}()
	p.RunOnce(ctx)
}

// RunOnce fetches due reminders and delivers each one independently: a
// reminder is acknowledged only after its message was sent, and a failure on
// one reminder does not stop the rest of the batch.
func (p *ReminderPoller) RunOnce(ctx context.Context) PollResult {
	reminders, err := p.backend.DueReminders(ctx)
	if err != nil {
		p.metrics.ObservePollerRun("fetch_failed")
		p.log.Error().Err(err).Msg("fetch due reminders failed")
		return PollResult{Err: fmt.Errorf("fetch due reminders: %w", err)}
	}

	res := PollResult{Fetched: len(reminders)}
	if len(reminders) == 0 {
		p.metrics.ObservePollerRun("empty")
		p.log.Debug().Msg("no due reminders")
		return res
	}
	p.log.Info().Int("count", len(reminders)).Msg("due reminders fetched")

	for _, r := range reminders {
		if ctx.Err() != nil {
			break
		}
		delivered, acked := p.deliver(ctx, r)
		if delivered {
			res.Delivered++
		}
		if acked {
			res.Acknowledged++
		} else {
			res.Failed++
		}
	}

	outcome := "ok"
	if res.Failed > 0 {
		outcome = "partial"
	}
	p.metrics.ObservePollerRun(outcome)
	return res
}

func (p *ReminderPoller) deliver(ctx context.Context, r entities.ReminderRecord) (delivered, acked bool) {
	log := p.log.With().Int64("contact_id", r.ContactID).Logger()

	if err := p.notifier.SendDueReminder(ctx, r); err != nil {
		log.Error().Err(err).Msg("reminder delivery failed")
		return false, false
	}
	if err := p.backend.MarkReminderSent(ctx, r.ContactID); err != nil {
		log.Error().Err(err).Msg("mark reminder sent failed")
		return true, false
	}
	log.Info().Msg("reminder delivered")
	return true, true
}
