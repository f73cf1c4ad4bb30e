package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recruitment-performance/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("delivers asynchronously after the publishing context is cancelled", func() {
		var got atomic.Int64
		bus.Subscribe(events.EventTypeDropoutCreated, func(ctx context.Context, e events.Event) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			got.Store(e.(*events.DropoutCreatedEvent).DropoutRequestID)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewDropoutCreatedEvent(7, 1, 2, "candidate withdrew", time.Now()))).To(Succeed())
		cancel()
		bus.Wait()

		Expect(got.Load()).To(Equal(int64(7)))
	})

	It("reports every published event to the observer", func() {
		var seen []string
		bus.OnPublish(func(eventType string) { seen = append(seen, eventType) })

		Expect(bus.PublishSync(context.Background(), events.NewDropoutAcknowledgedEvent(1, 2, 3, time.Now()))).To(Succeed())
		Expect(seen).To(Equal([]string{events.EventTypeDropoutAcknowledged}))
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe(events.EventTypeDropoutDecided, func(ctx context.Context, e events.Event) error {
			return errors.New("sink unavailable")
		})
		status := "lost"
		err := bus.PublishSync(context.Background(), events.NewDropoutDecidedEvent(1, 2, 3, "accepted", &status, true, time.Now()))
		Expect(err).To(MatchError(ContainSubstring("sink unavailable")))
	})

	It("omits new_role_status from the payload when absent", func() {
		e := events.NewDropoutDecidedEvent(1, 2, 3, "ignored", nil, false, time.Now())
		Expect(e.Payload()).NotTo(HaveKey("new_role_status"))
		Expect(e.Payload()).To(HaveKeyWithValue("penalized", false))
	})
})
