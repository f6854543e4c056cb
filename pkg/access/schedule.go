package access

import (
	"context"
	"time"

	"github.com/common-fate/clio"
	"github.com/common-fate/jit/pkg/slackmsg"
	"github.com/common-fate/jit/pkg/webhook"
)

// scheduleRevocation arranges for the revocation signal to fire once
// the grant's duration elapses. The task is fire and forget: it holds
// no handle, cannot be cancelled, and is silently dropped if the
// process exits first. When no revocation webhook is configured no
// task is started at all.
//
// expired, when non-nil, is also sent as an access-expired
// notification after the signal fires.
func (h *Handler) scheduleRevocation(payload webhook.RevocationPayload, expired *slackmsg.AccessFacts) {
	if h.deps.Revoker == nil {
		clio.Debug("no revocation webhook configured, skipping revocation scheduling")
		return
	}

	delay := time.Duration(payload.DurationSeconds) * time.Second
	clio.Debugw("scheduling revocation signal", "delay", delay.String(), "user", payload.UserEmail)

	h.deps.Delayer.After(delay, func() {
		// the request context is long gone by the time this runs
		ctx := context.Background()
		if err := h.deps.Revoker.SendRevocation(ctx, payload); err != nil {
			clio.Warnf("Failed to send revocation webhook: %s", err.Error())
		} else {
			clio.Debugw("revocation signal delivered", "user", payload.UserEmail)
		}
		if expired != nil {
			if err := h.deps.Notifier.SendAccessExpired(ctx, *expired); err != nil {
				clio.Warnf("Failed to send access expired notification: %s", err.Error())
			}
		}
	})
}
