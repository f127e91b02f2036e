package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notifyingRun(now time.Time) monitor.Run {
	return monitor.ReconstructRun(
		10, 1, 7, monitor.StateNotifying, nil,
		research.Findings{}, "momentum changed", "Hi founders", now, nil, "", now, now,
	)
}

func TestNotifySendsAndTerminates(t *testing.T) {
	now := time.Now()
	users := newFakeUserStore(user.Reconstruct(7, "Pat Partner", "pat@firm.example.com"))
	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	notifier := &fakeNotifier{}

	h := NewNotify(users, companies, notifier, testLogger())

	run, err := h.Execute(context.Background(), notifyingRun(now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateTerminated, run.State())

	require.Len(t, notifier.escalations, 1)
	sent := notifier.escalations[0]
	assert.Equal(t, "pat@firm.example.com", sent.Recipient().Email())
	assert.Equal(t, "Acme", sent.Company().Name())
	assert.Equal(t, "momentum changed", sent.Reasoning())
	assert.Equal(t, "Hi founders", sent.Outreach())
}

func TestNotifyMissingUserStillTerminates(t *testing.T) {
	now := time.Now()
	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	notifier := &fakeNotifier{}

	h := NewNotify(newFakeUserStore(), companies, notifier, testLogger())

	run, err := h.Execute(context.Background(), notifyingRun(now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateTerminated, run.State())
	assert.Empty(t, notifier.escalations)
}

func TestNotifyDeliveryErrorRetries(t *testing.T) {
	now := time.Now()
	users := newFakeUserStore(user.Reconstruct(7, "Pat Partner", "pat@firm.example.com"))
	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	notifier := &fakeNotifier{err: errors.New("smtp down")}

	h := NewNotify(users, companies, notifier, testLogger())

	run, err := h.Execute(context.Background(), notifyingRun(now))
	require.Error(t, err)

	// State is unchanged so the engine retries the notify step.
	assert.Equal(t, monitor.StateNotifying, run.State())
}
