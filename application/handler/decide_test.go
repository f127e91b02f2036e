package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/decision"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decidingRun(roundID int64, now time.Time) monitor.Run {
	return monitor.ReconstructRun(
		10, 1, 1, monitor.StateDeciding, ptrInt64(roundID),
		research.Findings{}, "", "", now, nil, "", now, now,
	)
}

func decideFixture(t *testing.T, now time.Time) (*fakeRoundStore, *fakeCompanyStore, round.ScrapeRound) {
	t.Helper()
	rounds := newFakeRoundStore()
	_, err := rounds.Save(context.Background(), round.Reconstruct(
		0, 1, 1, now, "old f", "old s", "old c", true, now, now))
	require.NoError(t, err)
	current, err := rounds.Save(context.Background(), round.Reconstruct(
		0, 1, 2, now, "new f", "new s", "new c", true, now, now))
	require.NoError(t, err)

	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	return rounds, companies, current
}

func TestDecideActionableEscalates(t *testing.T) {
	now := time.Now()
	rounds, companies, current := decideFixture(t, now)

	outreach := "Hi founders, let's talk."
	model := &fakeModel{decision: decision.Decision{
		ShouldInvest:    true,
		Reasoning:       "momentum changed",
		OutreachMessage: &outreach,
	}}

	h := NewDecide(companies, rounds, model, testLogger()).WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), decidingRun(current.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateNotifying, run.State())
	assert.Equal(t, "momentum changed", run.Reasoning())
	assert.Equal(t, outreach, run.Outreach())

	// The prompt carries both round snapshots.
	assert.Contains(t, model.prompt.Text(), "old f")
	assert.Contains(t, model.prompt.Text(), "new f")
}

func TestDecideNegativeContinuesMonitoring(t *testing.T) {
	now := time.Now()
	rounds, companies, current := decideFixture(t, now)

	model := &fakeModel{decision: decision.Decision{ShouldInvest: false, Reasoning: "still early"}}

	h := NewDecide(companies, rounds, model, testLogger()).WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), decidingRun(current.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateScheduling, run.State())
	assert.Empty(t, run.Reasoning())
	_, ok := run.PendingRoundID()
	assert.False(t, ok)
}

func TestDecidePositiveWithoutOutreachContinuesMonitoring(t *testing.T) {
	now := time.Now()
	rounds, companies, current := decideFixture(t, now)

	model := &fakeModel{decision: decision.Decision{ShouldInvest: true, Reasoning: "yes but no message"}}

	h := NewDecide(companies, rounds, model, testLogger()).WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), decidingRun(current.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateScheduling, run.State())
}

func TestDecideMissingComparisonRoundReschedules(t *testing.T) {
	now := time.Now()
	rounds := newFakeRoundStore()
	current, err := rounds.Save(context.Background(), round.Reconstruct(
		0, 1, 1, now, "f", "s", "c", true, now, now))
	require.NoError(t, err)

	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	model := &fakeModel{}

	h := NewDecide(companies, rounds, model, testLogger()).WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), decidingRun(current.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateScheduling, run.State())
	assert.Empty(t, model.prompt.Text())
}

func TestDecideModelErrorPropagates(t *testing.T) {
	now := time.Now()
	rounds, companies, current := decideFixture(t, now)

	model := &fakeModel{err: errors.New("rate limited")}

	h := NewDecide(companies, rounds, model, testLogger()).WithClock(fixedClock(now))

	original := decidingRun(current.ID(), now)
	run, err := h.Execute(context.Background(), original)
	require.Error(t, err)
	assert.Equal(t, monitor.StateDeciding, run.State())
}
