package handler

import (
	"context"
	"testing"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func researchingRun(roundID int64, now time.Time) monitor.Run {
	return monitor.ReconstructRun(
		10, 1, 1, monitor.StateResearching, ptrInt64(roundID),
		research.Findings{}, "", "", now, nil, "", now, now,
	)
}

func TestResearchStagesCompleteFindings(t *testing.T) {
	now := time.Now()
	rounds := newFakeRoundStore()
	pending, err := rounds.Save(context.Background(), round.New(1, 2, now))
	require.NoError(t, err)

	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	collector := &fakeCollector{findings: research.FromStrings("f", "s", "c")}

	h := NewResearch(companies, rounds, collector, round.PolicyReuseNumber, testLogger()).
		WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), researchingRun(pending.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateFinalizing, run.State())
	assert.True(t, run.Findings().Complete())
	assert.Equal(t, 1, collector.calls)
}

func TestResearchPassesPreviousRoundToCollector(t *testing.T) {
	now := time.Now()
	rounds := newFakeRoundStore()
	previous, err := rounds.Save(context.Background(), round.Reconstruct(
		0, 1, 1, now, "old financial", "old sentiment", "old customer", true, now, now))
	require.NoError(t, err)
	pending, err := rounds.Save(context.Background(), round.New(1, 2, now))
	require.NoError(t, err)

	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	collector := &fakeCollector{findings: research.FromStrings("f", "s", "c")}

	h := NewResearch(companies, rounds, collector, round.PolicyReuseNumber, testLogger()).
		WithClock(fixedClock(now))

	_, err = h.Execute(context.Background(), researchingRun(pending.ID(), now))
	require.NoError(t, err)

	require.NotNil(t, collector.prev)
	assert.Equal(t, previous.ID(), collector.prev.ID())
	assert.Equal(t, "old financial", collector.prev.FinancialInfo())
}

func TestResearchAbandonsIncompleteRoundUnderReusePolicy(t *testing.T) {
	now := time.Now()
	rounds := newFakeRoundStore()
	pending, err := rounds.Save(context.Background(), round.New(1, 2, now))
	require.NoError(t, err)

	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	incomplete := research.FromStrings("f", "s", "c")
	incomplete.Sentiment = nil
	collector := &fakeCollector{findings: incomplete}

	h := NewResearch(companies, rounds, collector, round.PolicyReuseNumber, testLogger()).
		WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), researchingRun(pending.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateScheduling, run.State())
	_, ok := run.PendingRoundID()
	assert.False(t, ok)

	// The abandoned round is deleted so its number is re-created next pass.
	_, err = rounds.Get(context.Background(), pending.ID())
	assert.Error(t, err)
}

func TestResearchKeepsIncompleteRoundUnderSkipPolicy(t *testing.T) {
	now := time.Now()
	rounds := newFakeRoundStore()
	pending, err := rounds.Save(context.Background(), round.New(1, 2, now))
	require.NoError(t, err)

	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	collector := &fakeCollector{findings: research.Findings{}}

	h := NewResearch(companies, rounds, collector, round.PolicySkipNumber, testLogger()).
		WithClock(fixedClock(now))

	run, err := h.Execute(context.Background(), researchingRun(pending.ID(), now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateScheduling, run.State())

	kept, err := rounds.Get(context.Background(), pending.ID())
	require.NoError(t, err)
	assert.False(t, kept.Completed())
}

func TestResearchReschedulesWhenPendingRoundAlreadyDeleted(t *testing.T) {
	now := time.Now()
	rounds := newFakeRoundStore()
	companies := newFakeCompanyStore(company.New("Acme", "", "robotics", "", "", "too early").WithID(1))
	collector := &fakeCollector{findings: research.FromStrings("f", "s", "c")}

	h := NewResearch(companies, rounds, collector, round.PolicyReuseNumber, testLogger()).
		WithClock(fixedClock(now))

	// A crash between deleting an abandoned round and writing the rescheduled
	// run replays RESEARCHING with a dangling round reference. The replay must
	// complete the reschedule rather than error on every retry.
	run, err := h.Execute(context.Background(), researchingRun(42, now))
	require.NoError(t, err)

	assert.Equal(t, monitor.StateScheduling, run.State())
	_, ok := run.PendingRoundID()
	assert.False(t, ok)
	assert.Zero(t, collector.calls)
}

func TestResearchFailsWithoutPendingRound(t *testing.T) {
	now := time.Now()
	h := NewResearch(newFakeCompanyStore(), newFakeRoundStore(), &fakeCollector{}, round.PolicyReuseNumber, testLogger())

	run := monitor.NewRun(1, 1, now).Woken(now)
	_, err := h.Execute(context.Background(), run)
	assert.Error(t, err)
}
