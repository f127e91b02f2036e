package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeProvider resolves each submitted instruction by substring match, so
// tests can control the three query outcomes independently.
type fakeProvider struct {
	mu        sync.Mutex
	submitted []string

	submitErr    func(instruction string) error
	pollErr      func(instruction string) error
	resultStatus func(instruction string) research.Status
}

func (f *fakeProvider) Submit(_ context.Context, instruction string) (research.TaskHandle, error) {
	f.mu.Lock()
	f.submitted = append(f.submitted, instruction)
	f.mu.Unlock()
	if f.submitErr != nil {
		if err := f.submitErr(instruction); err != nil {
			return research.TaskHandle{}, err
		}
	}
	return research.NewTaskHandle(instruction), nil
}

func (f *fakeProvider) PollUntilFinished(_ context.Context, handle research.TaskHandle) (research.Result, error) {
	instruction := handle.ID()
	if f.pollErr != nil {
		if err := f.pollErr(instruction); err != nil {
			return research.Result{}, err
		}
	}
	status := research.StatusCompleted
	if f.resultStatus != nil {
		status = f.resultStatus(instruction)
	}
	return research.NewResult(status, "result for: "+instruction), nil
}

func acme() company.Company {
	return company.New("Acme", "robots", "robotics", "https://acme.example.com", "", "too early").WithID(1)
}

func TestCollectorCollectsAllThreeKinds(t *testing.T) {
	provider := &fakeProvider{}
	collector := NewCollector(provider, testLogger())

	findings := collector.Collect(context.Background(), acme(), nil)

	require.True(t, findings.Complete())
	assert.Contains(t, *findings.FinancialInfo, "financial information")
	assert.Contains(t, *findings.Sentiment, "public sentiment")
	assert.Contains(t, *findings.CustomerInfo, "customer information")
	assert.Len(t, provider.submitted, 3)
}

func TestCollectorPartialFailureLeavesFindingNil(t *testing.T) {
	provider := &fakeProvider{
		submitErr: func(instruction string) error {
			if strings.Contains(instruction, "public sentiment") {
				return errors.New("backend unavailable")
			}
			return nil
		},
	}
	collector := NewCollector(provider, testLogger())

	findings := collector.Collect(context.Background(), acme(), nil)

	assert.False(t, findings.Complete())
	assert.Nil(t, findings.Sentiment)
	assert.NotNil(t, findings.FinancialInfo)
	assert.NotNil(t, findings.CustomerInfo)
	assert.Equal(t, []string{"sentiment"}, findings.Missing())
}

func TestCollectorPollFailureLeavesFindingNil(t *testing.T) {
	provider := &fakeProvider{
		pollErr: func(instruction string) error {
			if strings.Contains(instruction, "financial information") {
				return errors.New("timeout")
			}
			return nil
		},
	}
	collector := NewCollector(provider, testLogger())

	findings := collector.Collect(context.Background(), acme(), nil)

	assert.Nil(t, findings.FinancialInfo)
	assert.NotNil(t, findings.Sentiment)
}

func TestCollectorNonCompletedStatusLeavesFindingNil(t *testing.T) {
	provider := &fakeProvider{
		resultStatus: func(instruction string) research.Status {
			if strings.Contains(instruction, "customer information") {
				return research.StatusFailed
			}
			return research.StatusCompleted
		},
	}
	collector := NewCollector(provider, testLogger())

	findings := collector.Collect(context.Background(), acme(), nil)

	assert.Nil(t, findings.CustomerInfo)
	assert.NotNil(t, findings.FinancialInfo)
	assert.NotNil(t, findings.Sentiment)
}

func TestCollectorInstructionsIncludePreviousFindings(t *testing.T) {
	now := acme().CreatedAt()
	prev := round.Reconstruct(1, 1, 1, now,
		"prior financial", "prior sentiment", "prior customer", true, now, now)

	provider := &fakeProvider{}
	collector := NewCollector(provider, testLogger())

	collector.Collect(context.Background(), acme(), &prev)

	joined := strings.Join(provider.submitted, "\n---\n")
	assert.Contains(t, joined, "prior financial")
	assert.Contains(t, joined, "prior sentiment")
	assert.Contains(t, joined, "prior customer")
}
