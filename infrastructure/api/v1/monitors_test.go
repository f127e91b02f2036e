package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sagohq/sago"
	"github.com/sagohq/sago/domain/user"
	v1 "github.com/sagohq/sago/infrastructure/api/v1"
	"github.com/sagohq/sago/infrastructure/api/v1/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monitorFixture(t *testing.T) (*sago.Client, int64, int64) {
	t.Helper()
	client := testClient(t)

	created := createCompany(t, v1.NewCompaniesRouter(client).Routes(), "Acme")
	companyID, err := strconv.ParseInt(created.ID, 10, 64)
	require.NoError(t, err)

	u, err := client.Users.Create(context.Background(), user.New("Pat Partner", "pat@firm.example.com"))
	require.NoError(t, err)

	return client, companyID, u.ID()
}

func startMonitor(t *testing.T, handler http.Handler, companyID, userID int64) dto.RunData {
	t.Helper()
	body, err := json.Marshal(dto.MonitorStartRequest{
		Data: dto.MonitorStartData{
			Type:       "run",
			Attributes: dto.MonitorStartAttributes{CompanyID: companyID, UserID: userID},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.RunResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Data
}

func TestMonitorsStartAndStatus(t *testing.T) {
	client, companyID, userID := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	run := startMonitor(t, handler, companyID, userID)
	assert.Equal(t, "run", run.Type)
	assert.Equal(t, "scheduling", run.Attributes.State)
	assert.Equal(t, companyID, run.Attributes.CompanyID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/companies/%d", companyID), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status dto.RunResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, run.ID, status.Data.ID)
}

func TestMonitorsStartValidatesIDs(t *testing.T) {
	client, _, _ := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	body := []byte(`{"data": {"type": "run", "attributes": {"company_id": 0, "user_id": 0}}}`)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMonitorsStartDuplicateConflicts(t *testing.T) {
	client, companyID, userID := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	startMonitor(t, handler, companyID, userID)

	body, err := json.Marshal(dto.MonitorStartRequest{
		Data: dto.MonitorStartData{
			Type:       "run",
			Attributes: dto.MonitorStartAttributes{CompanyID: companyID, UserID: userID},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMonitorsStatusWithoutLiveRun(t *testing.T) {
	client, companyID, _ := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/companies/%d", companyID), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no live monitor")
}

func TestMonitorsCancel(t *testing.T) {
	client, companyID, userID := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	startMonitor(t, handler, companyID, userID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/companies/%d", companyID), nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Cancelling again conflicts: there is no live run left.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/companies/%d", companyID), nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMonitorsGetRun(t *testing.T) {
	client, companyID, userID := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	run := startMonitor(t, handler, companyID, userID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/"+run.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got dto.RunResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, userID, got.Data.Attributes.UserID)
}

func TestMonitorsList(t *testing.T) {
	client, companyID, userID := monitorFixture(t)
	handler := v1.NewMonitorsRouter(client).Routes()

	startMonitor(t, handler, companyID, userID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.RunListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
}
