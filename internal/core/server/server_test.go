package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/dqm"
	"github.com/geocache/stc/internal/wcs"
)

type fakeStats struct {
	pending, running int
	workers          []dqm.WorkerInfo
}

func (f *fakeStats) Stats() (int, int)         { return f.pending, f.running }
func (f *fakeStats) Workers() []dqm.WorkerInfo { return f.workers }

type fakeRegistrar struct {
	added []*wcs.Conn
}

func (f *fakeRegistrar) AddWorker(conn *wcs.Conn) { f.added = append(f.added, conn) }

func TestHandleStats_ReportsQueueDepthAndWorkerCount(t *testing.T) {
	stats := &fakeStats{pending: 2, running: 1, workers: []dqm.WorkerInfo{{ID: "w1", NodeID: "n1", State: "idle"}}}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rr := httptest.NewRecorder()
	handleStats(stats)(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var out struct{ Pending, Running, Workers int }
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Pending)
	assert.Equal(t, 1, out.Running)
	assert.Equal(t, 1, out.Workers)
}

func TestHandleListWorkers_ReturnsWorkerList(t *testing.T) {
	stats := &fakeStats{workers: []dqm.WorkerInfo{{ID: "w1", NodeID: "n1", State: "idle"}}}

	req := httptest.NewRequest(http.MethodGet, "/workers", nil)
	rr := httptest.NewRecorder()
	handleListWorkers(stats)(rr, req)

	var out []dqm.WorkerInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "w1", out[0].ID)
}

func TestHandleRegisterWorker_RejectsMissingFields(t *testing.T) {
	registrar := &fakeRegistrar{}

	req := httptest.NewRequest(http.MethodPost, "/workers", jsonBody(`{"id":""}`))
	rr := httptest.NewRecorder()
	handleRegisterWorker(registrar, 0)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, registrar.added)
}

func TestHandleRegisterWorker_AddsWorkerOnValidRequest(t *testing.T) {
	registrar := &fakeRegistrar{}

	req := httptest.NewRequest(http.MethodPost, "/workers", jsonBody(`{"id":"w1","node_id":"n1","timeout":"5s"}`))
	rr := httptest.NewRecorder()
	handleRegisterWorker(registrar, 0)(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Len(t, registrar.added, 1)
	assert.Equal(t, "w1", registrar.added[0].ID)
	assert.Equal(t, "n1", registrar.added[0].NodeID)
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
