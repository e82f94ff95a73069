package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btkit/btdiff/internal/adapters/httpapi"
	"github.com/btkit/btdiff/internal/adapters/memory"
	"github.com/btkit/btdiff/internal/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := httpapi.NewHandler(memory.NewStore(), logging.NewNop())
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func postCompare(t *testing.T, srv *httptest.Server, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+"/api/compare", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleCompare(t *testing.T) {
	srv := newTestServer(t)

	resp := postCompare(t, srv, httpapi.CompareRequest{
		OldDocument: `<Sequence><Wait duration="5"/></Sequence>`,
		NewDocument: `<Sequence><Wait duration="10"/></Sequence>`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out httpapi.CompareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.ID)
	require.NotNil(t, out.Result)
	assert.Equal(t, 1, out.Result.Summary.Modified)
	assert.Equal(t, 1, out.Result.Summary.Unchanged)
}

func TestHandleCompare_ReportIsCached(t *testing.T) {
	srv := newTestServer(t)

	resp := postCompare(t, srv, httpapi.CompareRequest{
		OldDocument: `<Wait duration="5"/>`,
		NewDocument: `<Wait duration="10"/>`,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out httpapi.CompareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	report, err := http.Get(srv.URL + "/api/report/" + out.ID)
	require.NoError(t, err)
	defer report.Body.Close()
	assert.Equal(t, http.StatusOK, report.StatusCode)
	assert.Contains(t, report.Header.Get("Content-Type"), "text/html")
}

func TestHandleCompare_RequestOverrides(t *testing.T) {
	srv := newTestServer(t)

	resp := postCompare(t, srv, httpapi.CompareRequest{
		OldDocument:      `<Wait name="p" _description="a"/>`,
		NewDocument:      `<Wait name="p" _description="b"/>`,
		IgnoreAttributes: []string{"_description"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out httpapi.CompareResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Result.Summary.Changed())
}

func TestHandleCompare_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	t.Run("invalid JSON", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/compare", "application/json",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing documents", func(t *testing.T) {
		resp := postCompare(t, srv, httpapi.CompareRequest{OldDocument: "<Wait/>"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleCompare_TypedErrorKinds(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		oldDoc   string
		newDoc   string
		wantKind string
	}{
		{
			name:     "malformed markup",
			oldDoc:   "<Sequence><Wait></Sequence>",
			newDoc:   "<Wait/>",
			wantKind: "parse_error",
		},
		{
			name:     "unresolved subtree",
			oldDoc:   `<Sequence><SubTree ID="Ghost"/></Sequence>`,
			newDoc:   "<Wait/>",
			wantKind: "unresolved_subtree",
		},
		{
			name: "cyclic subtree",
			oldDoc: `<root main_tree_to_execute="A">
				<BehaviorTree ID="A"><Sequence><SubTree ID="A"/></Sequence></BehaviorTree>
			</root>`,
			newDoc:   "<Wait/>",
			wantKind: "cyclic_subtree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postCompare(t, srv, httpapi.CompareRequest{
				OldDocument: tt.oldDoc,
				NewDocument: tt.newDoc,
			})
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

			var out struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.NotEmpty(t, out.Error)
		})
	}
}

func TestHandleReport_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/report/unknown")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// One successful comparison, then scrape.
	resp := postCompare(t, srv, httpapi.CompareRequest{
		OldDocument: "<Wait/>", NewDocument: "<Wait/>",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	require.Equal(t, http.StatusOK, metrics.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "btdiff_comparisons_total")
	assert.Contains(t, buf.String(), `outcome="ok"`)
}
