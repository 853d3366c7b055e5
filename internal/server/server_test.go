package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/store"
)

const packBody = `{
	// two pallet lines into a 20' box
	"preset": "20ft",
	"settings": {"support_fraction": 0.6},
	"items": [
		{"id": "pal", "name": "Pallet", "length": 120, "width": 80, "height": 100, "weight": 300, "quantity": 4},
		{"id": "box", "name": "Box", "length": 60, "width": 40, "height": 40, "weight": 20, "quantity": 3},
	]
}`

func newTestServer(t *testing.T, withStore bool) (*Server, *httptest.Server) {
	t.Helper()
	var layouts LayoutStore
	if withStore {
		st, err := store.Open(filepath.Join(t.TempDir(), "layouts.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		layouts = st
	}
	s := New(Config{Workers: 2, RunTimeout: 10 * time.Second, Settings: model.DefaultSettings()}, layouts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, false)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestPack(t *testing.T) {
	_, ts := newTestServer(t, false)

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack", packBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[PackResponse](t, resp)
	assert.False(t, body.Partial)
	assert.Equal(t, 7, body.Stats.TotalItems)
	assert.Equal(t, 7, body.Stats.FittedItems)
	assert.Equal(t, "20ft", body.Result.Container.Label)
	assert.Equal(t, 0.6, body.Result.Settings.SupportFraction, "request settings overlay the base")
	assert.Equal(t, model.DefaultSettings().GridIterLimit, body.Result.Settings.GridIterLimit)
	assert.Empty(t, body.LayoutID)
}

func TestPack_BadRequests(t *testing.T) {
	_, ts := newTestServer(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"preset": `},
		{"no container", `{"items": [{"id": "a", "length": 1, "width": 1, "height": 1, "weight": 1}]}`},
		{"unknown preset", `{"preset": "90ft", "items": []}`},
		{"invalid spec", `{"preset": "20ft", "items": [{"id": "a", "length": -1, "width": 1, "height": 1, "weight": 1}]}`},
		{"invalid settings", `{"preset": "20ft", "settings": {"support_fraction": 2}, "items": []}`},
		{"invalid container", `{"container": {"length": 0, "width": 1, "height": 1}, "items": []}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decode[errorResponse](t, resp).Error)
		})
	}
}

func TestPack_Busy(t *testing.T) {
	s := New(Config{Workers: 1, RunTimeout: 50 * time.Millisecond, Settings: model.DefaultSettings()}, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	require.NoError(t, s.pool.Acquire(context.Background(), 1))
	defer s.pool.Release(1)

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack", packBody)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPack_SaveWithoutStore(t *testing.T) {
	_, ts := newTestServer(t, false)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack?save=monday", packBody)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLayoutsLifecycle(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack?save=monday", packBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	packed := decode[PackResponse](t, resp)
	require.NotEmpty(t, packed.LayoutID)
	id := packed.LayoutID

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/layouts", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]store.LayoutSummary](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "monday", list[0].Name)
	assert.Equal(t, 7, list[0].FittedItems)

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/layouts/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	layout := decode[store.Layout](t, resp)
	assert.Equal(t, packed.Result.Items, layout.Result.Items)

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/layouts/"+id+"/plan.pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	var pdf bytes.Buffer
	_, err := pdf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))

	resp = do(t, http.MethodDelete, ts.URL+"/api/v1/layouts/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/layouts/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodDelete, ts.URL+"/api/v1/layouts/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSaveLayout(t *testing.T) {
	_, ts := newTestServer(t, true)

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack", packBody)
	packed := decode[PackResponse](t, resp)

	payload, err := json.Marshal(SaveLayoutRequest{Name: "posted", Result: packed.Result})
	require.NoError(t, err)
	resp = do(t, http.MethodPost, ts.URL+"/api/v1/layouts", string(payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sum := decode[store.LayoutSummary](t, resp)
	assert.Equal(t, "posted", sum.Name)

	resp = do(t, http.MethodPost, ts.URL+"/api/v1/layouts", `{"result": {}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLayouts_NoStore(t *testing.T) {
	_, ts := newTestServer(t, false)
	for _, path := range []string{"/api/v1/layouts", "/api/v1/layouts/abc", "/api/v1/layouts/abc/plan.pdf"} {
		resp := do(t, http.MethodGet, ts.URL+path, "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestVerify(t *testing.T) {
	_, ts := newTestServer(t, false)

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/pack", packBody)
	packed := decode[PackResponse](t, resp)

	good, err := json.Marshal(packed.Result)
	require.NoError(t, err)
	resp = do(t, http.MethodPost, ts.URL+"/api/v1/verify", string(good))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[VerifyResponse](t, resp)
	assert.True(t, v.Valid)
	assert.Empty(t, v.Violations)

	// stack the second unit into the first
	broken := packed.Result
	broken.Items = append([]model.UnitItem(nil), packed.Result.Items...)
	broken.Items[1].X, broken.Items[1].Y, broken.Items[1].Z = broken.Items[0].X, broken.Items[0].Y, broken.Items[0].Z
	bad, err := json.Marshal(broken)
	require.NoError(t, err)
	resp = do(t, http.MethodPost, ts.URL+"/api/v1/verify", string(bad))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decode[VerifyResponse](t, resp)
	assert.False(t, v.Valid)
	assert.NotEmpty(t, v.Violations)
}

func TestVerify_SettingsFallback(t *testing.T) {
	_, ts := newTestServer(t, false)
	floating := func(settings string) string {
		return `{"container": {"length": 100, "width": 100, "height": 100},` + settings +
			`"items": [{"id": "a_1", "spec_id": "a", "length": 10, "width": 10, "height": 10, "weight": 1, "z": 20, "fitted": true}]}`
	}

	tests := []struct {
		name        string
		body        string
		wantValid   bool
		wantWarning bool
		support     float64
	}{
		{"missing settings use server defaults", floating(""), false, true, 0.5},
		{"null settings use server defaults", floating(`"settings": null,`), false, true, 0.5},
		{"invalid settings use server defaults", floating(`"settings": {"support_fraction": 7},`), false, true, 0.5},
		{"partial settings overlay defaults", floating(`"settings": {"support_fraction": 0},`), true, false, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/api/v1/verify", tc.body)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			v := decode[VerifyResponse](t, resp)
			assert.Equal(t, tc.wantValid, v.Valid)
			assert.Equal(t, tc.wantWarning, v.Warning != "")
			assert.Equal(t, tc.support, v.Settings.SupportFraction)
			assert.Equal(t, model.DefaultSettings().CollisionTolerance, v.Settings.CollisionTolerance)
		})
	}
}

func TestChargeableWeight(t *testing.T) {
	_, ts := newTestServer(t, false)
	body := `{"items": [
		{"id": "pal", "name": "Pallet", "length": 120, "width": 80, "height": 100, "weight": 50, "quantity": 2},
		{"id": "steel", "length": 50, "width": 50, "height": 20, "weight": 200}
	]}`

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/chargeable-weight", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cw := decode[ChargeableResponse](t, resp)

	require.Len(t, cw.Lines, 2)
	assert.Equal(t, "pal", cw.Lines[0].ID)
	assert.InDelta(t, 320.0, cw.Lines[0].ChargeableWeight.ChargeableWeight, 1e-9)
	assert.Equal(t, 1, cw.Lines[1].Quantity)
	assert.Equal(t, 200.0, cw.Lines[1].ChargeableWeight.ChargeableWeight)

	assert.InDelta(t, 300.0, cw.Total.ActualWeight, 1e-9)
	assert.InDelta(t, 1.97, cw.Total.CBM, 1e-9)
	assert.InDelta(t, 1970000.0/6000.0, cw.Total.ChargeableWeight, 1e-9)
}

func TestChargeableWeight_BadRequests(t *testing.T) {
	_, ts := newTestServer(t, false)
	for name, body := range map[string]string{
		"no items":      `{"items": []}`,
		"zero quantity": `{"items": [{"id": "a", "length": 1, "width": 1, "height": 1, "weight": 1, "quantity": 0}]}`,
		"malformed":     `{"items": [`,
	} {
		resp := do(t, http.MethodPost, ts.URL+"/api/v1/chargeable-weight", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
	}
}

func TestPresets(t *testing.T) {
	_, ts := newTestServer(t, false)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/presets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	presets := decode[[]model.ContainerPreset](t, resp)
	assert.Len(t, presets, len(model.ContainerPresets))
	assert.Equal(t, "20ft", presets[0].Name)
}

func TestCompare(t *testing.T) {
	_, ts := newTestServer(t, false)
	resp := do(t, http.MethodPost, ts.URL+"/api/v1/compare", packBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[CompareResponse](t, resp)
	require.NotEmpty(t, body.Runs)
	assert.Equal(t, "Current Settings", body.Runs[0].Scenario)
	assert.Equal(t, len(body.Runs), body.Summary.Runs)
	for _, run := range body.Runs {
		assert.Empty(t, run.Error)
		assert.Equal(t, 7, run.FittedCount)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, false)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/pack", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
