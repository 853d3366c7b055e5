package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/piwi3910/CargoFit/internal/engine"
	"github.com/piwi3910/CargoFit/internal/export"
	"github.com/piwi3910/CargoFit/internal/importer"
	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/store"
)

var (
	errBusy      = errors.New("no worker available before the deadline")
	errNoStorage = errors.New("layout storage is not configured")
	errBadBody   = errors.New("invalid request body")
)

// PackResponse is the body returned by the pack endpoint.
type PackResponse struct {
	Result   model.PackResult `json:"result"`
	Stats    model.PackStats  `json:"stats"`
	Partial  bool             `json:"partial"` // the run hit its deadline; remaining units are "cancelled"
	Warning  string           `json:"warning,omitempty"`
	LayoutID string           `json:"layout_id,omitempty"`
}

// CompareResponse is the body returned by the compare endpoint.
type CompareResponse struct {
	Runs    []CompareRun             `json:"runs"`
	Summary engine.ComparisonSummary `json:"summary"`
}

// CompareRun is one scenario outcome.
type CompareRun struct {
	Scenario          string  `json:"scenario"`
	FittedCount       int     `json:"fitted_count"`
	UnfittedCount     int     `json:"unfitted_count"`
	Efficiency        float64 `json:"efficiency"`
	WeightUtilization float64 `json:"weight_utilization"`
	Error             string  `json:"error,omitempty"`
}

// VerifyResponse is the body returned by the verify endpoint.
type VerifyResponse struct {
	Valid      bool               `json:"valid"`
	Violations []engine.Violation `json:"violations"`
	Settings   model.PackSettings `json:"settings"` // tolerances the layout was checked with
	Warning    string             `json:"warning,omitempty"`
}

// ChargeableResponse is the body returned by the chargeable-weight endpoint.
type ChargeableResponse struct {
	Lines []ChargeableLine       `json:"lines"`
	Total model.ChargeableWeight `json:"total"`
}

// ChargeableLine rates one cargo line.
type ChargeableLine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	model.ChargeableWeight
}

// SaveLayoutRequest stores an already computed result.
type SaveLayoutRequest struct {
	Name   string           `json:"name"`
	Result model.PackResult `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps err onto an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrInvalidSpec),
		errors.Is(err, model.ErrInvalidContainer),
		errors.Is(err, model.ErrInvalidSettings),
		errors.Is(err, importer.ErrNoContainer),
		errors.Is(err, errBadBody):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBusy), errors.Is(err, errNoStorage):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return data, nil
}

// job is a decoded packing request.
type job struct {
	container model.Container
	settings  model.PackSettings
	specs     []model.CargoSpec
}

func (s *Server) decodeJob(w http.ResponseWriter, r *http.Request) (job, error) {
	data, err := readBody(w, r)
	if err != nil {
		return job{}, err
	}
	f, err := importer.ParseCargoFile(data)
	if err != nil {
		return job{}, fmt.Errorf("%w: %v", errBadBody, err)
	}
	c, err := f.ResolveContainer()
	if err != nil {
		return job{}, err
	}
	settings, err := f.ResolveSettings(s.cfg.Settings)
	if err != nil {
		return job{}, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return job{container: c, settings: settings, specs: f.Items}, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pack runs one packing job. With ?save=<name> the result is also stored.
func (s *Server) pack(w http.ResponseWriter, r *http.Request) {
	j, err := s.decodeJob(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	saveAs := strings.TrimSpace(r.URL.Query().Get("save"))
	if saveAs != "" && s.layouts == nil {
		writeError(w, errNoStorage)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RunTimeout)
	defer cancel()

	release, err := s.acquire(ctx, 1)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := engine.New(j.settings).Pack(ctx, j.container, j.specs)
	release()

	resp := PackResponse{Result: result, Stats: result.Stats()}
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			writeError(w, err)
			return
		}
		resp.Partial = true
		resp.Warning = err.Error()
	}

	if saveAs != "" {
		sum, err := s.layouts.Save(r.Context(), saveAs, result)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.LayoutID = sum.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

// compare runs the default scenarios derived from the request's settings.
func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	j, err := s.decodeJob(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, check := range []func() error{
		j.settings.Validate,
		j.container.Validate,
		func() error { return model.ValidateSpecs(j.specs) },
	} {
		if err := check(); err != nil {
			writeError(w, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RunTimeout)
	defer cancel()

	scenarios := engine.BuildDefaultScenarios(j.settings)
	slots := min(int64(len(scenarios)), s.workers)
	release, err := s.acquire(ctx, slots)
	if err != nil {
		writeError(w, err)
		return
	}
	results, err := engine.CompareScenarios(ctx, scenarios, j.container, j.specs, int(slots))
	release()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := CompareResponse{Summary: engine.Summarize(results)}
	for _, res := range results {
		run := CompareRun{
			Scenario:          res.Scenario.Name,
			FittedCount:       res.FittedCount,
			UnfittedCount:     res.UnfittedCount,
			Efficiency:        res.Efficiency,
			WeightUtilization: res.WeightUtilization,
		}
		if res.Err != nil {
			run.Error = res.Err.Error()
		}
		resp.Runs = append(resp.Runs, run)
	}
	writeJSON(w, http.StatusOK, resp)
}

// verify re-checks a posted PackResult against the layout invariants.
// Settings in the body overlay the server defaults; when they are missing or
// invalid the server defaults are used as they are.
func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var result model.PackResult
	if err := json.Unmarshal(data, &result); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}
	var doc struct {
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}

	resp := VerifyResponse{}
	result.Settings = s.cfg.Settings
	if raw := bytes.TrimSpace(doc.Settings); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		resp.Warning = "no settings given; checked with server defaults"
	} else {
		posted := s.cfg.Settings
		err := json.Unmarshal(raw, &posted)
		if err == nil {
			err = posted.Validate()
		}
		if err != nil {
			resp.Warning = fmt.Sprintf("ignored invalid settings (%v); checked with server defaults", err)
		} else {
			result.Settings = posted
		}
	}

	resp.Violations = engine.VerifyLayout(result)
	if resp.Violations == nil {
		resp.Violations = []engine.Violation{}
	}
	resp.Valid = len(resp.Violations) == 0
	resp.Settings = result.Settings
	writeJSON(w, http.StatusOK, resp)
}

// chargeableWeight rates a cargo list for air freight: per line and for the
// list as one shipment.
func (s *Server) chargeableWeight(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := importer.ParseCargoFile(data)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}
	if len(f.Items) == 0 {
		writeError(w, fmt.Errorf("%w: no items", errBadBody))
		return
	}
	if err := model.ValidateSpecs(f.Items); err != nil {
		writeError(w, err)
		return
	}

	resp := ChargeableResponse{
		Lines: make([]ChargeableLine, 0, len(f.Items)),
		Total: model.ChargeableForSpecs(f.Items),
	}
	for _, spec := range f.Items {
		resp.Lines = append(resp.Lines, ChargeableLine{
			ID:               spec.ID,
			Name:             spec.Name,
			Quantity:         spec.Quantity,
			ChargeableWeight: spec.Chargeable(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ContainerPresets)
}

func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errNoStorage)
		return
	}
	list, err := s.layouts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) saveLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errNoStorage)
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req SaveLayoutRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errBadBody, err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, fmt.Errorf("%w: name is required", errBadBody))
		return
	}
	sum, err := s.layouts.Save(r.Context(), req.Name, req.Result)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sum)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errNoStorage)
		return
	}
	l, err := s.layouts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errNoStorage)
		return
	}
	if err := s.layouts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layoutPDF renders a saved layout as a PDF load plan.
func (s *Server) layoutPDF(w http.ResponseWriter, r *http.Request) {
	if s.layouts == nil {
		writeError(w, errNoStorage)
		return
	}
	l, err := s.layouts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, l.Result); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", l.ID+".pdf"))
	w.Write(buf.Bytes())
}
