package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/proaptus/tanklab/pkg/analysis"
	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/store"
	"github.com/proaptus/tanklab/pkg/vessel"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	logger := log.New(io.Discard)
	runner := analysis.NewRunner(analysis.Config{}, logger)
	return NewServer(st, runner, logger), st
}

func designJSON() []byte {
	layers := make([]vessel.Layer, 12)
	for i := range layers {
		typ := vessel.LayerHelical
		angle := 15.0
		if i%3 == 2 {
			typ = vessel.LayerHoop
			angle = 89.0
		}
		layers[i] = vessel.Layer{Index: i + 1, Type: typ, AngleDeg: angle, ThicknessMM: 2}
	}
	d := vessel.Design{
		Name: "api test vessel",
		Dimensions: vessel.Dimensions{
			InnerRadiusMM:    175,
			OuterRadiusMM:    200,
			CylinderLengthMM: 1000,
			TotalLengthMM:    1400,
			WallThicknessMM:  25,
		},
		Dome: vessel.Dome{
			ProfileType:     vessel.ProfileIsotensoid,
			WindingAngleDeg: vessel.NettingAngleDeg,
			BossBoreMM:      40,
			DepthMM:         400,
		},
		Layup:     vessel.Layup{Layers: layers, LinerThicknessMM: 1},
		Pressures: vessel.Pressures{ServiceBar: 300, TestBar: 472, BurstBar: 708},
	}
	data, _ := json.Marshal(d)
	return data
}

func doRequest(t *testing.T, h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createDesign(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/designs", designJSON())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create design: status %d, body %s", rec.Code, rec.Body)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil || out.ID == "" {
		t.Fatalf("create design response: %s (%v)", rec.Body, err)
	}
	return out.ID
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv.Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type %q", got)
	}
}

func TestDesignLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	id := createDesign(t, h)

	// List shows it.
	rec := doRequest(t, h, http.MethodGet, "/designs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var list struct {
		Designs []string `json:"designs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Designs) != 1 || list.Designs[0] != id {
		t.Errorf("list = %v", list.Designs)
	}

	// Get returns the document.
	rec = doRequest(t, h, http.MethodGet, "/designs/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	var d vessel.Design
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.ID != id || d.Name != "api test vessel" {
		t.Errorf("get returned %+v", d)
	}

	// Delete, then 404.
	rec = doRequest(t, h, http.MethodDelete, "/designs/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/designs/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d", rec.Code)
	}
}

func TestCreateDesignRejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	// Malformed JSON.
	rec := doRequest(t, h, http.MethodPost, "/designs", []byte("{not json"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("malformed body: status %d", rec.Code)
	}

	// Valid JSON, invalid physics.
	var d vessel.Design
	if err := json.Unmarshal(designJSON(), &d); err != nil {
		t.Fatal(err)
	}
	d.Dome.WindingAngleDeg = 90
	body, _ := json.Marshal(d)
	rec = doRequest(t, h, http.MethodPost, "/designs", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad geometry: status %d, body %s", rec.Code, rec.Body)
	}

	var eb struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &eb); err != nil {
		t.Fatal(err)
	}
	if eb.Error.Code != "INVALID_GEOMETRY" || eb.Error.Message == "" {
		t.Errorf("error body = %+v", eb.Error)
	}
}

func TestCreateDesignRejectsUnsafeID(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()

	var d vessel.Design
	if err := json.Unmarshal(designJSON(), &d); err != nil {
		t.Fatal(err)
	}
	d.ID = "../escaped"
	body, _ := json.Marshal(d)

	rec := doRequest(t, h, http.MethodPost, "/designs", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("traversal id: status %d, body %s", rec.Code, rec.Body)
	}

	var eb struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &eb); err != nil {
		t.Fatal(err)
	}
	if eb.Error.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q", eb.Error.Code)
	}
}

func TestStressEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()
	id := createDesign(t, h)

	rec := doRequest(t, h, http.MethodGet, "/designs/"+id+"/stress", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body)
	}

	var res analysis.StressResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.DesignID != id {
		t.Errorf("design_id = %q", res.DesignID)
	}
	if res.LoadCase != vessel.LoadCaseTest || res.StressType != vessel.StressVonMises {
		t.Errorf("defaults: %v %v", res.LoadCase, res.StressType)
	}
	if res.MaxStress.ValueMPa <= 0 || res.ContourData.Mesh == nil {
		t.Error("response missing analysis payload")
	}

	// Explicit load case and stress type.
	rec = doRequest(t, h, http.MethodGet, "/designs/"+id+"/stress?load_case=burst&type=hoop", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("burst hoop: status %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.LoadCase != vessel.LoadCaseBurst || res.StressType != vessel.StressHoop {
		t.Errorf("explicit params: %v %v", res.LoadCase, res.StressType)
	}
	if res.LoadPressureBar != 708 {
		t.Errorf("burst pressure = %v", res.LoadPressureBar)
	}
}

func TestStressEndpointQueryErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()
	id := createDesign(t, h)

	for _, path := range []string{
		"/designs/" + id + "/stress?load_case=crash",
		"/designs/" + id + "/stress?type=torsion",
		"/designs/" + id + "/stress?seed=-3",
	} {
		rec := doRequest(t, h, http.MethodGet, path, nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status %d, want 422", path, rec.Code)
		}
	}

	rec := doRequest(t, h, http.MethodGet, "/designs/absent/stress", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent design: status %d", rec.Code)
	}
}

func TestReliabilityEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Router()
	id := createDesign(t, h)

	rec := doRequest(t, h, http.MethodGet, "/designs/"+id+"/reliability?samples=5000&seed=11", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body)
	}

	var res struct {
		Samples  int     `json:"samples"`
		PFailure float64 `json:"p_failure"`
		Burst    struct {
			MeanBar float64 `json:"mean_bar"`
		} `json:"burst_distribution"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Samples != 5000 {
		t.Errorf("samples = %d", res.Samples)
	}
	if res.Burst.MeanBar <= 0 {
		t.Errorf("burst mean = %v", res.Burst.MeanBar)
	}

	rec = doRequest(t, h, http.MethodGet, "/designs/"+id+"/reliability?samples=many", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad samples: status %d", rec.Code)
	}
}

func TestStoreErrorsMapTo503(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.store = failingStore{}
	rec := doRequest(t, srv.Router(), http.MethodGet, "/designs", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d, want 503", rec.Code)
	}
}

// failingStore simulates a backend outage.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, id string) (*vessel.Design, error) {
	return nil, storeDown()
}
func (failingStore) Put(ctx context.Context, d *vessel.Design) (string, error) {
	return "", storeDown()
}
func (failingStore) Delete(ctx context.Context, id string) error { return storeDown() }
func (failingStore) List(ctx context.Context) ([]string, error)  { return nil, storeDown() }
func (failingStore) Close(ctx context.Context) error             { return nil }

func storeDown() error {
	return errors.New(errors.ErrCodeStoreUnavailable, "backend offline")
}
