package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"trufi/internal/catalog"
	"trufi/internal/service"
)

func newLineRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewLineHandler(service.NewLineService(catalog.New(nil), nil, 0), nil)

	r := gin.New()
	r.POST("/v1/lines", h.CreateLine)
	r.GET("/v1/lines", h.GetAll)
	r.GET("/v1/lines/:id", h.GetLine)
	r.PATCH("/v1/lines/:id", h.UpdateLine)
	r.POST("/v1/lines/:id/stops", h.AddStop)
	r.PUT("/v1/lines/:id/stops/:index", h.RenameStop)
	r.DELETE("/v1/lines/:id/stops/:index", h.RemoveStop)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeLine(t *testing.T, w *httptest.ResponseRecorder) LineResponse {
	t.Helper()
	var line LineResponse
	if err := json.Unmarshal(w.Body.Bytes(), &line); err != nil {
		t.Fatalf("decode line response: %v", err)
	}
	return line
}

func TestCreateLine(t *testing.T) {
	r := newLineRouter()

	w := doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "Nueva", RatePerKm: 2.5})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	line := decodeLine(t, w)
	if line.ID == "" || line.Name != "Nueva" || line.RatePerKm != 2.5 {
		t.Errorf("unexpected line: %+v", line)
	}
	if line.Stops == nil || len(line.Stops) != 0 {
		t.Errorf("expected an empty stops array, got %v", line.Stops)
	}
}

func TestCreateLine_BadBody(t *testing.T) {
	r := newLineRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/lines", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetLine_NotFound(t *testing.T) {
	r := newLineRouter()

	w := doJSON(t, r, http.MethodGet, "/v1/lines/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateLine_Partial(t *testing.T) {
	r := newLineRouter()

	created := decodeLine(t, doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "Old", RatePerKm: 2.0}))

	name := "New"
	w := doJSON(t, r, http.MethodPatch, "/v1/lines/"+created.ID, UpdateLineRequest{Name: &name})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	updated := decodeLine(t, w)
	if updated.Name != "New" {
		t.Errorf("expected renamed line, got %s", updated.Name)
	}
	if updated.RatePerKm != 2.0 {
		t.Errorf("expected rate untouched, got %v", updated.RatePerKm)
	}
}

func TestStopLifecycle(t *testing.T) {
	r := newLineRouter()

	created := decodeLine(t, doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "L", RatePerKm: 2.0}))
	stopsPath := fmt.Sprintf("/v1/lines/%s/stops", created.ID)

	// Add two stops.
	w := doJSON(t, r, http.MethodPost, stopsPath, AddStopRequest{Name: "A", Lat: -16.5, Lng: -68.15})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var addResp struct {
		Index int          `json:"index"`
		Line  LineResponse `json:"line"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &addResp); err != nil {
		t.Fatalf("decode add-stop response: %v", err)
	}
	if addResp.Index != 0 {
		t.Errorf("expected index 0, got %d", addResp.Index)
	}

	doJSON(t, r, http.MethodPost, stopsPath, AddStopRequest{Name: "B", Lat: -16.51, Lng: -68.16})

	// Rename the first stop.
	w = doJSON(t, r, http.MethodPut, stopsPath+"/0", RenameStopRequest{Name: "Renamed"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if line := decodeLine(t, w); line.Stops[0].Name != "Renamed" {
		t.Errorf("expected renamed stop, got %s", line.Stops[0].Name)
	}

	// Remove it; the second stop shifts down.
	w = doJSON(t, r, http.MethodDelete, stopsPath+"/0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	line := decodeLine(t, w)
	if len(line.Stops) != 1 || line.Stops[0].Name != "B" {
		t.Errorf("expected only B left, got %+v", line.Stops)
	}
}

func TestAddStop_ZeroCoordinatesAccepted(t *testing.T) {
	r := newLineRouter()

	created := decodeLine(t, doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "L", RatePerKm: 2.0}))

	// (0, 0) is a legal coordinate, not a missing field.
	w := doJSON(t, r, http.MethodPost, "/v1/lines/"+created.ID+"/stops", AddStopRequest{Name: "Null Island", Lat: 0, Lng: 0})
	if w.Code != http.StatusCreated {
		t.Errorf("expected 201 for zero coordinates, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStopEndpoints_BadIndex(t *testing.T) {
	r := newLineRouter()

	created := decodeLine(t, doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "L", RatePerKm: 2.0}))

	w := doJSON(t, r, http.MethodDelete, "/v1/lines/"+created.ID+"/stops/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a non-numeric index, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/v1/lines/"+created.ID+"/stops/5", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an out-of-range index, got %d", w.Code)
	}
}

func TestRenameStop_RequiresName(t *testing.T) {
	r := newLineRouter()

	created := decodeLine(t, doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "L", RatePerKm: 2.0}))
	doJSON(t, r, http.MethodPost, "/v1/lines/"+created.ID+"/stops", AddStopRequest{Name: "A", Lat: 0, Lng: 0})

	w := doJSON(t, r, http.MethodPut, "/v1/lines/"+created.ID+"/stops/0", RenameStopRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a missing name, got %d", w.Code)
	}
}

func TestGetAll(t *testing.T) {
	r := newLineRouter()

	doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "One", RatePerKm: 2.0})
	doJSON(t, r, http.MethodPost, "/v1/lines", CreateLineRequest{Name: "Two", RatePerKm: 2.0})

	w := doJSON(t, r, http.MethodGet, "/v1/lines", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var lines []LineResponse
	if err := json.Unmarshal(w.Body.Bytes(), &lines); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(lines) != 2 || lines[0].Name != "One" || lines[1].Name != "Two" {
		t.Errorf("expected catalog order [One Two], got %+v", lines)
	}
}
