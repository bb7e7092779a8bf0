package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"garasi/internal/core"
	"garasi/internal/filestore"
	applog "garasi/internal/log"
	"garasi/internal/photo"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := filestore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open filestore: %v", err)
	}
	logger := applog.New(applog.DefaultConfig())
	s := NewServer(":0", st, nil, photo.NewProcessor(800), logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func customerBody(room int) map[string]any {
	return map[string]any{
		"nama":         "budi santoso",
		"noHP":         "081234567890",
		"jenisMobil":   "toyota avanza",
		"noKendaraan":  "b 1234 xyz",
		"tanggalMulai": "2024-01-15",
		"roomNumber":   room,
		"harga":        500000,
		"periodeBulan": 1,
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(t, s, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d", rec.Code)
	}
}

func TestCreateCustomer(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/customers", customerBody(5))
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/customers = %d, body %s", rec.Code, rec.Body)
	}

	var c core.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if c.ID == "" {
		t.Error("no ID assigned")
	}
	if c.Nama != "Budi Santoso" {
		t.Errorf("Nama = %q, want normalized", c.Nama)
	}
	if c.NoKendaraan != "B 1234 XYZ" {
		t.Errorf("NoKendaraan = %q, want upper-cased", c.NoKendaraan)
	}
	want := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	if !c.TanggalJatuhTempo.Equal(want) {
		t.Errorf("TanggalJatuhTempo = %v, want %v", c.TanggalJatuhTempo, want)
	}
}

func TestCreateCustomer_Validation(t *testing.T) {
	s := newTestServer(t)

	body := customerBody(5)
	body["nama"] = ""
	if rec := doRequest(t, s, http.MethodPost, "/api/customers", body); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty name: status = %d, want 422", rec.Code)
	}

	body = customerBody(99)
	if rec := doRequest(t, s, http.MethodPost, "/api/customers", body); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("room out of range: status = %d, want 422", rec.Code)
	}

	body = customerBody(5)
	body["tanggalMulai"] = "not-a-date"
	if rec := doRequest(t, s, http.MethodPost, "/api/customers", body); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad start date: status = %d, want 422", rec.Code)
	}
}

func TestCreateCustomer_RoomConflict(t *testing.T) {
	s := newTestServer(t)

	if rec := doRequest(t, s, http.MethodPost, "/api/customers", customerBody(5)); rec.Code != http.StatusCreated {
		t.Fatalf("first create = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodPost, "/api/customers", customerBody(5)); rec.Code != http.StatusConflict {
		t.Errorf("second create into same room = %d, want 409", rec.Code)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/customers", customerBody(5))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}
	var created core.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Update keeping the room.
	body := customerBody(5)
	body["harga"] = 600000
	rec = doRequest(t, s, http.MethodPut, "/api/customers/"+created.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d, body %s", rec.Code, rec.Body)
	}
	var updated core.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Harga.Rupiah != 600000 {
		t.Errorf("Harga after update = %d", updated.Harga.Rupiah)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodGet, "/api/customers/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestGetCustomer_Missing(t *testing.T) {
	s := newTestServer(t)
	if rec := doRequest(t, s, http.MethodGet, "/api/customers/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSearchCustomers(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/customers", customerBody(5))
	second := customerBody(6)
	second["nama"] = "siti aminah"
	second["noKendaraan"] = "d 88 aa"
	doRequest(t, s, http.MethodPost, "/api/customers", second)

	rec := doRequest(t, s, http.MethodGet, "/api/customers?q=siti", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search = %d", rec.Code)
	}
	var results []core.Customer
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Nama != "Siti Aminah" {
		t.Errorf("search results = %+v", results)
	}
}

func TestAvailableRooms(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/customers", customerBody(5))

	rec := doRequest(t, s, http.MethodGet, "/api/rooms/available", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rooms []int
	if err := json.Unmarshal(rec.Body.Bytes(), &rooms); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rooms) != core.TotalRooms-1 {
		t.Errorf("len(rooms) = %d, want %d", len(rooms), core.TotalRooms-1)
	}
	for _, room := range rooms {
		if room == 5 {
			t.Error("occupied room offered")
		}
	}
}

func TestRoomGrid(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/customers", customerBody(3))

	rec := doRequest(t, s, http.MethodGet, "/api/rooms", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var grid []struct {
		Number   int  `json:"number"`
		Occupied bool `json:"occupied"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &grid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(grid) != core.TotalRooms {
		t.Fatalf("len(grid) = %d, want %d", len(grid), core.TotalRooms)
	}
	if !grid[2].Occupied || grid[0].Occupied {
		t.Errorf("grid occupancy wrong: %+v", grid[:4])
	}
}

func TestExpenseEndpoints(t *testing.T) {
	s := newTestServer(t)

	today := time.Now().Format("2006-01-02")
	rec := doRequest(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"deskripsi": "bayar listrik",
		"harga":     "Rp 200.000",
		"tanggal":   today,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}
	var e core.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Deskripsi != "Bayar Listrik" {
		t.Errorf("Deskripsi = %q", e.Deskripsi)
	}
	if e.Harga.Rupiah != 200000 {
		t.Errorf("Harga = %d, want 200000 (parsed from formatted string)", e.Harga.Rupiah)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/expenses/"+e.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/expenses/"+e.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/customers", customerBody(1))
	today := time.Now().Format("2006-01-02")
	doRequest(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"deskripsi": "bayar listrik",
		"harga":     200000,
		"tanggal":   today,
	})

	rec := doRequest(t, s, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var data dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Summary.OccupiedRooms != 1 {
		t.Errorf("OccupiedRooms = %d, want 1", data.Summary.OccupiedRooms)
	}
	if data.Summary.GrossRevenue.Rupiah != 500000 {
		t.Errorf("GrossRevenue = %d", data.Summary.GrossRevenue.Rupiah)
	}
	if data.Summary.MonthExpenses.Rupiah != 200000 {
		t.Errorf("MonthExpenses = %d", data.Summary.MonthExpenses.Rupiah)
	}

	// A mutation invalidates the cached dashboard.
	doRequest(t, s, http.MethodPost, "/api/customers", customerBody(2))
	rec = doRequest(t, s, http.MethodGet, "/api/dashboard", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Summary.OccupiedRooms != 2 {
		t.Errorf("OccupiedRooms after mutation = %d, want 2", data.Summary.OccupiedRooms)
	}
}

func TestReportDownload(t *testing.T) {
	s := newTestServer(t)

	doRequest(t, s, http.MethodPost, "/api/customers", customerBody(1))

	rec := doRequest(t, s, http.MethodGet, "/api/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "Laporan_Garasi_Sumber_Jaya_") || !strings.Contains(cd, ".txt") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Laporan Keuangan Garasi Sumber Jaya") {
		t.Error("report title missing")
	}
	if !strings.Contains(body, "Budi Santoso (Room 1): Rp 500.000") {
		t.Errorf("customer line missing:\n%s", body)
	}
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t)

	var last int
	for i := 0; i < 61; i++ {
		body := customerBody(i%core.TotalRooms + 1)
		body["nama"] = fmt.Sprintf("customer %d", i)
		rec := doRequest(t, s, http.MethodPost, "/api/customers", body)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("request 61 status = %d, want 429", last)
	}
}
