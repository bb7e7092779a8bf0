package http

import (
	"net/http"

	"garasi/internal/core"
	applog "garasi/internal/log"
	"garasi/internal/services"
)

// customerRequest is the JSON body for create and update. Field names
// follow the stored record; tanggalMulai is an ISO day string and
// harga is a whole-rupiah amount, either a number or a formatted
// string ("Rp 1.500.000").
type customerRequest struct {
	Nama          string     `json:"nama"`
	NoHP          string     `json:"noHP"`
	JenisMobil    string     `json:"jenisMobil"`
	NoKendaraan   string     `json:"noKendaraan"`
	TanggalMulai  string     `json:"tanggalMulai"`
	RoomNumber    int        `json:"roomNumber"`
	FotoKendaraan string     `json:"fotoKendaraan,omitempty"`
	Harga         jsonAmount `json:"harga"`
	PeriodeBulan  int        `json:"periodeBulan"`
}

func (s *Server) customerInput(r *http.Request, req customerRequest) (services.CustomerInput, error) {
	start, err := parseDay(req.TanggalMulai)
	if err != nil {
		return services.CustomerInput{}, core.ErrInvalidStartDate
	}

	foto := req.FotoKendaraan
	if foto != "" && s.photos != nil {
		normalized, err := s.photos.Normalize(foto)
		if err != nil {
			return services.CustomerInput{}, err
		}
		foto = normalized
	}

	return services.CustomerInput{
		Nama:          sanitizeInput(req.Nama),
		NoHP:          sanitizeInput(req.NoHP),
		JenisMobil:    sanitizeInput(req.JenisMobil),
		NoKendaraan:   sanitizeInput(req.NoKendaraan),
		TanggalMulai:  start,
		RoomNumber:    req.RoomNumber,
		FotoKendaraan: foto,
		Harga:         req.Harga.Money,
		PeriodeBulan:  req.PeriodeBulan,
	}, nil
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if term := r.URL.Query().Get("q"); term != "" {
		customers = services.SearchCustomers(customers, term)
	}
	if customers == nil {
		customers = []core.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.customers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := s.customerInput(r, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	c, err := s.customers.Create(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := s.customerInput(r, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	c, err := s.customers.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard()
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.customers.Delete(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.invalidateDashboard()
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Customer removed via API", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	customers, err := s.customers.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services.RoomStatuses(customers))
}

func (s *Server) handleAvailableRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.customers.AvailableRooms(r.Context(), r.URL.Query().Get("exclude"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}
