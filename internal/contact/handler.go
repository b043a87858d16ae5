package contact

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// CreateContactRequest is used in POST /contact
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// POST /contact — public endpoint.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Message == "" {
		http.Error(w, "email and message are required", http.StatusBadRequest)
		return
	}

	m := ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  StatusNew,
	}
	if err := h.Repository.Save(h.DB, &m); err != nil {
		http.Error(w, "could not save message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(m)
}

// GET /contact/admin — behind the admin gate (see router wiring in main).
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListAll(h.DB, r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "could not list messages", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// GET /contact/admin/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	m, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "message not found", http.StatusNotFound)
		return
	}

	// first admin read flips the status
	if m.Status == StatusNew {
		m.Status = StatusRead
		_ = h.Repository.Save(h.DB, m)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}
