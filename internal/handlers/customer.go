package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/models"
	"github.com/kontor-app/kontor/internal/validation"

	"gorm.io/gorm"
)

// CustomerHandler covers the customer management pages.
type CustomerHandler struct {
	DB *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler { return &CustomerHandler{DB: db} }

type customerRequest struct {
	Name          string `json:"name" validate:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	PostalCode    string `json:"postal_code"`
	City          string `json:"city"`
	Country       string `json:"country"`
	VATID         string `json:"vat_id"`
	Notes         string `json:"notes"`
}

func (req customerRequest) apply(c *models.Customer) {
	c.Name = req.Name
	c.ContactPerson = req.ContactPerson
	c.Email = req.Email
	c.Phone = req.Phone
	c.Street = req.Street
	c.PostalCode = req.PostalCode
	c.City = req.City
	c.Country = req.Country
	c.VATID = req.VATID
	c.Notes = req.Notes
}

var searchSanitizer = regexp.MustCompile(`[^\p{L}0-9 \-_.@]`)

// List: GET /customers – paginated, ?q= filters by name
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	p := listParams(r)
	dbq := h.DB.Model(&models.Customer{})
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		safe := searchSanitizer.ReplaceAllString(q, "")
		dbq = dbq.Where("lower(name) LIKE ?", "%"+strings.ToLower(safe)+"%")
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	var customers []models.Customer
	if err := dbq.Order("name asc").Limit(p.Limit).Offset(p.Offset).Find(&customers).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": total, "limit": p.Limit, "offset": p.Offset})
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validation.Struct(req); !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	var c models.Customer
	req.apply(&c)
	if c.Country == "" {
		c.Country = "DE"
	}
	if err := h.DB.Create(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

// Update: PUT /customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validation.Struct(req); !v.Empty() {
		writeViolations(w, r, v)
		return
	}
	var c models.Customer
	if err := h.DB.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_customer", nil)
		return
	}
	req.apply(&c)
	if err := h.DB.Save(&c).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
