package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pbrandao/varejo/core/catalog"
)

// FakeBackend stands in for the external commerce API: a couple of
// products, naive credentials, and a recorder for every order it accepts.
type FakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu     sync.Mutex
	users  map[string]string
	nextID int64
	orders []OrderPayload
}

// OrderPayload is what the gateway sends when placing an order.
type OrderPayload struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	ShippingAddress string `json:"shipping_address"`
	Status          string `json:"status"`
	PaymentMethod   string `json:"payment_method"`
	CouponCode      string `json:"coupon_code"`
	Items           []struct {
		Product  int64  `json:"product"`
		Variant  *int64 `json:"variant"`
		Quantity int64  `json:"quantity"`
	} `json:"items"`
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	f := &FakeBackend{
		t:      t,
		users:  make(map[string]string),
		nextID: 1,
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.route))
	return f
}

func (f *FakeBackend) URL() string { return f.srv.URL }

func (f *FakeBackend) Close() { f.srv.Close() }

// Orders returns the payloads accepted so far.
func (f *FakeBackend) Orders() []OrderPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]OrderPayload, len(f.orders))
	copy(out, f.orders)
	return out
}

func intp(v int64) *int64 { return &v }

func floatp(v float64) *float64 { return &v }

// Products the fake catalog serves: one with variants, one without.
func fakeProduct(id int64) (catalog.Product, bool) {
	switch id {
	case 1:
		return catalog.Product{
			ID:   1,
			Name: "camiseta básica",
			Variants: []catalog.Variant{
				{ID: 10, Product: 1, SKU: "CAM-P", Price: 19.90, Stock: intp(50), Size: "P"},
				{ID: 11, Product: 1, SKU: "CAM-M", Price: 21.50, Stock: intp(3), Size: "M"},
			},
		}, true
	case 2:
		return catalog.Product{
			ID:    2,
			Name:  "caneca",
			Price: floatp(9.99),
			Stock: intp(10),
		}, true
	default:
		return catalog.Product{}, false
	}
}

func (f *FakeBackend) route(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case path == "/auth/register/" && r.Method == http.MethodPost:
		f.register(w, r)
	case path == "/auth/login/" && r.Method == http.MethodPost:
		f.login(w, r)
	case path == "/auth/logout/" && r.Method == http.MethodPost:
		w.WriteHeader(http.StatusNoContent)
	case strings.HasPrefix(path, "/products/") && r.Method == http.MethodGet:
		f.product(w, strings.TrimSuffix(strings.TrimPrefix(path, "/products/"), "/"))
	case path == "/orders/" && r.Method == http.MethodPost:
		f.createOrder(w, r)
	case path == "/coupons/validate_coupon/" && r.Method == http.MethodPost:
		f.validateCoupon(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Not found."})
	}
}

func (f *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	f.users[in.Email] = in.Password
	id := f.nextID
	f.nextID++
	f.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, authEnvelope(id, in.Email))
}

func (f *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	pass, ok := f.users[in.Email]
	f.mu.Unlock()

	if !ok || pass != in.Password {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"detail": "invalid credentials"})
		return
	}

	writeJSON(w, authEnvelope(1, in.Email))
}

func (f *FakeBackend) product(w http.ResponseWriter, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Not found."})
		return
	}

	p, ok := fakeProduct(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "Not found."})
		return
	}

	writeJSON(w, p)
}

func (f *FakeBackend) createOrder(w http.ResponseWriter, r *http.Request) {
	var in OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"detail": "unreadable order"})
		return
	}

	f.mu.Lock()
	f.orders = append(f.orders, in)
	id := int64(len(f.orders))
	f.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]interface{}{
		"id":             id,
		"customer_name":  in.CustomerName,
		"customer_email": in.CustomerEmail,
		"status":         "pending",
	})
}

func (f *FakeBackend) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code  string  `json:"code"`
		Total float64 `json:"total"`
	}
	json.NewDecoder(r.Body).Decode(&in)

	if !strings.EqualFold(in.Code, "SAVE10") {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]string{"detail": "coupon not found"})
		return
	}

	discount := in.Total * 0.10
	writeJSON(w, map[string]interface{}{
		"valid":       true,
		"coupon":      map[string]interface{}{"id": 1, "code": "SAVE10", "discount_type": "percentage", "discount_value": 10},
		"discount":    discount,
		"final_total": in.Total - discount,
	})
}

func authEnvelope(id int64, email string) map[string]interface{} {
	return map[string]interface{}{
		"user": map[string]interface{}{
			"id":       id,
			"username": email,
			"email":    email,
			"is_staff": false,
		},
		"tokens": map[string]string{
			"access":  signedEnough(time.Now().Add(time.Hour)),
			"refresh": "refresh-" + email,
		},
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	json.NewEncoder(w).Encode(v)
}
