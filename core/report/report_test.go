package report

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/core/order"
	"github.com/sirupsen/logrus"
)

func TestSalesSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("page") {
		case "1":
			w.Write([]byte(`{
				"count": 3,
				"next": "http://backend/orders/?page=2",
				"results": [
					{"id": 1, "status": "delivered", "total_amount": 69.69, "items": [
						{"id": 1, "variant": 10, "variant_details": {"id": 10, "sku": "CAM-P"}, "quantity": 3, "unit_price": 19.90, "subtotal": 59.70},
						{"id": 2, "variant": 20, "variant_details": {"id": 20, "sku": "CAN-U"}, "quantity": 1, "unit_price": 9.99, "subtotal": 9.99}
					]},
					{"id": 2, "status": "cancelled", "total_amount": 100, "items": [
						{"id": 3, "variant": 10, "variant_details": {"id": 10, "sku": "CAM-P"}, "quantity": 5, "unit_price": 20, "subtotal": 100}
					]}
				]
			}`))
		case "2":
			w.Write([]byte(`{
				"count": 3,
				"next": null,
				"results": [
					{"id": 3, "status": "pending", "total_amount": 39.80, "items": [
						{"id": 4, "variant": 10, "variant_details": {"id": 10, "sku": "CAM-P"}, "quantity": 2, "unit_price": 19.90, "subtotal": 39.80}
					]}
				]
			}`))
		default:
			t.Fatalf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetOutput(io.Discard)

	bk := backend.New(backend.Config{
		URL:            srv.URL,
		Timeout:        2 * time.Second,
		BreakerHalfMax: 1,
		BreakerCool:    time.Second,
		Log:            log,
	})

	c := NewClient(order.NewClient(bk))

	sum, err := c.Sales(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	want := Summary{
		Orders:  2,
		Revenue: 69.69 + 39.80,
		Units:   6,
		BySKU: []SKUSales{
			{SKU: "CAM-P", Units: 5, Revenue: 59.70 + 39.80},
			{SKU: "CAN-U", Units: 1, Revenue: 9.99},
		},
	}
	if diff := cmp.Diff(want, sum, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
