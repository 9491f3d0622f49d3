package api

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/pbrandao/varejo/api/middleware"
	"github.com/pbrandao/varejo/api/web"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/cep"
	"github.com/pbrandao/varejo/core/auth"
	"github.com/pbrandao/varejo/core/cart"
	"github.com/pbrandao/varejo/core/catalog"
	"github.com/pbrandao/varejo/core/coupon"
	"github.com/pbrandao/varejo/core/order"
	"github.com/pbrandao/varejo/core/purchase"
	"github.com/pbrandao/varejo/core/report"
	"github.com/pbrandao/varejo/core/review"
	"github.com/pbrandao/varejo/core/store"
	"github.com/pbrandao/varejo/core/wishlist"
	"github.com/pbrandao/varejo/rate"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	Session    *scs.SessionManager
	Backend    *backend.Client
	Carts      *cart.Stores
	CEP        *cep.Client
	Limiter    *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.Limiter != nil {
		a.mw = append(a.mw, middleware.RateLimit(cfg.Limiter))
	}

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)
	seller := auth.Seller(cfg.Session)

	products := catalog.NewClient(cfg.Backend)
	orders := order.NewClient(cfg.Backend)
	coupons := coupon.NewClient(cfg.Backend)
	reviews := review.NewClient(cfg.Backend)
	wishes := wishlist.NewClient(cfg.Backend)
	stores := store.NewClient(cfg.Backend)
	purchases := purchase.NewClient(cfg.Backend)
	reports := report.NewClient(orders)

	a.Handle(http.MethodPost, "/auth/register", auth.HandleRegister(cfg.Backend, cfg.Session))
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Backend, cfg.Session))
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Backend, cfg.Session))
	a.Handle(http.MethodGet, "/auth/profile", auth.HandleProfile(cfg.Backend, cfg.Session), authen)
	a.Handle(http.MethodPost, "/auth/change-password", auth.HandleChangePassword(cfg.Backend), authen)

	a.Handle(http.MethodGet, "/products", catalog.HandleList(products))
	a.Handle(http.MethodGet, "/products/{id}", catalog.HandleShow(products))
	a.Handle(http.MethodPost, "/products", catalog.HandleCreate(products), seller)
	a.Handle(http.MethodPut, "/products/{id}", catalog.HandleUpdate(products), seller)
	a.Handle(http.MethodDelete, "/products/{id}", catalog.HandleDelete(products), seller)
	a.Handle(http.MethodGet, "/products/{id}/options", catalog.HandleOptions(products))
	a.Handle(http.MethodGet, "/products/{id}/variants", catalog.HandleListVariants(products))
	a.Handle(http.MethodPost, "/products/{id}/variants", catalog.HandleCreateVariant(products), seller)
	a.Handle(http.MethodPut, "/products/{id}/variants/{variant_id}", catalog.HandleUpdateVariant(products), seller)
	a.Handle(http.MethodDelete, "/products/{id}/variants/{variant_id}", catalog.HandleDeleteVariant(products), seller)
	a.Handle(http.MethodGet, "/categories", catalog.HandleListCategories(products))
	a.Handle(http.MethodGet, "/categories/{slug}/products", catalog.HandleCategoryProducts(products))

	a.Handle(http.MethodGet, "/products/{id}/reviews", review.HandleList(reviews))
	a.Handle(http.MethodPost, "/products/{id}/reviews", review.HandleCreate(reviews), authen)

	a.Handle(http.MethodGet, "/cart", cart.HandleShow(cfg.Session, cfg.Carts))
	a.Handle(http.MethodPut, "/cart/items", cart.HandleAddItem(cfg.Session, cfg.Carts, products))
	a.Handle(http.MethodPut, "/cart/items/{product_id}", cart.HandleUpdateItem(cfg.Session, cfg.Carts))
	a.Handle(http.MethodDelete, "/cart/items/{product_id}", cart.HandleRemoveItem(cfg.Session, cfg.Carts))
	a.Handle(http.MethodDelete, "/cart", cart.HandleClear(cfg.Session, cfg.Carts))

	a.Handle(http.MethodPost, "/coupons/validate", coupon.HandleValidate(coupons, cfg.Session, cfg.Carts))
	a.Handle(http.MethodGet, "/coupons", coupon.HandleList(coupons), seller)
	a.Handle(http.MethodPost, "/coupons", coupon.HandleCreate(coupons), seller)
	a.Handle(http.MethodPut, "/coupons/{id}", coupon.HandleUpdate(coupons), seller)
	a.Handle(http.MethodDelete, "/coupons/{id}", coupon.HandleDelete(coupons), seller)

	a.Handle(http.MethodGet, "/wishlist", wishlist.HandleList(wishes), authen)
	a.Handle(http.MethodPost, "/wishlist/toggle", wishlist.HandleToggle(wishes), authen)

	a.Handle(http.MethodPost, "/checkout", order.HandleCheckout(orders, coupons, cfg.Session, cfg.Carts), authen)
	a.Handle(http.MethodGet, "/orders", order.HandleList(orders), authen)
	a.Handle(http.MethodGet, "/orders/{id}", order.HandleShow(orders), authen)
	a.Handle(http.MethodPost, "/orders/{id}/status", order.HandleSetStatus(orders), seller)
	a.Handle(http.MethodPost, "/orders/{id}/cod-paid", order.HandleMarkCODPaid(orders), seller)

	a.Handle(http.MethodGet, "/store", store.HandleMine(stores), seller)
	a.Handle(http.MethodPost, "/store", store.HandleCreate(stores), seller)
	a.Handle(http.MethodPut, "/store", store.HandleUpdate(stores), seller)

	a.Handle(http.MethodGet, "/suppliers", purchase.HandleListSuppliers(purchases, stores), seller)
	a.Handle(http.MethodPost, "/suppliers", purchase.HandleCreateSupplier(purchases, stores), seller)
	a.Handle(http.MethodGet, "/purchase-orders", purchase.HandleListOrders(purchases, stores), seller)
	a.Handle(http.MethodGet, "/purchase-orders/{id}", purchase.HandleShowOrder(purchases), seller)
	a.Handle(http.MethodPost, "/purchase-orders", purchase.HandleCreateOrder(purchases, stores), seller)
	a.Handle(http.MethodPost, "/purchase-orders/{id}/receive", purchase.HandleReceiveOrder(purchases), seller)

	a.Handle(http.MethodGet, "/reports/sales", report.HandleSales(reports), seller)

	a.Handle(http.MethodGet, "/cep/{code}", cep.HandleLookup(cfg.CEP))

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
