// Package pages serves the thin storefront HTML: coin selection, payment
// form, receipt, and the admin dashboard shell. All data the pages show
// comes from the same service layer the JSON API uses.
package pages

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cryptostore/internal/app/payments"
	"cryptostore/internal/domain"
	authmw "cryptostore/internal/handler/http/middleware"
	"cryptostore/internal/pricing"
)

//go:embed templates/*.html
var templateFS embed.FS

type PageHandler struct {
	service   payments.PaymentService
	prices    *pricing.Store
	templates *template.Template
	logger    *zap.Logger
}

func NewPageHandler(s payments.PaymentService, prices *pricing.Store, l *zap.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &PageHandler{service: s, prices: prices, templates: tmpl, logger: l}, nil
}

func RegisterRoutes(r chi.Router, s payments.PaymentService, prices *pricing.Store, adminToken string, l *zap.Logger) error {
	handler, err := NewPageHandler(s, prices, l.With(zap.String("component", "PageHandler")))
	if err != nil {
		return err
	}

	r.Get("/", handler.IndexHandler)
	r.Get("/payment/{symbol}", handler.PaymentPageHandler)
	r.Get("/success/{payment_id}", handler.SuccessPageHandler)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAdminToken(adminToken))
		r.Get("/admin", handler.AdminPageHandler)
	})
	return nil
}

func (h *PageHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", map[string]any{
		"Coins": h.prices.Snapshot(),
	})
}

func (h *PageHandler) PaymentPageHandler(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	coin, ok := h.prices.Get(symbol)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, "payment.html", map[string]any{
		"Coin": coin,
	})
}

func (h *PageHandler) SuccessPageHandler(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	payment, err := h.service.GetPaymentByID(r.Context(), paymentID)
	if err != nil {
		if !errors.Is(err, domain.ErrPaymentNotFound) {
			h.logger.Error("Failed to load receipt", zap.String("payment_id", paymentID), zap.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, "success.html", map[string]any{
		"Payment": payment,
	})
}

func (h *PageHandler) AdminPageHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecentPayments(r.Context(), payments.MaxListLimit)
	if err != nil {
		h.logger.Error("Failed to load admin dashboard", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "admin.html", map[string]any{
		"Payments": records,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("Template render failed", zap.String("template", name), zap.Error(err))
	}
}
