package payments_http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cryptostore/internal/app/payments"
	authmw "cryptostore/internal/handler/http/middleware"
	"cryptostore/internal/pricing"
)

func RegisterRoutes(r chi.Router, s payments.PaymentService, prices *pricing.Store, adminToken string, l *zap.Logger) {
	handler := NewPaymentHandler(s, prices, l.With(zap.String("component", "PaymentHTTPHandler")))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/crypto-prices", handler.GetCryptoPricesHandler)
		r.Post("/process_payment", handler.ProcessPaymentHandler)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAdminToken(adminToken))
			r.Get("/payments", handler.ListPaymentsHandler)
			r.Get("/payments/{payment_id}", handler.GetPaymentHandler)
		})
	})
}
