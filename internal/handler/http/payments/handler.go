package payments_http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cryptostore/internal/app/payments"
	"cryptostore/internal/domain"
	"cryptostore/internal/pricing"
)

type PaymentHandler struct {
	service payments.PaymentService
	prices  *pricing.Store
	logger  *zap.Logger
}

func NewPaymentHandler(s payments.PaymentService, prices *pricing.Store, l *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: s, prices: prices, logger: l}
}

type coinPriceResponse struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
}

type processPaymentResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	PaymentID    string  `json:"payment_id,omitempty"`
	CryptoAmount float64 `json:"crypto_amount,omitempty"`
	RedirectURL  string  `json:"redirect_url,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// paymentRecordResponse renders identifiers and timestamps as strings for
// display. The card hash never leaves the store.
type paymentRecordResponse struct {
	PaymentID      string  `json:"payment_id"`
	Email          string  `json:"email"`
	FullName       string  `json:"full_name"`
	CardLastFour   string  `json:"card_last_four"`
	CoinSymbol     string  `json:"coin_symbol"`
	CoinName       string  `json:"coin_name"`
	CoinPrice      float64 `json:"coin_price"`
	AmountUSD      float64 `json:"amount_usd"`
	CryptoAmount   float64 `json:"crypto_amount"`
	Status         string  `json:"status"`
	TransactionFee float64 `json:"transaction_fee"`
	NetAmount      float64 `json:"net_amount"`
	CreatedAt      string  `json:"created_at"`
}

func (h *PaymentHandler) GetCryptoPricesHandler(w http.ResponseWriter, r *http.Request) {
	coins := h.prices.Snapshot()
	prices := make(map[string]coinPriceResponse, len(coins))
	for _, c := range coins {
		prices[c.Symbol] = coinPriceResponse{
			Price:     c.Price,
			Change24h: c.Change24h,
			Symbol:    c.Symbol,
			Name:      c.Name,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"prices":  prices,
	})
}

func (h *PaymentHandler) ProcessPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req payments.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Malformed payment request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	result, err := h.service.ProcessPayment(r.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: vErr.Message})
		case errors.Is(err, domain.ErrPriceUnavailable):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Price temporarily unavailable"})
		default:
			h.logger.Error("Payment processing failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Payment processing error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, processPaymentResponse{
		Success:      true,
		Message:      "Payment processed successfully!",
		PaymentID:    result.PaymentID,
		CryptoAmount: result.CryptoAmount,
		RedirectURL:  "/success/" + result.PaymentID,
	})
}

func (h *PaymentHandler) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	payment, err := h.service.GetPaymentByID(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Message: "Payment not found"})
			return
		}
		h.logger.Error("Failed to get payment", zap.String("payment_id", paymentID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"payment": toRecordResponse(payment),
	})
}

func (h *PaymentHandler) ListPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecentPayments(r.Context(), payments.MaxListLimit)
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
		return
	}

	out := make([]paymentRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"payments": out,
	})
}

func toRecordResponse(p *domain.PaymentRecord) paymentRecordResponse {
	return paymentRecordResponse{
		PaymentID:      p.ID,
		Email:          p.Email,
		FullName:       p.FullName,
		CardLastFour:   p.CardLastFour,
		CoinSymbol:     p.CoinSymbol,
		CoinName:       p.CoinName,
		CoinPrice:      p.CoinPrice,
		AmountUSD:      p.AmountUSD,
		CryptoAmount:   p.CryptoAmount,
		Status:         string(p.Status),
		TransactionFee: p.TransactionFee,
		NetAmount:      p.NetAmount,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
