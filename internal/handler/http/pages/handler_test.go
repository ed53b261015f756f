package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cryptostore/internal/app/payments"
	"cryptostore/internal/domain"
	"cryptostore/internal/pricing"
)

type stubService struct {
	payment *domain.PaymentRecord
	getErr  error
	listed  []*domain.PaymentRecord
	listErr error
}

func (s *stubService) ProcessPayment(ctx context.Context, req *payments.PaymentRequest) (*payments.PaymentResult, error) {
	return nil, nil
}

func (s *stubService) GetPaymentByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	return s.payment, s.getErr
}

func (s *stubService) ListRecentPayments(ctx context.Context, limit int) ([]*domain.PaymentRecord, error) {
	return s.listed, s.listErr
}

func newTestRouter(t *testing.T, s *stubService, adminToken string) *chi.Mux {
	t.Helper()
	store := pricing.NewStore([]domain.Coin{
		{Symbol: "BTC", Name: "Bitcoin", ProviderID: "bitcoin", Price: 50000},
	})
	r := chi.NewRouter()
	if err := RegisterRoutes(r, s, store, adminToken, zap.NewNop()); err != nil {
		t.Fatalf("RegisterRoutes failed: %v", err)
	}
	return r
}

func TestIndexPage(t *testing.T) {
	r := newTestRouter(t, &stubService{}, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "BTC") {
		t.Error("index page does not list the catalog")
	}
}

func TestPaymentPage(t *testing.T) {
	r := newTestRouter(t, &stubService{}, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment/BTC", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("known coin: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payment/XYZ", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("unknown coin: status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("unknown coin redirects to %q, want /", loc)
	}
}

func TestSuccessPage(t *testing.T) {
	record := &domain.PaymentRecord{
		ID:           "PAY_0011223344556677",
		CoinSymbol:   "BTC",
		CryptoAmount: 0.002,
		Status:       domain.PaymentStatusCompleted,
		CreatedAt:    time.Now(),
	}
	r := newTestRouter(t, &stubService{payment: record}, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/success/PAY_0011223344556677", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PAY_0011223344556677") {
		t.Error("receipt does not show the payment id")
	}
}

func TestSuccessPage_UnknownPaymentRedirects(t *testing.T) {
	r := newTestRouter(t, &stubService{getErr: domain.ErrPaymentNotFound}, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/success/PAY_MISSING", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirects to %q, want /", loc)
	}
}

func TestAdminPage_Auth(t *testing.T) {
	r := newTestRouter(t, &stubService{}, "secret")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
}
