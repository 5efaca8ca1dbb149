package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/internal/app/repository"
	"github.com/vibeprint/storefront/internal/app/service"
	"github.com/vibeprint/storefront/internal/db"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/internal/middleware"
	"github.com/vibeprint/storefront/pkg/payment/mpesa"
)

const (
	seedCatalogPath     = "../../../data/catalog.json"
	testWhatsAppNumber  = "254701643555"
	testAllowedOrigin   = "http://localhost:5173"
)

type stubGateway struct {
	mu    sync.Mutex
	calls []mpesa.PayRequest
	err   error
}

func (g *stubGateway) Pay(_ context.Context, req mpesa.PayRequest) (*mpesa.PayResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return &mpesa.PayResponse{CheckoutRequestID: "ws_CO_controller", ResponseCode: "0"}, nil
}

type catalogFixture struct {
	productService service.ProductService
	catalogSync    service.CatalogSyncService
}

// setupCatalogFixture returns services over an in-memory database loaded
// with the seed catalog.
func setupCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	catalogSync := service.NewCatalogSyncService(service.FileCatalogSource{Path: seedCatalogPath}, productRepo, categoryRepo)

	_, err = catalogSync.Sync(context.Background())
	require.NoError(t, err)

	return catalogFixture{
		productService: service.NewProductService(productRepo, categoryRepo),
		catalogSync:    catalogSync,
	}
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	return router
}

func performJSON(router http.Handler, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	decodeBody(t, w, &body)
	return body.Error
}
