package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golfpos/api"
	"golfpos/internal/config"
	"golfpos/internal/shop"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sheetMock plays the spreadsheet endpoint: reads return an empty envelope
// (so nothing clobbers local state) and every write is recorded.
type sheetMock struct {
	mu     sync.Mutex
	writes []sheetWrite
	srv    *httptest.Server
}

type sheetWrite struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

func newSheetMock(t *testing.T) *sheetMock {
	t.Helper()
	m := &sheetMock{}
	m.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		var write sheetWrite
		_ = json.Unmarshal(body, &write)
		m.mu.Lock()
		m.writes = append(m.writes, write)
		m.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	t.Cleanup(m.srv.Close)
	return m
}

func (m *sheetMock) byAction(action string) []sheetWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sheetWrite
	for _, w := range m.writes {
		if w.Action == action {
			out = append(out, w)
		}
	}
	return out
}

// initRouterWithSheet wires the API against the mock sheet, starting from
// empty collections.
func initRouterWithSheet(t *testing.T, mock *sheetMock) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	settingsPath := filepath.Join(t.TempDir(), "settings.json")
	endpoint := ""
	if mock != nil {
		endpoint = mock.srv.URL + "/exec"
	}
	require.NoError(t, writeSettings(settingsPath, endpoint))

	cfg := &config.Config{
		SettingsFile: settingsPath,
		PollInterval: time.Hour, // keep polls out of the test window
	}
	require.NoError(t, api.InitRoutesEmpty(router, cfg))
	return router
}

func writeSettings(path, endpoint string) error {
	raw, err := json.Marshal(map[string]string{"sheetEndpoint": endpoint})
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestSellThroughFullFlow covers the whole counter flow: add a product,
// sell two units for cash, and check local state plus the replicated
// writes.
func TestSellThroughFullFlow(t *testing.T) {
	mock := newSheetMock(t)
	router := initRouterWithSheet(t, mock)

	var productID string

	t.Run("POST_CreateProduct", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/products", map[string]any{
			"name":         "Driver",
			"category":     "Clubs",
			"costPrice":    100,
			"sellingPrice": 200,
			"quantity":     5,
		})
		assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP 201 Created for new product")

		var created shop.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID, "Expected product ID to be generated")
		assert.NotEmpty(t, created.SKU, "Expected a default SKU")
		assert.Equal(t, 5, created.Quantity)
		productID = created.ID
	})
	require.NotEmpty(t, productID)

	var transactionID string

	t.Run("POST_Checkout", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/sales", map[string]any{
			"items": []map[string]any{
				{"productId": productID, "quantity": 2},
			},
			"paymentMethod": "CASH",
		})
		assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP 201 Created for checkout")

		var tx shop.Transaction
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tx))
		assert.NotEmpty(t, tx.ID)
		assert.Equal(t, 400.0, tx.TotalAmount, "Expected 2 x 200 total")
		assert.Equal(t, shop.PaymentCash, tx.PaymentMethod)
		require.Len(t, tx.Items, 1)
		assert.Equal(t, "Driver", tx.Items[0].ProductName)
		transactionID = tx.ID
	})

	t.Run("GET_StateAfterSale", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/products", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Products []shop.Product `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Products, 1)
		assert.Equal(t, 3, resp.Products[0].Quantity, "Expected quantity 5 - 2 = 3")

		w = doJSON(router, http.MethodGet, "/api/transactions", nil)
		var txResp struct {
			Transactions []shop.Transaction `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txResp))
		assert.Len(t, txResp.Transactions, 1, "Expected exactly one transaction")
	})

	t.Run("RemoteWritesReplicated", func(t *testing.T) {
		// Writes are delivered by the background outbox worker.
		require.Eventually(t, func() bool {
			return len(mock.byAction("ADD_TRANSACTION")) == 1 &&
				len(mock.byAction("ADJUST_STOCK")) == 1
		}, 3*time.Second, 20*time.Millisecond, "expected one ADD_TRANSACTION and one ADJUST_STOCK")

		adds := mock.byAction("ADD_TRANSACTION")
		var sentTx shop.Transaction
		require.NoError(t, json.Unmarshal(adds[0].Data, &sentTx))
		assert.Equal(t, transactionID, sentTx.ID)
		assert.Equal(t, 400.0, sentTx.TotalAmount)

		adjusts := mock.byAction("ADJUST_STOCK")
		var deltas []shop.StockDelta
		require.NoError(t, json.Unmarshal(adjusts[0].Data, &deltas))
		require.Len(t, deltas, 1)
		assert.Equal(t, productID, deltas[0].ID)
		assert.Equal(t, -2, deltas[0].Delta, "Expected the sale's delta, not a recomputed one")

		upserts := mock.byAction("UPSERT_PRODUCT")
		assert.Len(t, upserts, 1, "Expected the product create to replicate once")
	})
}

func TestCheckoutValidation(t *testing.T) {
	router := initRouterWithSheet(t, nil)

	w := doJSON(router, http.MethodPost, "/api/sales", map[string]any{
		"items":         []map[string]any{},
		"paymentMethod": "CASH",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "Empty cart must be rejected")

	w = doJSON(router, http.MethodPost, "/api/sales", map[string]any{
		"items":         []map[string]any{{"productId": "ghost", "quantity": 1}},
		"paymentMethod": "CASH",
	})
	assert.Equal(t, http.StatusNotFound, w.Code, "Unknown product must 404")
}

func TestProductLifecycle(t *testing.T) {
	router := initRouterWithSheet(t, nil)

	w := doJSON(router, http.MethodPost, "/api/products", map[string]any{
		"name": "Glove", "category": "Accessories", "costPrice": 12, "sellingPrice": 25, "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created shop.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Edit: same id replaces.
	w = doJSON(router, http.MethodPost, "/api/products", map[string]any{
		"id": created.ID, "sku": created.SKU, "name": "Glove (L)",
		"category": "Accessories", "costPrice": 12, "sellingPrice": 28, "quantity": 10,
	})
	assert.Equal(t, http.StatusOK, w.Code, "Expected HTTP 200 OK for product update")

	w = doJSON(router, http.MethodGet, "/api/products", nil)
	var resp struct {
		Products []struct {
			shop.Product
			RiskLabel string `json:"riskLabel"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 1, "Update must not duplicate the product")
	assert.Equal(t, "Glove (L)", resp.Products[0].Name)
	assert.Equal(t, 28.0, resp.Products[0].SellingPrice)

	w = doJSON(router, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/products", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 0)
}

func TestDashboardAndReports(t *testing.T) {
	router := initRouterWithSheet(t, nil)

	w := doJSON(router, http.MethodPost, "/api/products", map[string]any{
		"name": `Bob "Longshaft" Driver`, "category": "Clubs",
		"costPrice": 100, "sellingPrice": 200, "quantity": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var dash struct {
		InventoryValue       float64 `json:"inventoryValue"`
		SalesCount           int     `json:"salesCount"`
		CategoryDistribution []struct {
			Name    string `json:"name"`
			Percent int    `json:"percent"`
		} `json:"categoryDistribution"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dash))
	assert.Equal(t, 400.0, dash.InventoryValue, "Expected 4 x 100 cost basis")
	require.Len(t, dash.CategoryDistribution, 1)
	assert.Equal(t, "Clubs", dash.CategoryDistribution[0].Name)
	assert.Equal(t, 100, dash.CategoryDistribution[0].Percent)

	w = doJSON(router, http.MethodGet, "/api/reports/inventory.csv", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "LKT_Inventory_Report_")
	assert.Contains(t, w.Body.String(), `"Bob ""Longshaft"" Driver"`,
		"CSV quote escaping must double inner quotes")
}

func TestSettingsConnectionFlow(t *testing.T) {
	mock := newSheetMock(t)
	router := initRouterWithSheet(t, nil)

	// Wrong suffix is rejected before any network call.
	w := doJSON(router, http.MethodPut, "/api/settings/endpoint", map[string]string{
		"endpoint": mock.srv.URL + "/edit",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		State   string `json:"state"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "ERROR", errResp.State)
	assert.Contains(t, errResp.Message, "/exec")

	// A reachable endpoint commits.
	w = doJSON(router, http.MethodPut, "/api/settings/endpoint", map[string]string{
		"endpoint": mock.srv.URL + "/exec",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/settings", nil)
	var settings struct {
		Endpoint string `json:"endpoint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, mock.srv.URL+"/exec", settings.Endpoint)
}

func TestPing(t *testing.T) {
	router := initRouterWithSheet(t, nil)
	w := doJSON(router, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"message":"pong"}`, w.Body.String())
}

