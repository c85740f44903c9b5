//go:build integration

package router_test

// Integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qureshi08/NPF-1/internal/config"
	"github.com/qureshi08/NPF-1/internal/infra"
	"github.com/qureshi08/NPF-1/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("npf_test"),
		tcPostgres.WithUsername("npf"),
		tcPostgres.WithPassword("npf"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		InvoiceStoragePath: t.TempDir(),
		ShopName:           "New Pindi Furniture (test)",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("npf-e2e-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO users (id, username, email, password_hash, role, active, created_at)
		VALUES (gen_random_uuid(), 'admin', 'admin@e2e.test', ?, 'admin', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "npf-e2e-pass"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full fulfillment cycle: product → order → item → payment → ledger.
func TestIntegration_OrderFulfillmentCycle(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"sku":            "TBL-E2E-1",
			"name":           "Oak Dining Table",
			"cost_price":     "600",
			"selling_price":  "1000",
			"stock_quantity": 5,
			"reorder_level":  1,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	orderResp := do(t, env.server, "POST", "/v1/orders", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID            string `json:"id"`
		PaymentStatus string `json:"payment_status"`
	}
	decodeJSON(t, orderResp, &order)
	assert.Equal(t, "Unpaid", order.PaymentStatus)

	itemResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/items",
		jsonBody(t, map[string]any{"product_id": prod.ID, "quantity": 2}),
		env.token,
	)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	var withItem struct {
		TotalAmount string `json:"total_amount"`
	}
	decodeJSON(t, itemResp, &withItem)
	assert.Equal(t, "2000", withItem.TotalAmount)

	// Stock reserved: 5 - 2 = 3
	getProd := do(t, env.server, "GET", "/v1/products/"+prod.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getProd.StatusCode)
	var freshProd struct {
		StockQuantity int `json:"stock_quantity"`
	}
	decodeJSON(t, getProd, &freshProd)
	assert.Equal(t, 3, freshProd.StockQuantity)

	payResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/payments",
		jsonBody(t, map[string]any{"amount": "2000", "method": "Cash"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, payResp.StatusCode)
	var paid struct {
		PaymentStatus string `json:"payment_status"`
		Balance       string `json:"balance"`
	}
	decodeJSON(t, payResp, &paid)
	assert.Equal(t, "Paid", paid.PaymentStatus)
	assert.Equal(t, "0", paid.Balance)

	// The sale is mirrored into the finance ledger
	finResp := do(t, env.server, "GET", "/v1/finance?type=Income", nil, env.token)
	require.Equal(t, http.StatusOK, finResp.StatusCode)
	var ledger struct {
		Data []struct {
			Amount         string  `json:"amount"`
			Category       string  `json:"category"`
			RelatedOrderID *string `json:"related_order_id"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, finResp, &ledger)
	require.EqualValues(t, 1, ledger.Total)
	assert.Equal(t, "2000", ledger.Data[0].Amount)
	assert.Equal(t, "Sales", ledger.Data[0].Category)
	require.NotNil(t, ledger.Data[0].RelatedOrderID)
	assert.Equal(t, order.ID, *ledger.Data[0].RelatedOrderID)
}

// Oversell is refused at the database level.
func TestIntegration_OversellRejected(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"sku":            "CHR-E2E-2",
			"name":           "Pine Chair",
			"cost_price":     "40",
			"selling_price":  "90",
			"stock_quantity": 1,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	orderResp := do(t, env.server, "POST", "/v1/orders", jsonBody(t, map[string]any{}), env.token)
	require.Equal(t, http.StatusCreated, orderResp.StatusCode)
	var order struct {
		ID string `json:"id"`
	}
	decodeJSON(t, orderResp, &order)

	itemResp := do(t, env.server, "POST", "/v1/orders/"+order.ID+"/items",
		jsonBody(t, map[string]any{"product_id": prod.ID, "quantity": 3}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, itemResp.StatusCode)
	var body struct {
		Detail string `json:"detail"`
	}
	decodeJSON(t, itemResp, &body)
	assert.Contains(t, body.Detail, "Insufficient stock")
}

// Routes behind a capability reject tokens whose role lacks it.
func TestIntegration_PermissionDenied(t *testing.T) {
	env := setupTestEnv(t)

	createResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username": "carpenter",
			"email":    "carpenter@e2e.test",
			"password": "workshop-pass-1",
			"role":     "workshop",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, createResp.StatusCode)

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "carpenter", "password": "workshop-pass-1"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)

	// Workshop accounts cannot create products
	denied := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"sku": "X-1", "name": "Nope",
			"cost_price": "1", "selling_price": "2",
		}),
		loginBody.AccessToken,
	)
	assert.Equal(t, http.StatusForbidden, denied.StatusCode)

	// But they can move production jobs
	jobResp := do(t, env.server, "POST", "/v1/production",
		jsonBody(t, map[string]any{"product_name": "Custom Bed Frame"}),
		loginBody.AccessToken,
	)
	assert.Equal(t, http.StatusCreated, jobResp.StatusCode)
}
