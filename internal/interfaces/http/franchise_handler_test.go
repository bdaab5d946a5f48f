package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
	"github.com/jhoicas/franquicias-api/internal/application/usecase"
	"github.com/jhoicas/franquicias-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/franquicias-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/franquicias-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func buildAPI(t *testing.T, jwtSecret string) *fiber.App {
	t.Helper()
	repo := memory.NewFranchiseRepository()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:          "franquicias-test",
		FranchiseUC:      usecase.NewFranchiseUseCase(repo, nil, nil, 3),
		ReportUC:         usecase.NewReportUseCase(repo, nil, nil),
		BatchConcurrency: 2,
		JWTSecret:        jwtSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func postFranchise(t *testing.T, app *fiber.App, body any) dto.FranchiseResponse {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/franchises", body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.FranchiseResponse](t, raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Franquicias
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_201YLuego409PorNombreDuplicado(t *testing.T) {
	app := buildAPI(t, "")
	f := postFranchise(t, app, map[string]any{
		"name": "Alpha",
		"branches": []map[string]any{
			{"name": "Centro", "products": []map[string]any{{"name": "Pan", "stock": 10}}},
		},
	})
	assert.NotEmpty(t, f.ID)
	require.Len(t, f.Branches, 1)
	assert.NotEmpty(t, f.Branches[0].Products[0].ID)

	status, raw := call(t, app, http.MethodPost, "/api/franchises", map[string]any{"name": "Alpha"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestCreate_IgnoraIDsDelCliente(t *testing.T) {
	app := buildAPI(t, "")
	f := postFranchise(t, app, map[string]any{
		"id":       "cliente-1",
		"name":     "Alpha",
		"branches": []map[string]any{{"id": "b-cliente", "name": "Centro"}},
	})
	assert.NotEqual(t, "cliente-1", f.ID)
	assert.NotEqual(t, "b-cliente", f.Branches[0].ID)
}

func TestCreate_Validaciones(t *testing.T) {
	app := buildAPI(t, "")

	status, raw := call(t, app, http.MethodPost, "/api/franchises", map[string]any{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	status, raw = call(t, app, http.MethodPost, "/api/franchises", map[string]any{
		"name":     "Alpha",
		"branches": []map[string]any{{"name": "Centro", "products": []map[string]any{{"name": "Pan", "stock": -1}}}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Fields, "branches[0].products[0].stock")

	status, raw = call(t, app, http.MethodPost, "/api/franchises", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestGetByID_YNotFound(t *testing.T) {
	app := buildAPI(t, "")
	f := postFranchise(t, app, map[string]any{"name": "Alpha"})

	status, raw := call(t, app, http.MethodGet, "/api/franchises/"+f.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alpha", decode[dto.FranchiseResponse](t, raw).Name)

	status, raw = call(t, app, http.MethodGet, "/api/franchises/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "NOT_FOUND", errResp.Code)
	assert.Contains(t, errResp.Message, "no-existe")
}

func TestGetByName_ConEspacios(t *testing.T) {
	app := buildAPI(t, "")
	postFranchise(t, app, map[string]any{"name": "Café Central"})

	status, raw := call(t, app, http.MethodGet, "/api/franchises/name/Caf%C3%A9%20Central", nil)
	assert.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "Café Central", decode[dto.FranchiseResponse](t, raw).Name)

	status, raw = call(t, app, http.MethodGet, "/api/franchises/exists/Caf%C3%A9%20Central", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, decode[dto.ExistsResponse](t, raw).Exists)
}

func TestUpdateName_MismoNombreYNombreTomado(t *testing.T) {
	app := buildAPI(t, "")
	alpha := postFranchise(t, app, map[string]any{"name": "Alpha"})
	postFranchise(t, app, map[string]any{"name": "Beta"})

	status, _ := call(t, app, http.MethodPut, "/api/franchises/"+alpha.ID+"/name", map[string]any{"name": "Alpha"})
	assert.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, http.MethodPut, "/api/franchises/"+alpha.ID+"/name", map[string]any{"name": "Beta"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, raw).Code)
}

func TestDelete_CountYDeleteAll(t *testing.T) {
	app := buildAPI(t, "")
	alpha := postFranchise(t, app, map[string]any{"name": "Alpha"})
	postFranchise(t, app, map[string]any{"name": "Beta"})
	postFranchise(t, app, map[string]any{"name": "Gamma"})

	status, _ := call(t, app, http.MethodDelete, "/api/franchises/"+alpha.ID, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, app, http.MethodDelete, "/api/franchises/"+alpha.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, http.MethodDelete, "/api/franchises/name/Beta", nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, http.MethodGet, "/api/franchises/count", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[dto.CountResponse](t, raw).Count)

	status, raw = call(t, app, http.MethodDelete, "/api/franchises/all", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[dto.DeletedResponse](t, raw).Deleted)

	status, raw = call(t, app, http.MethodGet, "/api/franchises", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Zero(t, decode[dto.FranchiseListResponse](t, raw).Total)
}

func TestBatch_ResultadosPorElemento(t *testing.T) {
	app := buildAPI(t, "")
	postFranchise(t, app, map[string]any{"name": "Existente"})

	status, raw := call(t, app, http.MethodPost, "/api/franchises/batch", []map[string]any{
		{"name": "Uno"}, {"name": "Existente"}, {"name": "Dos"},
	})
	assert.Equal(t, http.StatusOK, status)
	res := decode[dto.BatchResponse](t, raw)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Failed)
	assert.NotEmpty(t, res.Results[1].Error)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sucursales y productos
// ──────────────────────────────────────────────────────────────────────────────

func TestSucursalesYProductos_CicloCompleto(t *testing.T) {
	app := buildAPI(t, "")
	f := postFranchise(t, app, map[string]any{"name": "Alpha"})
	base := "/api/franchises/" + f.ID

	status, raw := call(t, app, http.MethodPost, base+"/branches", map[string]any{"name": "Centro"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	branchID := decode[dto.FranchiseResponse](t, raw).Branches[0].ID

	status, raw = call(t, app, http.MethodPost, base+"/branches/"+branchID+"/products", map[string]any{"name": "Pan", "stock": 5})
	require.Equal(t, http.StatusCreated, status, string(raw))
	productID := decode[dto.FranchiseResponse](t, raw).Branches[0].Products[0].ID
	productPath := base + "/branches/" + branchID + "/products/" + productID

	status, raw = call(t, app, http.MethodPut, productPath+"/stock", map[string]any{"stock": 80})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, 80, decode[dto.FranchiseResponse](t, raw).Branches[0].Products[0].Stock)

	status, raw = call(t, app, http.MethodPut, productPath+"/stock", map[string]any{"stock": -5})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, raw).Code)

	status, _ = call(t, app, http.MethodPut, productPath+"/stock", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw = call(t, app, http.MethodPut, productPath+"/name", map[string]any{"name": "Pan integral"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Pan integral", decode[dto.FranchiseResponse](t, raw).Branches[0].Products[0].Name)

	status, _ = call(t, app, http.MethodPut, base+"/branches/"+branchID+"/name", map[string]any{"name": "Norte"})
	assert.Equal(t, http.StatusOK, status)

	status, raw = call(t, app, http.MethodDelete, base+"/branches/"+branchID+"/products/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Message, "producto")

	status, _ = call(t, app, http.MethodDelete, productPath, nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw = call(t, app, http.MethodDelete, base+"/branches/"+branchID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[dto.FranchiseResponse](t, raw).Branches)

	status, raw = call(t, app, http.MethodDelete, base+"/branches/"+branchID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Message, "sucursal")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestTopStockYStats(t *testing.T) {
	app := buildAPI(t, "")
	f := postFranchise(t, app, map[string]any{
		"name": "Alpha",
		"branches": []map[string]any{
			{"name": "Branch 1", "products": []map[string]any{{"name": "A", "stock": 100}, {"name": "B", "stock": 50}}},
			{"name": "Branch 2", "products": []map[string]any{{"name": "C", "stock": 75}}},
		},
	})

	status, raw := call(t, app, http.MethodGet, "/api/franchises/"+f.ID+"/top-stock-products", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []dto.TopStockProductResponse{
		{ProductName: "A", BranchName: "Branch 1", Stock: 100},
		{ProductName: "C", BranchName: "Branch 2", Stock: 75},
	}, decode[[]dto.TopStockProductResponse](t, raw))

	status, raw = call(t, app, http.MethodGet, "/api/franchises/"+f.ID+"/stats", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, dto.FranchiseStatsResponse{FranchiseName: "Alpha", TotalBranches: 2, TotalProducts: 3, TotalStock: 225},
		decode[dto.FranchiseStatsResponse](t, raw))

	status, _ = call(t, app, http.MethodGet, "/api/franchises/no-existe/stats", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearch(t *testing.T) {
	app := buildAPI(t, "")
	postFranchise(t, app, map[string]any{"name": "Alpha", "branches": []map[string]any{{"name": "A1"}}})
	postFranchise(t, app, map[string]any{"name": "Beta", "branches": []map[string]any{{"name": "B1"}, {"name": "B2"}}})

	status, raw := call(t, app, http.MethodGet, "/api/franchises/search?name=alpha", nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[[]dto.FranchiseResponse](t, raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)

	status, raw = call(t, app, http.MethodGet, "/api/franchises/search?minBranches=2", nil)
	require.Equal(t, http.StatusOK, status)
	got = decode[[]dto.FranchiseResponse](t, raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Name)

	status, raw = call(t, app, http.MethodGet, "/api/franchises/search?minProducts=1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(raw))

	status, _ = call(t, app, http.MethodGet, "/api/franchises/search?minBranches=-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth opcional y endpoints de operación
// ──────────────────────────────────────────────────────────────────────────────

func TestConSecret_EscriturasRequierenRolYLecturasSonPublicas(t *testing.T) {
	app := buildAPI(t, testJWTSecret)

	status, _ := call(t, app, http.MethodPost, "/api/franchises", map[string]any{"name": "Alpha"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, app, http.MethodPost, "/api/franchises", map[string]any{"name": "Alpha"},
		"Authorization", bearerForRole(t, pkgjwt.RoleViewer))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, app, http.MethodPost, "/api/franchises", map[string]any{"name": "Alpha"},
		"Authorization", bearerForRole(t, pkgjwt.RoleManager))
	assert.Equal(t, http.StatusCreated, status)

	status, _ = call(t, app, http.MethodGet, "/api/franchises/count", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestHealthYMetrics(t *testing.T) {
	app := buildAPI(t, "")

	status, raw := call(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"ok"`)

	status, raw = call(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "go_goroutines")
}

func TestRutaInexistente_404(t *testing.T) {
	app := buildAPI(t, "")
	status, raw := call(t, app, http.MethodGet, "/api/otra-cosa", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, raw).Code)
}
