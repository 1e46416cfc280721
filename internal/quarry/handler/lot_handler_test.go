package handler

import (
	"net/http"
	"testing"

	"github.com/bitfantasy/quarry-erp/internal/quarry/repository"
	"github.com/bitfantasy/quarry-erp/internal/quarry/service"
	"github.com/bitfantasy/quarry-erp/internal/quarry/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupLotTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, zap.NewNop())
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	handlers.RegisterRoutes(api)
	return router
}

func createLotViaAPI(t *testing.T, router *gin.Engine, token, qbid string, splitCap int) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/lots", map[string]interface{}{
		"qbid":          qbid,
		"material_name": "Granite Black",
		"stone_family":  "granite",
		"split_cap":     splitCap,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestLotCreateAndGet(t *testing.T) {
	router := setupLotTest(t)
	token := testutil.DefaultTestToken()

	lot := createLotViaAPI(t, router, token, "QB-H100", 3)
	if lot["qbid"] != "QB-H100" {
		t.Errorf("Expected qbid QB-H100, got %v", lot["qbid"])
	}

	w := testutil.DoRequest(router, "GET", "/api/v1/lots/QB-H100", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["locked"] != false {
		t.Errorf("Expected locked=false for fresh lot, got %v", data["locked"])
	}
	if data["capacity_text"] != "0/3" {
		t.Errorf("Expected capacity_text 0/3, got %v", data["capacity_text"])
	}
}

func TestLotRequiresAuth(t *testing.T) {
	router := setupLotTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/lots", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", w.Code)
	}
}

func TestLotGenerateBlocksEndpoint(t *testing.T) {
	router := setupLotTest(t)
	token := testutil.DefaultTestToken()
	createLotViaAPI(t, router, token, "QB-H200", 2)

	w := testutil.DoRequest(router, "POST", "/api/v1/lots/QB-H200/generate-blocks", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["created"].(float64) != 2 {
		t.Fatalf("Expected 2 generated blocks, got %v", data["created"])
	}
	blocks := data["blocks"].([]interface{})
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks in payload, got %d", len(blocks))
	}

	// lot is now at cap, next call maps to 409 with the capacity code
	w = testutil.DoRequest(router, "POST", "/api/v1/lots/QB-H200/generate-blocks", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 at cap, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10004 {
		t.Errorf("Expected business code 10004, got %v", resp["code"])
	}

	// capacity text reflects usage
	w = testutil.DoRequest(router, "GET", "/api/v1/lots/QB-H200", nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["capacity_text"] != "2/2" {
		t.Errorf("Expected capacity_text 2/2, got %v", data["capacity_text"])
	}
	if data["locked"] != true {
		t.Errorf("Expected locked=true after generation, got %v", data["locked"])
	}
}

func TestLotUpdateLockedReturnsConflict(t *testing.T) {
	router := setupLotTest(t)
	token := testutil.DefaultTestToken()
	createLotViaAPI(t, router, token, "QB-H300", 1)
	testutil.DoRequest(router, "POST", "/api/v1/lots/QB-H300/generate-blocks", nil, token)

	w := testutil.DoRequest(router, "PUT", "/api/v1/lots/QB-H300", map[string]interface{}{
		"material_name": "Marble White",
	}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409 for locked lot, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10003 {
		t.Errorf("Expected business code 10003, got %v", resp["code"])
	}

	// cost-only update passes through
	w = testutil.DoRequest(router, "PUT", "/api/v1/lots/QB-H300", map[string]interface{}{
		"gross_cost":     500.0,
		"transport_cost": 100.0,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for cost update, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["total_cost"].(float64) != 600 {
		t.Errorf("Expected total_cost 600, got %v", data["total_cost"])
	}
}

func TestLotNotFound(t *testing.T) {
	router := setupLotTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "GET", "/api/v1/lots/QB-NOPE", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10002 {
		t.Errorf("Expected business code 10002, got %v", resp["code"])
	}
}
