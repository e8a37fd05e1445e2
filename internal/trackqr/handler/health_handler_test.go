package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/testutil"
)

func TestHealthCheck(t *testing.T) {
	env, _ := setupAPITest(t)
	seedUsers(t, env)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")
	testutil.SeedInspection(t, env.DB, qr.ID, "u-tech", 4, time.Now().UTC())

	// 无需登录
	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["status"] != "healthy" || resp["database"] != "connected" {
		t.Errorf("unexpected health report: %v", resp)
	}
	if resp["cache"] != "disabled" {
		t.Errorf("expected cache disabled without redis, got %v", resp["cache"])
	}
	if resp["version"] != "test" {
		t.Errorf("expected version test, got %v", resp["version"])
	}
	stats := resp["statistics"].(map[string]interface{})
	if stats["total_qr_codes"] != float64(1) || stats["total_users"] != float64(5) || stats["total_inspections"] != float64(1) {
		t.Errorf("unexpected statistics: %v", stats)
	}
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	env, _ := setupAPITest(t)

	sqlDB, err := env.DB.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.Close()

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/health", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["status"] != "unhealthy" || resp["database"] != "disconnected" {
		t.Errorf("unexpected health report: %v", resp)
	}
	if resp["error"] == "" || resp["error"] == nil {
		t.Error("expected error detail in unhealthy report")
	}
}
