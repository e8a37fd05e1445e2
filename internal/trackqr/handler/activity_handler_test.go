package handler

import (
	"net/http"
	"testing"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/testutil"
)

func TestListActivity(t *testing.T) {
	env, _ := setupAPITest(t)
	tokens := seedUsers(t, env)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	scan := map[string]interface{}{"qr_code": qr.Code}
	for i := 0; i < 2; i++ {
		if w := testutil.DoRequest(env.Router, http.MethodPost, "/api/qr-codes/scan", scan, tokens.Technician); w.Code != http.StatusOK {
			t.Fatalf("scan failed: %d", w.Code)
		}
	}
	w := testutil.DoRequest(env.Router, http.MethodPut, "/api/qr-codes/"+qr.ID, map[string]interface{}{"status": "inactive"}, tokens.Admin)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed: %d", w.Code)
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/activity", nil, tokens.Supervisor)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	items := testutil.ParseResponse(w)["data"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(items))
	}
	first := items[0].(map[string]interface{})
	if q, ok := first["qr_codes"].(map[string]interface{}); !ok || q["qr_code"] != qr.Code {
		t.Errorf("expected joined qr record, got %v", first["qr_codes"])
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/activity?action="+entity.ActionQRScan+"&user_id=u-tech", nil, tokens.Admin)
	if items := testutil.ParseResponse(w)["data"].([]interface{}); len(items) != 2 {
		t.Errorf("expected 2 scan entries, got %d", len(items))
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/activity", nil, tokens.Technician)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for technician, got %d", w.Code)
	}
}
