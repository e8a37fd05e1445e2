package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/testutil"
)

func TestCreateInspection(t *testing.T) {
	env, _ := setupAPITest(t)
	tokens := seedUsers(t, env)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	body := map[string]interface{}{
		"qr_code_id":       qr.ID,
		"inspection_type":  "routine",
		"condition_rating": "4",
		"observations":     "Clip seated, minor rust",
		"defects_found":    "surface rust, loose pad",
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/inspections", body, tokens.Technician)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["condition_rating"] != float64(4) {
		t.Errorf("expected rating 4, got %v", data["condition_rating"])
	}
	if data["inspector_id"] != "u-tech" {
		t.Errorf("expected inspector u-tech, got %v", data["inspector_id"])
	}
	if data["status"] != "completed" {
		t.Errorf("expected default status completed, got %v", data["status"])
	}
	defects, _ := data["defects_found"].([]interface{})
	if len(defects) != 2 || defects[0] != "surface rust" || defects[1] != "loose pad" {
		t.Errorf("expected 2 trimmed defects, got %v", data["defects_found"])
	}
}

func TestCreateInspection_Rating(t *testing.T) {
	env, _ := setupAPITest(t)
	tokens := seedUsers(t, env)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	for _, rating := range []interface{}{6, 0, 3.5, "excellent"} {
		body := map[string]interface{}{
			"qr_code_id":       qr.ID,
			"inspection_type":  "routine",
			"condition_rating": rating,
		}
		w := testutil.DoRequest(env.Router, http.MethodPost, "/api/inspections", body, tokens.Technician)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("rating %v: expected 400, got %d: %s", rating, w.Code, w.Body.String())
		}
		if resp := testutil.ParseResponse(w); resp["error"] != "condition_rating must be an integer between 1 and 5" {
			t.Errorf("rating %v: unexpected error %v", rating, resp["error"])
		}
	}

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/inspections", map[string]interface{}{
		"qr_code_id":      qr.ID,
		"inspection_type": "routine",
	}, tokens.Technician)
	if resp := testutil.ParseResponse(w); w.Code != http.StatusBadRequest || resp["error"] != "Missing required field: condition_rating" {
		t.Errorf("expected missing rating error, got %d %v", w.Code, resp["error"])
	}
}

func TestCreateInspection_UnknownQRCode(t *testing.T) {
	env, _ := setupAPITest(t)
	tokens := seedUsers(t, env)

	body := map[string]interface{}{
		"qr_code_id":       "no-such-qr",
		"inspection_type":  "routine",
		"condition_rating": 3,
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/inspections", body, tokens.Technician)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for orphan inspection, got %d: %s", w.Code, w.Body.String())
	}

	body["qr_code_id"] = ""
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/inspections", body, tokens.Technician)
	if resp := testutil.ParseResponse(w); resp["error"] != "Missing required field: qr_code_id" {
		t.Errorf("unexpected error %v", resp["error"])
	}
}

func TestListInspections(t *testing.T) {
	env, _ := setupAPITest(t)
	tokens := seedUsers(t, env)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qrA := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")
	qrB := testutil.SeedQRCode(t, env.DB, "IR1700000000000002", fitting.ID, "Northern", "Delhi", "10/2")

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	testutil.SeedInspection(t, env.DB, qrA.ID, "u-tech", 5, base)
	testutil.SeedInspection(t, env.DB, qrA.ID, "u-tech", 4, base.AddDate(0, 0, 10))
	testutil.SeedInspection(t, env.DB, qrB.ID, "u-tech", 2, base.AddDate(0, 0, 20), "cracked sleeper")

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/inspections", nil, tokens.Viewer)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	items := resp["data"].([]interface{})
	if len(items) != 3 || resp["count"] != float64(3) {
		t.Fatalf("expected 3 inspections, got %d (count %v)", len(items), resp["count"])
	}
	first := items[0].(map[string]interface{})
	if first["condition_rating"] != float64(2) {
		t.Errorf("expected newest inspection first, got rating %v", first["condition_rating"])
	}
	if qr, ok := first["qr_codes"].(map[string]interface{}); !ok || qr["qr_code"] != qrB.Code {
		t.Errorf("expected joined qr record, got %v", first["qr_codes"])
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/inspections?qr_code_id="+qrA.ID, nil, tokens.Viewer)
	if items := testutil.ParseResponse(w)["data"].([]interface{}); len(items) != 2 {
		t.Errorf("expected 2 inspections for %s, got %d", qrA.Code, len(items))
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/inspections?date_from=2024-01-05&date_to=2024-01-11", nil, tokens.Viewer)
	if items := testutil.ParseResponse(w)["data"].([]interface{}); len(items) != 1 {
		t.Errorf("expected 1 inspection in range, got %d", len(items))
	}

	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/inspections?date_from=yesterday", nil, tokens.Viewer)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad date_from, got %d", w.Code)
	}
}
