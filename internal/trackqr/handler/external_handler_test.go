package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/testutil"
)

func externalRequest(env *testutil.TestEnv, path, apiKey string, body interface{}) (int, map[string]interface{}) {
	headers := map[string]string{}
	if apiKey != "" {
		headers["X-API-Key"] = apiKey
	}
	w := testutil.DoRequestWithHeaders(env.Router, http.MethodPost, path, body, headers)
	return w.Code, testutil.ParseResponse(w)
}

func TestExternalAPIKey(t *testing.T) {
	env, _ := setupAPITest(t)
	body := map[string]interface{}{"action": "get_track_status", "data": map[string]interface{}{}}

	cases := []struct {
		name string
		path string
		key  string
	}{
		{"ircept missing key", "/api/external/ircept", ""},
		{"ircept wrong key", "/api/external/ircept", "nope"},
		{"ircept with ireps key", "/api/external/ircept", testutil.IREPSAPIKey},
		{"ireps with ircept key", "/api/external/ireps", testutil.IRCEPTAPIKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := externalRequest(env, tc.path, tc.key, body)
			if code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
			if resp["error"] != "Invalid API key" {
				t.Errorf("unexpected error %v", resp["error"])
			}
		})
	}

	// 外部接口不接受用户 JWT
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/external/ircept", body, testutil.GenerateTestToken("u-admin", "Admin", "a@railway.test"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for JWT-only request, got %d", w.Code)
	}
}

func TestExternalRequestValidation(t *testing.T) {
	env, _ := setupAPITest(t)

	cases := []struct {
		name string
		path string
		key  string
		body interface{}
		msg  string
	}{
		{"ircept unknown action", "/api/external/ircept", testutil.IRCEPTAPIKey, map[string]interface{}{"action": "sync_track_fittings", "data": map[string]interface{}{}}, "Invalid action"},
		{"ireps unknown action", "/api/external/ireps", testutil.IREPSAPIKey, map[string]interface{}{"action": "get_track_status", "data": map[string]interface{}{}}, "Invalid action"},
		{"missing action", "/api/external/ircept", testutil.IRCEPTAPIKey, map[string]interface{}{"data": map[string]interface{}{}}, "Missing required field: action"},
		{"missing data", "/api/external/ireps", testutil.IREPSAPIKey, map[string]interface{}{"action": "get_qr_status"}, "Missing required field: data"},
		{"data not object", "/api/external/ireps", testutil.IREPSAPIKey, map[string]interface{}{"action": "get_qr_status", "data": "IR1"}, "data must be an object"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, resp := externalRequest(env, tc.path, tc.key, tc.body)
			if code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %v", code, resp)
			}
			if resp["error"] != tc.msg {
				t.Errorf("expected %q, got %v", tc.msg, resp["error"])
			}
		})
	}

	code, _ := externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, "{not json")
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", code)
	}
}

func TestIREPSSyncTrackFittings(t *testing.T) {
	env, _ := setupAPITest(t)

	payload := map[string]interface{}{
		"action": "sync_track_fittings",
		"data": map[string]interface{}{
			"part_number":      "TF-001",
			"name":             "Elastic Rail Clip",
			"manufacturer":     "Steel Works Ltd",
			"material":         "Silico-manganese steel",
			"weight_kg":        "0.9",
			"dimensions":       "120x60x15 mm",
			"specifications":   map[string]interface{}{"toe_load_kn": 11},
			"safety_standards": []string{"RDSO/T-3701"},
		},
	}
	code, resp := externalRequest(env, "/api/external/ireps", testutil.IREPSAPIKey, payload)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp)
	}
	if resp["message"] != "Track fitting synced successfully" {
		t.Errorf("unexpected message %v", resp["message"])
	}
	data := resp["data"].(map[string]interface{})
	if data["weight_kg"] != 0.9 {
		t.Errorf("expected weight 0.9, got %v", data["weight_kg"])
	}
	if dims, _ := data["dimensions"].(map[string]interface{}); dims["text"] != "120x60x15 mm" {
		t.Errorf("expected text dimensions, got %v", data["dimensions"])
	}
	firstID := data["id"]

	// 同样数据再次同步不产生新行也不写日志
	code, resp = externalRequest(env, "/api/external/ireps", testutil.IREPSAPIKey, payload)
	if code != http.StatusOK {
		t.Fatalf("expected 200 on resync, got %d: %v", code, resp)
	}
	if resp["data"].(map[string]interface{})["id"] != firstID {
		t.Errorf("expected same fitting id on resync")
	}

	// 变更后更新原记录
	payload["data"].(map[string]interface{})["manufacturer"] = "New Steel Works"
	code, resp = externalRequest(env, "/api/external/ireps", testutil.IREPSAPIKey, payload)
	if code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %v", code, resp)
	}
	updated := resp["data"].(map[string]interface{})
	if updated["id"] != firstID || updated["manufacturer"] != "New Steel Works" {
		t.Errorf("expected in-place update, got %v", updated)
	}

	var count int64
	env.DB.Model(&entity.Fitting{}).Where("part_number = ?", "TF-001").Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 fitting row, got %d", count)
	}
	if n := testutil.CountActivity(t, env.DB, entity.ActionFittingSync); n != 2 {
		t.Errorf("expected 2 FITTING_SYNC entries, got %d", n)
	}

	payload["data"] = map[string]interface{}{"name": "No part number"}
	code, resp = externalRequest(env, "/api/external/ireps", testutil.IREPSAPIKey, payload)
	if code != http.StatusBadRequest || resp["error"] != "Missing required field: part_number" {
		t.Errorf("expected missing part_number, got %d %v", code, resp["error"])
	}
}

func TestIRCEPTGetTrackStatus(t *testing.T) {
	env, _ := setupAPITest(t)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	a := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")
	testutil.SeedQRCode(t, env.DB, "IR1700000000000002", fitting.ID, "Northern", "Delhi", "10/2")
	testutil.SeedQRCode(t, env.DB, "IR1700000000000003", fitting.ID, "Western", "Mumbai", "5/0")

	testutil.SeedInspection(t, env.DB, a.ID, "u-tech", 5, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	testutil.SeedInspection(t, env.DB, a.ID, "u-tech", 3, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "worn pad")

	body := map[string]interface{}{
		"action": "get_track_status",
		"data":   map[string]interface{}{"zone": "Northern", "division": "Delhi"},
	}
	code, resp := externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp)
	}
	if resp["count"] != float64(2) {
		t.Fatalf("expected count 2, got %v", resp["count"])
	}
	items := resp["data"].([]interface{})
	first := items[0].(map[string]interface{})
	if first["qr_code"] != a.Code {
		t.Errorf("expected results ordered by km post, got %v first", first["qr_code"])
	}
	condition := first["condition"].(map[string]interface{})
	if condition["rating"] != float64(3) {
		t.Errorf("expected latest rating 3, got %v", condition["rating"])
	}
	if defects := condition["defects"].([]interface{}); len(defects) != 1 || defects[0] != "worn pad" {
		t.Errorf("expected latest defects, got %v", defects)
	}
	if f := first["fitting"].(map[string]interface{}); f["part_number"] != "ERC-MK-III" {
		t.Errorf("expected fitting summary, got %v", f)
	}

	second := items[1].(map[string]interface{})["condition"].(map[string]interface{})
	if second["rating"] != nil || second["last_inspection"] != nil {
		t.Errorf("expected empty condition for uninspected fitting, got %v", second)
	}

	body["data"] = map[string]interface{}{"km_from": 10, "km_to": "10.15"}
	code, resp = externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, body)
	if code != http.StatusOK || resp["count"] != float64(1) {
		t.Errorf("expected 1 result in km range, got %d %v", code, resp["count"])
	}

	body["data"] = map[string]interface{}{"km_from": "ten"}
	code, resp = externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, body)
	if code != http.StatusBadRequest || resp["error"] != "km_from must be a number" {
		t.Errorf("expected km_from validation, got %d %v", code, resp["error"])
	}
}

func TestIRCEPTUpdateMaintenanceSchedule(t *testing.T) {
	env, _ := setupAPITest(t)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	body := map[string]interface{}{
		"action": "update_maintenance_schedule",
		"data": map[string]interface{}{
			"qr_code":        qr.Code,
			"status":         "maintenance",
			"scheduled_date": "2024-07-01",
			"work_order":     "WO-5531",
		},
	}
	code, resp := externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp)
	}
	if resp["message"] != "Maintenance schedule updated successfully" {
		t.Errorf("unexpected message %v", resp["message"])
	}

	var stored entity.QRCode
	env.DB.First(&stored, "id = ?", qr.ID)
	if stored.Status != entity.QRStatusMaintenance {
		t.Errorf("expected status maintenance, got %s", stored.Status)
	}

	var log entity.ActivityLog
	if err := env.DB.Where("action = ?", entity.ActionTMSUpdate).First(&log).Error; err != nil {
		t.Fatalf("expected TMS_UPDATE entry: %v", err)
	}
	if log.UserID != nil {
		t.Errorf("expected system entry without user, got %v", *log.UserID)
	}
	if log.Details["source"] != "IRCEPT_TMS" || log.Details["from_status"] != "active" {
		t.Errorf("unexpected details: %v", log.Details)
	}
	schedule, _ := log.Details["schedule_data"].(map[string]interface{})
	if schedule["work_order"] != "WO-5531" {
		t.Errorf("expected schedule data recorded, got %v", log.Details["schedule_data"])
	}

	body["data"] = map[string]interface{}{"qr_code": "IR0000000000000000", "status": "active"}
	code, resp = externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, body)
	if code != http.StatusNotFound || resp["error"] != "QR code not found" {
		t.Errorf("expected 404 for unknown code, got %d %v", code, resp["error"])
	}

	body["data"] = map[string]interface{}{"qr_code": qr.Code, "status": "retired"}
	code, _ = externalRequest(env, "/api/external/ircept", testutil.IRCEPTAPIKey, body)
	if code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", code)
	}
	if n := testutil.CountActivity(t, env.DB, entity.ActionTMSUpdate); n != 1 {
		t.Errorf("expected 1 TMS_UPDATE entry, got %d", n)
	}
}

func TestIREPSGetQRStatus(t *testing.T) {
	env, _ := setupAPITest(t)
	fitting := testutil.SeedFitting(t, env.DB, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, env.DB, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	body := map[string]interface{}{"action": "get_qr_status", "data": map[string]interface{}{"qr_code": qr.Code}}
	code, resp := externalRequest(env, "/api/external/ireps", testutil.IREPSAPIKey, body)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", code, resp)
	}
	data := resp["data"].(map[string]interface{})
	if data["status"] != "active" {
		t.Errorf("expected active, got %v", data["status"])
	}
	if loc := data["location"].(map[string]interface{}); loc["km_post"] != "10/1" || loc["zone"] != "Northern" {
		t.Errorf("unexpected location %v", loc)
	}
	if tf := data["track_fitting"].(map[string]interface{}); tf["name"] != "Elastic Rail Clip Mk III" {
		t.Errorf("unexpected fitting %v", tf)
	}

	body["data"] = map[string]interface{}{"qr_code": "IR0000000000000000"}
	code, _ = externalRequest(env, "/api/external/ireps", testutil.IREPSAPIKey, body)
	if code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}
