package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	JWTSecret    = "trackqr-test-secret"
	IRCEPTAPIKey = "test-ircept-key"
	IREPSAPIKey  = "test-ireps-key"
)

// TestEnv holds test environment resources
type TestEnv struct {
	DB     *gorm.DB
	Router *gin.Engine
	T      *testing.T
}

// SetupTestDB opens a private in-memory sqlite database with all tables migrated.
// A single connection keeps the in-memory database alive for the whole test.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"iss":   "trackqr",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// ExpiredTestToken creates a token that expired an hour ago
func ExpiredTestToken(userID string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Add(-2 * time.Hour).Unix(),
		"exp": now.Add(-time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return DoRequestWithHeaders(r, method, path, body, headers)
}

// DoRequestWithHeaders executes an HTTP request with explicit headers
func DoRequestWithHeaders(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedProfile creates a profile with the given role and status
func SeedProfile(t *testing.T, db *gorm.DB, id, name, role, status string) *entity.Profile {
	t.Helper()
	profile := &entity.Profile{
		ID:        id,
		Name:      name,
		Email:     id + "@railway.test",
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}
	return profile
}

// SeedFitting creates a catalog entry
func SeedFitting(t *testing.T, db *gorm.DB, partNumber, name string) *entity.Fitting {
	t.Helper()
	fitting := &entity.Fitting{
		ID:              uuid.New().String(),
		PartNumber:      partNumber,
		Name:            name,
		Manufacturer:    "RDSO Approved Works",
		Material:        "Spring steel",
		Specifications:  datatypes.JSONMap{"gauge": "BG"},
		SafetyStandards: datatypes.NewJSONSlice([]string{"RDSO/T-3701"}),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := db.Create(fitting).Error; err != nil {
		t.Fatalf("Failed to seed fitting: %v", err)
	}
	return fitting
}

// SeedQRCode creates an active QR record at the given location
func SeedQRCode(t *testing.T, db *gorm.DB, code, fittingID, zone, division, kmPost string) *entity.QRCode {
	t.Helper()
	qr := &entity.QRCode{
		ID:        uuid.New().String(),
		Code:      code,
		FittingID: fittingID,
		Zone:      zone,
		Division:  division,
		Section:   "NDLS-GZB",
		KmPost:    kmPost,
		Status:    entity.QRStatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(qr).Error; err != nil {
		t.Fatalf("Failed to seed qr code: %v", err)
	}
	return qr
}

// SeedInspection creates a completed inspection at the given time
func SeedInspection(t *testing.T, db *gorm.DB, qrCodeID, inspectorID string, rating int, at time.Time, defects ...string) *entity.Inspection {
	t.Helper()
	if defects == nil {
		defects = []string{}
	}
	inspection := &entity.Inspection{
		ID:              uuid.New().String(),
		QRCodeID:        qrCodeID,
		InspectorID:     inspectorID,
		InspectionDate:  at,
		InspectionType:  entity.InspectionTypeRoutine,
		ConditionRating: rating,
		DefectsFound:    datatypes.NewJSONSlice(defects),
		Status:          entity.InspectionStatusCompleted,
		CreatedAt:       at,
	}
	if err := db.Create(inspection).Error; err != nil {
		t.Fatalf("Failed to seed inspection: %v", err)
	}
	return inspection
}

// SeedMaintenance creates a completed maintenance record at the given time
func SeedMaintenance(t *testing.T, db *gorm.DB, qrCodeID, technicianID, maintenanceType string, at time.Time) *entity.MaintenanceRecord {
	t.Helper()
	record := &entity.MaintenanceRecord{
		ID:              uuid.New().String(),
		QRCodeID:        qrCodeID,
		TechnicianID:    technicianID,
		MaintenanceDate: at,
		MaintenanceType: maintenanceType,
		WorkDescription: "Replaced worn component",
		PartsUsed:       datatypes.NewJSONSlice([]entity.PartUsed{}),
		Status:          entity.MaintenanceStatusCompleted,
		CreatedAt:       at,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to seed maintenance: %v", err)
	}
	return record
}

// SyncActivitySink writes activity entries immediately so tests can assert on them
type SyncActivitySink struct {
	Repo *repository.ActivityLogRepository
}

func (s SyncActivitySink) Record(log *entity.ActivityLog) {
	_ = s.Repo.Create(context.Background(), log)
}

// CountActivity counts audit entries with the given action
func CountActivity(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&entity.ActivityLog{}).Where("action = ?", action).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count activity: %v", err)
	}
	return n
}
