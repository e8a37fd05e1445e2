package service

import (
	"context"
	"testing"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var supervisor = &Session{UserID: "u-super", Role: entity.RoleSupervisor, HasProfile: true}

func registerRequest(fittingID string) *RegisterQRCodeRequest {
	return &RegisterQRCodeRequest{
		FittingID: fittingID,
		Zone:      "Northern",
		Division:  "Delhi",
		Section:   "NDLS-GZB",
		KmPost:    "12/4",
	}
}

// sequence 依次返回给定值，用尽后重复最后一个
func sequence(values ...int) func() int {
	i := 0
	return func() int {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func TestRegisterQRCode_RetriesOnCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	fitting := testutil.SeedFitting(t, db, "ERC-MK-III", "Elastic Rail Clip Mk III")
	testutil.SeedQRCode(t, db, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	at := time.UnixMilli(1700000000000)
	gen := NewCodeGeneratorWith(func() time.Time { return at }, sequence(1, 1, 2))
	svc := NewQRCodeService(repos.QRCode, repos.Fitting, gen, zap.NewNop())

	qr, err := svc.RegisterQRCode(context.Background(), supervisor, registerRequest(fitting.ID))
	require.NoError(t, err)
	assert.Equal(t, "IR1700000000000002", qr.Code)
	assert.Equal(t, 12.4, qr.KmValue)
}

func TestRegisterQRCode_GivesUpAfterMaxAttempts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	fitting := testutil.SeedFitting(t, db, "ERC-MK-III", "Elastic Rail Clip Mk III")
	testutil.SeedQRCode(t, db, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	calls := 0
	at := time.UnixMilli(1700000000000)
	gen := NewCodeGeneratorWith(func() time.Time { return at }, func() int {
		calls++
		return 1
	})
	svc := NewQRCodeService(repos.QRCode, repos.Fitting, gen, zap.NewNop())

	_, err := svc.RegisterQRCode(context.Background(), supervisor, registerRequest(fitting.ID))
	require.ErrorIs(t, err, ErrDuplicateCode)
	assert.Equal(t, MaxCodeAttempts, calls)

	var count int64
	db.Model(&entity.QRCode{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterQRCode_Permissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewQRCodeService(repos.QRCode, repos.Fitting, NewCodeGenerator(), zap.NewNop())

	for _, s := range []*Session{
		{UserID: "u1", Role: entity.RoleTechnician},
		{UserID: "u2", Role: entity.RoleViewer},
		{UserID: "u3"},
		nil,
	} {
		_, err := svc.RegisterQRCode(context.Background(), s, registerRequest("any"))
		assert.ErrorIs(t, err, ErrForbidden)
	}
}

func TestUpdateQRCode_RecordsTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	fitting := testutil.SeedFitting(t, db, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, db, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	svc := NewQRCodeService(repos.QRCode, repos.Fitting, NewCodeGenerator(), zap.NewNop())
	svc.SetActivitySink(testutil.SyncActivitySink{Repo: repos.ActivityLog})

	status := entity.QRStatusInactive
	empty := " "
	_, err := svc.UpdateQRCode(context.Background(), supervisor, qr.ID, &UpdateQRCodeRequest{Zone: &empty})
	require.Error(t, err)
	assert.Equal(t, "Missing required field: zone", err.Error())

	updated, err := svc.UpdateQRCode(context.Background(), supervisor, qr.ID, &UpdateQRCodeRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.QRStatusInactive, updated.Status)

	var log entity.ActivityLog
	require.NoError(t, db.Where("action = ?", entity.ActionQRUpdate).First(&log).Error)
	assert.Equal(t, entity.QRStatusActive, log.Details["from_status"])
	assert.Equal(t, entity.QRStatusInactive, log.Details["to_status"])
}

func TestUpdateQRCode_KeepsScheduleStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	fitting := testutil.SeedFitting(t, db, "ERC-MK-III", "Elastic Rail Clip Mk III")
	qr := testutil.SeedQRCode(t, db, "IR1700000000000001", fitting.ID, "Northern", "Delhi", "10/1")

	qrSvc := NewQRCodeService(repos.QRCode, repos.Fitting, NewCodeGenerator(), zap.NewNop())
	syncSvc := NewSyncService(repos.QRCode, NewFittingService(repos.Fitting, nil), nil)

	result, err := syncSvc.HandleIRCEPT(context.Background(), &ExternalRequest{
		Action: ActionUpdateMaintenanceSchedule,
		Data:   []byte(`{"qr_code": "IR1700000000000001", "status": "maintenance"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.QRStatusMaintenance, result.Data.(*entity.QRCode).Status)

	section := "NDLS-GZB-2"
	kmPost := "11/2"
	updated, err := qrSvc.UpdateQRCode(context.Background(), supervisor, qr.ID, &UpdateQRCodeRequest{
		Section: &section,
		KmPost:  &kmPost,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.QRStatusMaintenance, updated.Status)
	assert.Equal(t, section, updated.Section)
	assert.Equal(t, 11.2, updated.KmValue)
}
