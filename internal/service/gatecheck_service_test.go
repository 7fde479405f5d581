package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	pkgerrors "sawit-ops/backend/pkg/errors"
)

func newGateServiceForTest(env *testEnv) GateCheckService {
	return NewGateCheckService(env.cfg, env.repo, env.hub, env.coord, env.resolver, env.logger)
}

func createGuestLogReq() *dto.CreateGuestLogRequest {
	return &dto.CreateGuestLogRequest{
		DriverName:   "Budi",
		VehiclePlate: "BM 1234 XY",
		VehicleType:  string(model.VehicleTruck),
		DeviceID:     "dev-1",
	}
}

func TestCreateGuestLog(t *testing.T) {
	env := newTestEnv()
	svc := newGateServiceForTest(env)

	resp, err := svc.CreateGuestLog(context.Background(), testActor(), createGuestLogReq())
	if err != nil {
		t.Fatalf("CreateGuestLog: %v", err)
	}
	if resp.Status != string(model.GuestLogEntry) {
		t.Errorf("status = %q, want ENTRY", resp.Status)
	}
	if resp.SyncStatus != string(model.SyncStatusSynced) {
		t.Errorf("online create should be SYNCED, got %q", resp.SyncStatus)
	}
	if resp.EntryTime == nil {
		t.Error("entry time not stamped")
	}
	if resp.GatePosition != "MAIN_GATE" {
		t.Errorf("gate position = %q, want default MAIN_GATE", resp.GatePosition)
	}
	if resp.DurationLabel != justArrivedLabel {
		t.Errorf("fresh entry should read %q, got %q", justArrivedLabel, resp.DurationLabel)
	}
}

func TestCreateGuestLogUnknownVehicleType(t *testing.T) {
	env := newTestEnv()
	svc := newGateServiceForTest(env)

	req := createGuestLogReq()
	req.VehicleType = "HELICOPTER"
	if _, err := svc.CreateGuestLog(context.Background(), testActor(), req); err == nil {
		t.Fatal("unknown vehicle type must be rejected")
	}
}

func TestGetGuestLogCompanyScope(t *testing.T) {
	env := newTestEnv()
	svc := newGateServiceForTest(env)
	actor := testActor()

	resp, err := svc.CreateGuestLog(context.Background(), actor, createGuestLogReq())
	if err != nil {
		t.Fatalf("CreateGuestLog: %v", err)
	}

	other := testActor()
	other.CompanyID = "co-other"
	if _, err := svc.GetGuestLog(context.Background(), other, resp.ID); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("cross-company read got %v, want ErrForbidden", err)
	}
	if _, err := svc.GetGuestLog(context.Background(), actor, "nope"); !errors.Is(err, ErrGuestLogNotFound) {
		t.Errorf("missing id got %v, want ErrGuestLogNotFound", err)
	}
}

func TestProcessExit(t *testing.T) {
	env := newTestEnv()
	svc := newGateServiceForTest(env)
	actor := testActor()

	created, err := svc.CreateGuestLog(context.Background(), actor, createGuestLogReq())
	if err != nil {
		t.Fatalf("CreateGuestLog: %v", err)
	}

	resp, err := svc.ProcessExit(context.Background(), actor, &dto.ProcessExitRequest{
		GuestLogID: created.ID,
		ExitGate:   "BACK_GATE",
		DeviceID:   "dev-1",
	})
	if err != nil {
		t.Fatalf("ProcessExit: %v", err)
	}
	if resp.GuestLog.Status != string(model.GuestLogExit) {
		t.Errorf("status = %q, want EXIT", resp.GuestLog.Status)
	}
	if resp.GuestLog.ExitTime == nil {
		t.Error("exit time not stamped")
	}
	if resp.GuestLog.ExitGate == nil || *resp.GuestLog.ExitGate != "BACK_GATE" {
		t.Error("exit gate not recorded")
	}
	if resp.WasOverstay {
		t.Error("fresh visit flagged as overstay")
	}

	// Exit of an already-closed visit.
	_, err = svc.ProcessExit(context.Background(), actor, &dto.ProcessExitRequest{
		GuestLogID: created.ID,
		DeviceID:   "dev-1",
	})
	if !errors.Is(err, ErrAlreadyExited) {
		t.Errorf("second exit got %v, want ErrAlreadyExited", err)
	}
}

func TestProcessExitFlagsOverstay(t *testing.T) {
	env := newTestEnv()
	env.cfg.Realtime.OverstayThreshold = time.Hour
	svc := newGateServiceForTest(env)
	actor := testActor()

	log := seedSyncedLog(env, "local-old", 1) // entry 2h ago

	resp, err := svc.ProcessExit(context.Background(), actor, &dto.ProcessExitRequest{
		GuestLogID: log.GuestLogID,
		DeviceID:   "dev-1",
	})
	if err != nil {
		t.Fatalf("ProcessExit: %v", err)
	}
	if !resp.WasOverstay {
		t.Error("visit past the threshold should be flagged as overstay")
	}
}

// ── QR gate passes ──

func TestQRTokenRoundTrip(t *testing.T) {
	env := newTestEnv()
	svc := newGateServiceForTest(env)
	actor := testActor()

	created, err := svc.CreateGuestLog(context.Background(), actor, createGuestLogReq())
	if err != nil {
		t.Fatalf("CreateGuestLog: %v", err)
	}

	token, err := svc.GenerateQRToken(context.Background(), actor, &dto.GenerateQRTokenRequest{
		GuestLogID: created.ID,
		Intent:     string(model.GateIntentEntry),
		DeviceID:   "dev-1",
	})
	if err != nil {
		t.Fatalf("GenerateQRToken: %v", err)
	}
	if token.AllowedScan != string(model.GateIntentExit) {
		t.Errorf("entry pass must be scanned at exit, allowed scan = %q", token.AllowedScan)
	}

	// Scanning with the issuing direction is rejected, not an error.
	result, err := svc.ValidateQRToken(context.Background(), actor, &dto.ValidateQRTokenRequest{
		JTI:      token.JTI,
		Intent:   string(model.GateIntentEntry),
		DeviceID: "dev-1",
	})
	if err != nil {
		t.Fatalf("ValidateQRToken: %v", err)
	}
	if result.Valid {
		t.Error("scan in the issuing direction must be invalid")
	}

	// Scanning in the allowed direction consumes the pass.
	result, err = svc.ValidateQRToken(context.Background(), actor, &dto.ValidateQRTokenRequest{
		JTI:      token.JTI,
		Intent:   string(model.GateIntentExit),
		DeviceID: "dev-1",
	})
	if err != nil {
		t.Fatalf("ValidateQRToken: %v", err)
	}
	if !result.Valid {
		t.Fatal("scan in the allowed direction should be valid")
	}
	if result.Token == nil || result.Token.Status != string(model.QRTokenUsed) {
		t.Error("single-use pass not marked USED after the scan")
	}
	if result.GuestLog == nil || result.GuestLog.ID != created.ID {
		t.Error("validation did not return the linked guest log")
	}

	// The pass is single-use.
	result, err = svc.ValidateQRToken(context.Background(), actor, &dto.ValidateQRTokenRequest{
		JTI:      token.JTI,
		Intent:   string(model.GateIntentExit),
		DeviceID: "dev-1",
	})
	if err != nil {
		t.Fatalf("ValidateQRToken: %v", err)
	}
	if result.Valid {
		t.Error("second scan of a single-use pass must be invalid")
	}
}

func TestValidateQRTokenExpired(t *testing.T) {
	env := newTestEnv()
	svc := newGateServiceForTest(env)
	actor := testActor()

	jti := "expired-jti"
	if err := env.qrToken.Create(context.Background(), &model.QRToken{
		JTI:         jti,
		CompanyID:   actor.CompanyID,
		GeneratedBy: actor.UserID,
		Intent:      model.GateIntentEntry,
		AllowedScan: model.GateIntentExit,
		Status:      model.QRTokenActive,
		MaxUsage:    1,
		DeviceID:    "dev-1",
		ExpiresAt:   time.Now().Add(-time.Minute),
		GeneratedAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	result, err := svc.ValidateQRToken(context.Background(), actor, &dto.ValidateQRTokenRequest{
		JTI:      jti,
		Intent:   string(model.GateIntentExit),
		DeviceID: "dev-1",
	})
	if err != nil {
		t.Fatalf("ValidateQRToken: %v", err)
	}
	if result.Valid {
		t.Error("expired pass must be invalid")
	}
}

// ── overstay sweep ──

func TestSweepOverstays(t *testing.T) {
	env := newTestEnv()
	env.cfg.Realtime.OverstayThreshold = time.Hour
	svc := newGateServiceForTest(env)

	seedSyncedLog(env, "old-1", 1) // entry 2h ago
	seedSyncedLog(env, "old-2", 1)

	fresh := seedSyncedLog(env, "fresh", 1)
	now := time.Now()
	fresh.EntryTime = &now
	if err := env.guestLog.Update(context.Background(), fresh); err != nil {
		t.Fatalf("seed fresh: %v", err)
	}

	flagged, err := svc.SweepOverstays(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("SweepOverstays: %v", err)
	}
	if flagged != 2 {
		t.Errorf("flagged %d vehicles, want 2", flagged)
	}
}

// ── duration label ──

func TestDurationLabel(t *testing.T) {
	at := func(d time.Duration) *time.Time {
		ts := time.Now().Add(-d)
		return &ts
	}
	cases := []struct {
		name string
		log  model.GuestLog
		want string
	}{
		{"no entry time", model.GuestLog{}, justArrivedLabel},
		{"under a minute", model.GuestLog{EntryTime: at(30 * time.Second)}, justArrivedLabel},
		{"minutes only", model.GuestLog{EntryTime: at(45 * time.Minute)}, "45 menit"},
		{"hours and minutes", model.GuestLog{EntryTime: at(3*time.Hour + 20*time.Minute)}, "3 jam 20 menit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := durationLabel(&tc.log); got != tc.want {
				t.Errorf("durationLabel = %q, want %q", got, tc.want)
			}
		})
	}

	// Entry in the future (clock skew on a device) still reads as arrived.
	future := time.Now().Add(time.Hour)
	if got := durationLabel(&model.GuestLog{EntryTime: &future}); got != justArrivedLabel {
		t.Errorf("future entry = %q, want %q", got, justArrivedLabel)
	}
}
