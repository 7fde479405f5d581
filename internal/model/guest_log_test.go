package model

import (
	"testing"
	"time"
)

func TestGuestLogInsideLifecycle(t *testing.T) {
	log := &GuestLog{}
	if log.IsInside() {
		t.Error("log without entry time reported inside")
	}
	if log.Duration() != nil {
		t.Error("duration before exit should be nil")
	}

	log.MarkEntry("MAIN_GATE")
	if !log.IsInside() {
		t.Error("log not inside after entry")
	}
	if log.Status != GuestLogEntry {
		t.Errorf("status = %s after entry", log.Status)
	}
	if log.EntryGate == nil || *log.EntryGate != "MAIN_GATE" {
		t.Error("entry gate not stamped")
	}

	log.MarkExit("BACK_GATE")
	if log.IsInside() {
		t.Error("log still inside after exit")
	}
	if log.Status != GuestLogExit {
		t.Errorf("status = %s after exit", log.Status)
	}
	if log.Duration() == nil {
		t.Error("duration missing after exit")
	}
}

func TestGuestLogOverstay(t *testing.T) {
	old := time.Now().Add(-3 * time.Hour)
	log := &GuestLog{EntryTime: &old}
	if !log.IsOverstay(time.Hour) {
		t.Error("3h visit not flagged against a 1h threshold")
	}
	if log.IsOverstay(8 * time.Hour) {
		t.Error("3h visit flagged against an 8h threshold")
	}

	// An exited vehicle is never an overstay.
	now := time.Now()
	log.ExitTime = &now
	if log.IsOverstay(time.Hour) {
		t.Error("exited vehicle flagged as overstay")
	}
}

func TestGuestLogValidateTimes(t *testing.T) {
	entry := time.Now()
	before := entry.Add(-time.Hour)
	after := entry.Add(time.Hour)

	ok := &GuestLog{EntryTime: &entry, ExitTime: &after}
	if !ok.ValidateTimes() {
		t.Error("exit after entry rejected")
	}
	bad := &GuestLog{EntryTime: &entry, ExitTime: &before}
	if bad.ValidateTimes() {
		t.Error("exit before entry accepted")
	}
	open := &GuestLog{EntryTime: &entry}
	if !open.ValidateTimes() {
		t.Error("open visit should validate")
	}
}
