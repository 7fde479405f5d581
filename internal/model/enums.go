package model

import (
	"encoding/json"
	"fmt"
)

// Enums are string-typed with closed constant sets. JSON unmarshalling is
// strict: an unknown wire string fails instead of silently defaulting.

func unmarshalEnum[T ~string](b []byte, dst *T, valid func(T) bool, name string) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v := T(s)
	if !valid(v) {
		return fmt.Errorf("%q is not a valid %s", s, name)
	}
	*dst = v
	return nil
}

// ── Role ──

// Role is the user's operational role on the estate.
type Role string

const (
	RoleSatpam  Role = "SATPAM"
	RoleMandor  Role = "MANDOR"
	RoleAsisten Role = "ASISTEN"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleSatpam, RoleMandor, RoleAsisten, RoleManager, RoleAdmin}

// IsValid reports whether the role is part of the closed set.
func (r Role) IsValid() bool {
	switch r {
	case RoleSatpam, RoleMandor, RoleAsisten, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

func (r *Role) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, r, Role.IsValid, "Role")
}

// ── GateIntent ──

// GateIntent is the direction a gate pass was issued for.
type GateIntent string

const (
	GateIntentEntry GateIntent = "ENTRY"
	GateIntentExit  GateIntent = "EXIT"
)

// Opposite returns the scan direction a token generated with this intent
// is allowed to be used for.
func (i GateIntent) Opposite() GateIntent {
	if i == GateIntentEntry {
		return GateIntentExit
	}
	return GateIntentEntry
}

func (i GateIntent) IsValid() bool {
	return i == GateIntentEntry || i == GateIntentExit
}

func (i GateIntent) String() string { return string(i) }

func (i *GateIntent) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, i, GateIntent.IsValid, "GateIntent")
}

// ── GuestLogStatus ──

// GuestLogStatus tracks whether a vehicle is inside or has left.
type GuestLogStatus string

const (
	GuestLogEntry GuestLogStatus = "ENTRY"
	GuestLogExit  GuestLogStatus = "EXIT"
)

func (s GuestLogStatus) IsValid() bool {
	return s == GuestLogEntry || s == GuestLogExit
}

func (s *GuestLogStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, GuestLogStatus.IsValid, "GuestLogStatus")
}

// ── VehicleType ──

type VehicleType string

const (
	VehicleCar       VehicleType = "CAR"
	VehicleTruck     VehicleType = "TRUCK"
	VehicleMotorbike VehicleType = "MOTORBIKE"
	VehicleBus       VehicleType = "BUS"
	VehicleOther     VehicleType = "OTHER"
)

func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleCar, VehicleTruck, VehicleMotorbike, VehicleBus, VehicleOther:
		return true
	}
	return false
}

func (v *VehicleType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, v, VehicleType.IsValid, "VehicleType")
}

// ── QRTokenStatus ──

type QRTokenStatus string

const (
	QRTokenActive    QRTokenStatus = "ACTIVE"
	QRTokenUsed      QRTokenStatus = "USED"
	QRTokenExpired   QRTokenStatus = "EXPIRED"
	QRTokenCancelled QRTokenStatus = "CANCELLED"
)

func (s QRTokenStatus) IsValid() bool {
	switch s {
	case QRTokenActive, QRTokenUsed, QRTokenExpired, QRTokenCancelled:
		return true
	}
	return false
}

func (s *QRTokenStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, QRTokenStatus.IsValid, "QRTokenStatus")
}

// ── SyncStatus ──

// SyncStatus is the device-sync state stamped on offline-capable records.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "PENDING"
	SyncStatusSynced  SyncStatus = "SYNCED"
	SyncStatusFailed  SyncStatus = "FAILED"
)

func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncStatusPending, SyncStatusSynced, SyncStatusFailed:
		return true
	}
	return false
}

func (s *SyncStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, SyncStatus.IsValid, "SyncStatus")
}

// ── SyncOperation ──

// SyncOperation tags what a queued offline mutation wants done.
type SyncOperation string

const (
	SyncOpCreate SyncOperation = "CREATE"
	SyncOpUpdate SyncOperation = "UPDATE"
	SyncOpDelete SyncOperation = "DELETE"
)

func (o SyncOperation) IsValid() bool {
	switch o {
	case SyncOpCreate, SyncOpUpdate, SyncOpDelete:
		return true
	}
	return false
}

func (o *SyncOperation) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, o, SyncOperation.IsValid, "SyncOperation")
}

// ── SyncItemStatus ──

// SyncItemStatus is the per-record outcome of a sync batch.
type SyncItemStatus string

const (
	SyncItemSynced   SyncItemStatus = "SYNCED"
	SyncItemPending  SyncItemStatus = "PENDING"
	SyncItemFailed   SyncItemStatus = "FAILED"
	SyncItemConflict SyncItemStatus = "CONFLICT"
)

func (s SyncItemStatus) IsValid() bool {
	switch s {
	case SyncItemSynced, SyncItemPending, SyncItemFailed, SyncItemConflict:
		return true
	}
	return false
}

func (s *SyncItemStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, SyncItemStatus.IsValid, "SyncItemStatus")
}

// ── ConflictResolution ──

// ConflictResolution selects the reconciliation policy for a sync batch.
type ConflictResolution string

const (
	ConflictResolutionManual     ConflictResolution = "MANUAL"
	ConflictResolutionLocalWins  ConflictResolution = "LOCAL_WINS"
	ConflictResolutionRemoteWins ConflictResolution = "REMOTE_WINS"
	ConflictResolutionLatestWins ConflictResolution = "LATEST_WINS"
)

func (r ConflictResolution) IsValid() bool {
	switch r {
	case ConflictResolutionManual, ConflictResolutionLocalWins,
		ConflictResolutionRemoteWins, ConflictResolutionLatestWins:
		return true
	}
	return false
}

func (r *ConflictResolution) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, r, ConflictResolution.IsValid, "ConflictResolution")
}

// ── HarvestStatus ──

type HarvestStatus string

const (
	HarvestPending  HarvestStatus = "PENDING"
	HarvestApproved HarvestStatus = "APPROVED"
	HarvestRejected HarvestStatus = "REJECTED"
)

func (s HarvestStatus) IsValid() bool {
	switch s {
	case HarvestPending, HarvestApproved, HarvestRejected:
		return true
	}
	return false
}

func (s *HarvestStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, HarvestStatus.IsValid, "HarvestStatus")
}

// ── MaturityLevel ──

// MaturityLevel grades a fresh fruit bunch.
type MaturityLevel string

const (
	MaturityMentah       MaturityLevel = "MENTAH"
	MaturityMasak        MaturityLevel = "MASAK"
	MaturityTerlaluMasak MaturityLevel = "TERLALU_MASAK"
	MaturityBusuk        MaturityLevel = "BUSUK"
)

func (m MaturityLevel) IsValid() bool {
	switch m {
	case MaturityMentah, MaturityMasak, MaturityTerlaluMasak, MaturityBusuk:
		return true
	}
	return false
}

func (m *MaturityLevel) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, m, MaturityLevel.IsValid, "MaturityLevel")
}
