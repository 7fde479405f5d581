package dto

import "time"

// ── dashboard DTOs ──

// GateDashboard is the security-post view: who is inside right now.
type GateDashboard struct {
	VehiclesInside   int64              `json:"vehicles_inside"`
	TodayEntries     int64              `json:"today_entries"`
	TodayExits       int64              `json:"today_exits"`
	OverstayCount    int64              `json:"overstay_count"`
	PendingSyncCount int64              `json:"pending_sync_count"`
	InsideVehicles   []GuestLogResponse `json:"inside_vehicles"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// HarvestDashboard is the field-operations view for mandor and asisten.
type HarvestDashboard struct {
	TodayJjg         int64             `json:"today_jjg"`
	TodayTonnage     float64           `json:"today_tonnage"`
	PendingApprovals int64             `json:"pending_approvals"`
	ActiveBlocks     int64             `json:"active_blocks"`
	RecentRecords    []HarvestResponse `json:"recent_records"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// ManagerDashboard is the estate-level summary.
type ManagerDashboard struct {
	Gate              GateDashboard    `json:"gate"`
	Harvest           HarvestDashboard `json:"harvest"`
	WeighingsToday    int64            `json:"weighings_today"`
	NetTonnageToday   float64          `json:"net_tonnage_today"`
	AvgQualityScore   float64          `json:"avg_quality_score"`
	OpenSyncConflicts int64            `json:"open_sync_conflicts"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
