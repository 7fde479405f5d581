package handler

import "sawit-ops/backend/internal/service"

// Handler is the aggregate entry point to all HTTP handlers.
type Handler struct {
	Auth       *AuthHandler
	GateCheck  *GateCheckHandler
	Sync       *SyncHandler
	Harvest    *HarvestHandler
	Weighing   *WeighingHandler
	Grading    *GradingHandler
	Dashboard  *DashboardHandler
	Preference *PreferenceHandler
}

// NewHandler wires the HTTP handlers.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		GateCheck:  NewGateCheckHandler(svc.GateCheck),
		Sync:       NewSyncHandler(svc.Sync),
		Harvest:    NewHarvestHandler(svc.Harvest, svc.Export),
		Weighing:   NewWeighingHandler(svc.Weighing),
		Grading:    NewGradingHandler(svc.Grading),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Preference: NewPreferenceHandler(svc.Preference),
	}
}
