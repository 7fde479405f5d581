package repository

import "gorm.io/gorm"

// Repository is the aggregate entry point to all data-access interfaces.
type Repository struct {
	User     UserRepository
	Company  CompanyRepository
	Block    BlockRepository
	GuestLog GuestLogRepository
	QRToken  QRTokenRepository
	Harvest  HarvestRepository
	Weighing WeighingRepository
	Grading  GradingRepository
	Sync     SyncRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:     NewUserRepo(db),
		Company:  NewCompanyRepo(db),
		Block:    NewBlockRepo(db),
		GuestLog: NewGuestLogRepo(db),
		QRToken:  NewQRTokenRepo(db),
		Harvest:  NewHarvestRepo(db),
		Weighing: NewWeighingRepo(db),
		Grading:  NewGradingRepo(db),
		Sync:     NewSyncRepo(db),
	}
}
