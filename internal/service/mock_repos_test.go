package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sawit-ops/backend/config"
	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/model"
	"sawit-ops/backend/internal/realtime"
	"sawit-ops/backend/internal/repository"
	pkgerrors "sawit-ops/backend/pkg/errors"
	"sawit-ops/backend/pkg/media"
)

// ── Mock GuestLogRepository ──

type mockGuestLogRepo struct {
	logs      map[string]*model.GuestLog
	nextID    int
	failAll   bool
	createErr error
}

func newMockGuestLogRepo() *mockGuestLogRepo {
	return &mockGuestLogRepo{logs: make(map[string]*model.GuestLog)}
}

func (m *mockGuestLogRepo) Create(_ context.Context, log *model.GuestLog) error {
	if m.failAll {
		return fmt.Errorf("storage down")
	}
	if m.createErr != nil {
		return m.createErr
	}
	if log.GuestLogID == "" {
		m.nextID++
		log.GuestLogID = fmt.Sprintf("gl-%d", m.nextID)
	}
	if log.Version == 0 {
		log.Version = 1
	}
	log.CreatedAt = time.Now()
	log.UpdatedAt = time.Now()
	cp := *log
	m.logs[log.GuestLogID] = &cp
	return nil
}

func (m *mockGuestLogRepo) GetByID(_ context.Context, id string) (*model.GuestLog, error) {
	if l, ok := m.logs[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuestLogRepo) GetByLocalID(_ context.Context, companyID, localID string) (*model.GuestLog, error) {
	for _, l := range m.logs {
		if l.CompanyID == companyID && l.LocalID != nil && *l.LocalID == localID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuestLogRepo) List(_ context.Context, companyID string, _ dto.GuestLogListFilters) ([]model.GuestLog, int64, error) {
	var out []model.GuestLog
	for _, l := range m.logs {
		if l.CompanyID == companyID {
			out = append(out, *l)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockGuestLogRepo) ListInside(_ context.Context, companyID string) ([]model.GuestLog, error) {
	var out []model.GuestLog
	for _, l := range m.logs {
		if l.CompanyID == companyID && l.IsInside() {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockGuestLogRepo) ListOverstay(_ context.Context, companyID string, enteredBefore time.Time) ([]model.GuestLog, error) {
	var out []model.GuestLog
	for _, l := range m.logs {
		if l.CompanyID == companyID && l.IsInside() && l.EntryTime.Before(enteredBefore) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockGuestLogRepo) Update(_ context.Context, log *model.GuestLog) error {
	if m.failAll {
		return fmt.Errorf("storage down")
	}
	stored, ok := m.logs[log.GuestLogID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != log.Version {
		return pkgerrors.ErrOptimisticLock
	}
	log.Version++
	log.UpdatedAt = time.Now()
	cp := *log
	m.logs[log.GuestLogID] = &cp
	return nil
}

func (m *mockGuestLogRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.logs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.logs, id)
	return nil
}

func (m *mockGuestLogRepo) CountToday(_ context.Context, companyID string, status model.GuestLogStatus) (int64, error) {
	var n int64
	for _, l := range m.logs {
		if l.CompanyID != companyID {
			continue
		}
		if status == model.GuestLogEntry && l.EntryTime != nil {
			n++
		}
		if status == model.GuestLogExit && l.ExitTime != nil {
			n++
		}
	}
	return n, nil
}

func (m *mockGuestLogRepo) CountPendingSync(_ context.Context, companyID string) (int64, error) {
	var n int64
	for _, l := range m.logs {
		if l.CompanyID == companyID && l.SyncStatus == model.SyncStatusPending {
			n++
		}
	}
	return n, nil
}

// ── Mock QRTokenRepository ──

type mockQRTokenRepo struct {
	tokens map[string]*model.QRToken
	nextID int
}

func newMockQRTokenRepo() *mockQRTokenRepo {
	return &mockQRTokenRepo{tokens: make(map[string]*model.QRToken)}
}

func (m *mockQRTokenRepo) Create(_ context.Context, token *model.QRToken) error {
	if token.QRTokenID == "" {
		m.nextID++
		token.QRTokenID = fmt.Sprintf("qr-%d", m.nextID)
	}
	cp := *token
	m.tokens[token.JTI] = &cp
	return nil
}

func (m *mockQRTokenRepo) GetByJTI(_ context.Context, jti string) (*model.QRToken, error) {
	if t, ok := m.tokens[jti]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQRTokenRepo) Update(_ context.Context, token *model.QRToken) error {
	cp := *token
	m.tokens[token.JTI] = &cp
	return nil
}

func (m *mockQRTokenRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, t := range m.tokens {
		if t.Status == model.QRTokenActive && now.After(t.ExpiresAt) {
			t.Status = model.QRTokenExpired
			n++
		}
	}
	return n, nil
}

func (m *mockQRTokenRepo) ListByGuestLog(_ context.Context, guestLogID string) ([]model.QRToken, error) {
	var out []model.QRToken
	for _, t := range m.tokens {
		if t.GuestLogID != nil && *t.GuestLogID == guestLogID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// ── Mock SyncRepository ──

type mockSyncRepo struct {
	transactions map[string]*model.SyncTransaction
	conflicts    map[string]*model.SyncConflict
	nextID       int
}

func newMockSyncRepo() *mockSyncRepo {
	return &mockSyncRepo{
		transactions: make(map[string]*model.SyncTransaction),
		conflicts:    make(map[string]*model.SyncConflict),
	}
}

func (m *mockSyncRepo) CreateTransaction(_ context.Context, tx *model.SyncTransaction) error {
	if tx.SyncTransactionID == "" {
		m.nextID++
		tx.SyncTransactionID = fmt.Sprintf("tx-%d", m.nextID)
	}
	cp := *tx
	m.transactions[tx.SyncTransactionID] = &cp
	return nil
}

func (m *mockSyncRepo) UpdateTransaction(_ context.Context, tx *model.SyncTransaction) error {
	cp := *tx
	m.transactions[tx.SyncTransactionID] = &cp
	return nil
}

func (m *mockSyncRepo) GetTransaction(_ context.Context, id string) (*model.SyncTransaction, error) {
	if t, ok := m.transactions[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSyncRepo) ListTransactionsByDevice(_ context.Context, deviceID string, _, _ int) ([]model.SyncTransaction, int64, error) {
	var out []model.SyncTransaction
	for _, t := range m.transactions {
		if t.DeviceID == deviceID {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockSyncRepo) CreateConflict(_ context.Context, conflict *model.SyncConflict) error {
	if conflict.SyncConflictID == "" {
		m.nextID++
		conflict.SyncConflictID = fmt.Sprintf("cf-%d", m.nextID)
	}
	conflict.CreatedAt = time.Now()
	cp := *conflict
	m.conflicts[conflict.SyncConflictID] = &cp
	return nil
}

func (m *mockSyncRepo) GetConflict(_ context.Context, id string) (*model.SyncConflict, error) {
	if c, ok := m.conflicts[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSyncRepo) ListPendingConflicts(_ context.Context, _ string, _, _ int) ([]model.SyncConflict, int64, error) {
	var out []model.SyncConflict
	for _, c := range m.conflicts {
		if c.Status == model.ConflictPending {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockSyncRepo) UpdateConflict(_ context.Context, conflict *model.SyncConflict) error {
	cp := *conflict
	m.conflicts[conflict.SyncConflictID] = &cp
	return nil
}

func (m *mockSyncRepo) CountPendingConflicts(_ context.Context, _ string) (int64, error) {
	var n int64
	for _, c := range m.conflicts {
		if c.Status == model.ConflictPending {
			n++
		}
	}
	return n, nil
}

// ── Mock HarvestRepository ──

type mockHarvestRepo struct {
	records map[string]*model.HarvestRecord
	nextID  int
}

func newMockHarvestRepo() *mockHarvestRepo {
	return &mockHarvestRepo{records: make(map[string]*model.HarvestRecord)}
}

func (m *mockHarvestRepo) Create(_ context.Context, record *model.HarvestRecord) error {
	if record.HarvestRecordID == "" {
		m.nextID++
		record.HarvestRecordID = fmt.Sprintf("hr-%d", m.nextID)
	}
	if record.Version == 0 {
		record.Version = 1
	}
	record.CreatedAt = time.Now()
	cp := *record
	m.records[record.HarvestRecordID] = &cp
	return nil
}

func (m *mockHarvestRepo) GetByID(_ context.Context, id string) (*model.HarvestRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHarvestRepo) GetByLocalID(_ context.Context, companyID, localID string) (*model.HarvestRecord, error) {
	for _, r := range m.records {
		if r.CompanyID == companyID && r.LocalID != nil && *r.LocalID == localID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHarvestRepo) List(_ context.Context, companyID string, filters dto.HarvestListFilters) ([]model.HarvestRecord, int64, error) {
	var out []model.HarvestRecord
	for _, r := range m.records {
		if r.CompanyID != companyID {
			continue
		}
		if filters.MandorID != nil && r.MandorID != *filters.MandorID {
			continue
		}
		if filters.Status != nil && string(r.Status) != *filters.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (m *mockHarvestRepo) ListPendingApproval(_ context.Context, companyID string, _ int) ([]model.HarvestRecord, error) {
	var out []model.HarvestRecord
	for _, r := range m.records {
		if r.CompanyID == companyID && r.Status == model.HarvestPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockHarvestRepo) ListForExport(_ context.Context, companyID string, from, to time.Time) ([]model.HarvestRecord, error) {
	var out []model.HarvestRecord
	for _, r := range m.records {
		if r.CompanyID == companyID && !r.Tanggal.Before(from) && !r.Tanggal.After(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockHarvestRepo) Update(_ context.Context, record *model.HarvestRecord) error {
	stored, ok := m.records[record.HarvestRecordID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != record.Version {
		return pkgerrors.ErrOptimisticLock
	}
	record.Version++
	cp := *record
	m.records[record.HarvestRecordID] = &cp
	return nil
}

func (m *mockHarvestRepo) Statistics(_ context.Context, companyID string, from, to time.Time) (*dto.HarvestStatistics, error) {
	stats := &dto.HarvestStatistics{PeriodStart: from, PeriodEnd: to}
	blocks := make(map[string]struct{})
	for _, r := range m.records {
		if r.CompanyID != companyID || r.Tanggal.Before(from) || r.Tanggal.After(to) {
			continue
		}
		stats.TotalRecords++
		stats.TotalJanjang += int64(r.JumlahJanjang)
		stats.TotalBeratTbs += r.BeratTbs
		stats.TotalBrondolan += r.TotalBrondolan
		blocks[r.BlockID] = struct{}{}
		switch r.Status {
		case model.HarvestPending:
			stats.PendingApprovals++
		case model.HarvestApproved:
			stats.ApprovedRecords++
		case model.HarvestRejected:
			stats.RejectedRecords++
		}
	}
	stats.ActiveBlocks = int64(len(blocks))
	return stats, nil
}

// ── Mock BlockRepository ──

type mockBlockRepo struct {
	blocks map[string]*model.Block
}

func newMockBlockRepo() *mockBlockRepo {
	return &mockBlockRepo{blocks: make(map[string]*model.Block)}
}

func (m *mockBlockRepo) Create(_ context.Context, block *model.Block) error {
	m.blocks[block.BlockID] = block
	return nil
}

func (m *mockBlockRepo) GetByID(_ context.Context, id string) (*model.Block, error) {
	if b, ok := m.blocks[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBlockRepo) ListByCompany(_ context.Context, companyID string) ([]model.Block, error) {
	var out []model.Block
	for _, b := range m.blocks {
		if b.CompanyID == companyID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBlockRepo) Update(_ context.Context, block *model.Block) error {
	m.blocks[block.BlockID] = block
	return nil
}

// ── Mock WeighingRepository ──

type mockWeighingRepo struct {
	records map[string]*model.WeighingRecord
	nextID  int
}

func newMockWeighingRepo() *mockWeighingRepo {
	return &mockWeighingRepo{records: make(map[string]*model.WeighingRecord)}
}

func (m *mockWeighingRepo) Create(_ context.Context, record *model.WeighingRecord) error {
	if record.WeighingRecordID == "" {
		m.nextID++
		record.WeighingRecordID = fmt.Sprintf("wr-%d", m.nextID)
	}
	cp := *record
	m.records[record.WeighingRecordID] = &cp
	return nil
}

func (m *mockWeighingRepo) GetByID(_ context.Context, id string) (*model.WeighingRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeighingRepo) GetByTicketNumber(_ context.Context, companyID, ticketNumber string) (*model.WeighingRecord, error) {
	for _, r := range m.records {
		if r.CompanyID == companyID && r.TicketNumber == ticketNumber {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWeighingRepo) List(_ context.Context, companyID string, _ dto.WeighingListFilters) ([]model.WeighingRecord, int64, error) {
	var out []model.WeighingRecord
	for _, r := range m.records {
		if r.CompanyID == companyID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockWeighingRepo) TodaySummary(_ context.Context, companyID string) (int64, float64, error) {
	var n int64
	var total float64
	for _, r := range m.records {
		if r.CompanyID == companyID {
			n++
			total += r.NetWeight
		}
	}
	return n, total, nil
}

// ── Mock GradingRepository ──

type mockGradingRepo struct {
	records map[string]*model.GradingRecord
	nextID  int
}

func newMockGradingRepo() *mockGradingRepo {
	return &mockGradingRepo{records: make(map[string]*model.GradingRecord)}
}

func (m *mockGradingRepo) Create(_ context.Context, record *model.GradingRecord) error {
	if record.GradingRecordID == "" {
		m.nextID++
		record.GradingRecordID = fmt.Sprintf("gr-%d", m.nextID)
	}
	cp := *record
	m.records[record.GradingRecordID] = &cp
	return nil
}

func (m *mockGradingRepo) GetByID(_ context.Context, id string) (*model.GradingRecord, error) {
	if r, ok := m.records[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradingRepo) GetByHarvestRecord(_ context.Context, harvestRecordID string) (*model.GradingRecord, error) {
	for _, r := range m.records {
		if r.HarvestRecordID == harvestRecordID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGradingRepo) ListByGrader(_ context.Context, graderID string, _, _ int) ([]model.GradingRecord, int64, error) {
	var out []model.GradingRecord
	for _, r := range m.records {
		if r.GraderID == graderID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockGradingRepo) Update(_ context.Context, record *model.GradingRecord) error {
	cp := *record
	m.records[record.GradingRecordID] = &cp
	return nil
}

func (m *mockGradingRepo) AverageScore(_ context.Context, _ string, _ time.Time) (float64, error) {
	var sum float64
	var n int
	for _, r := range m.records {
		sum += float64(r.QualityScore)
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByCompany(_ context.Context, companyID string, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		if u.CompanyID == companyID {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, companyID string, role model.Role) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if u.CompanyID == companyID && u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Deactivate(_ context.Context, id string) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── test wiring ──

type testEnv struct {
	cfg      *config.Config
	repo     *repository.Repository
	guestLog *mockGuestLogRepo
	qrToken  *mockQRTokenRepo
	sync     *mockSyncRepo
	harvest  *mockHarvestRepo
	block    *mockBlockRepo
	weighing *mockWeighingRepo
	grading  *mockGradingRepo
	user     *mockUserRepo
	company  *mockCompanyRepo
	hub      *realtime.Hub
	coord    *realtime.Coordinator
	resolver *media.Resolver
	logger   *zap.Logger
}

// newTestEnv wires the mocks behind a real hub and coordinator. The
// coordinator debounce is long enough that nothing fires during a test
// unless the test waits for it.
func newTestEnv() *testEnv {
	env := &testEnv{
		guestLog: newMockGuestLogRepo(),
		qrToken:  newMockQRTokenRepo(),
		sync:     newMockSyncRepo(),
		harvest:  newMockHarvestRepo(),
		block:    newMockBlockRepo(),
		weighing: newMockWeighingRepo(),
		grading:  newMockGradingRepo(),
		user:     newMockUserRepo(),
		company:  newMockCompanyRepo(),
		logger:   zap.NewNop(),
	}
	env.repo = &repository.Repository{
		User:     env.user,
		Company:  env.company,
		Block:    env.block,
		GuestLog: env.guestLog,
		QRToken:  env.qrToken,
		Harvest:  env.harvest,
		Weighing: env.weighing,
		Grading:  env.grading,
		Sync:     env.sync,
	}
	env.cfg = &config.Config{
		Auth: config.AuthConfig{
			QRTokenExpiryMinutes: 30,
		},
		Realtime: config.RealtimeConfig{
			RefreshDebounce:   time.Hour,
			OverstayThreshold: 8 * time.Hour,
			SendBuffer:        16,
		},
		Gate: config.GateConfig{
			SyncBatchLimit: 200,
		},
	}
	env.hub = realtime.NewHub(env.logger)
	env.coord = realtime.NewCoordinator(env.hub, func(context.Context, string) (interface{}, error) {
		return nil, nil
	}, env.cfg.Realtime.RefreshDebounce, env.logger)
	env.resolver = media.NewResolver("http://localhost:8080")
	return env
}

func testActor() *Actor {
	return &Actor{
		UserID:    "user-1",
		CompanyID: "co-1",
		Role:      model.RoleSatpam,
		DeviceID:  "dev-1",
	}
}

func strPtr(s string) *string { return &s }

// ── Mock CompanyRepository ──

type mockCompanyRepo struct {
	companies map[string]*model.Company
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[string]*model.Company)}
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompanyRepo) ListAll(_ context.Context) ([]model.Company, error) {
	var out []model.Company
	for _, c := range m.companies {
		out = append(out, *c)
	}
	return out, nil
}
