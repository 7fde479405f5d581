package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sawit-ops/backend/internal/dto"
	"sawit-ops/backend/internal/service"
)

// stubSyncService scripts the sync service for handler tests.
type stubSyncService struct {
	batchResult *dto.SyncBatchResult
	batchErr    error
	ignoreResp  *dto.SyncConflictResponse
	ignoreErr   error
}

func (s *stubSyncService) ProcessBatch(context.Context, *service.Actor, *dto.SyncBatchInput) (*dto.SyncBatchResult, error) {
	return s.batchResult, s.batchErr
}

func (s *stubSyncService) ListConflicts(context.Context, *service.Actor, int, int) ([]dto.SyncConflictResponse, int64, error) {
	return nil, 0, nil
}

func (s *stubSyncService) ResolveConflict(context.Context, *service.Actor, string, *dto.ResolveConflictRequest) (*dto.SyncConflictResponse, error) {
	return nil, service.ErrConflictNotFound
}

func (s *stubSyncService) IgnoreConflict(context.Context, *service.Actor, string) (*dto.SyncConflictResponse, error) {
	return s.ignoreResp, s.ignoreErr
}

func (s *stubSyncService) ListTransactions(context.Context, string, int, int) ([]dto.SyncTransactionResponse, int64, error) {
	return nil, 0, nil
}

func syncRouter(svc service.SyncService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSyncHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("role", "SATPAM")
		c.Set("company_id", "co-1")
		c.Set("device_id", "dev-1")
	})
	r.POST("/batches", h.ProcessBatch)
	r.POST("/conflicts/:id/ignore", h.IgnoreConflict)
	return r
}

func TestProcessBatchHandlerBadBodyCarriesDetails(t *testing.T) {
	r := syncRouter(&stubSyncService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/batches",
		strings.NewReader(`{"device_id":"dev-1","records":[]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 10001 {
		t.Errorf("envelope code = %d, want 10001", env.Code)
	}
	if env.Details == "" {
		t.Error("validation response carries no details")
	}
}

func TestIgnoreConflictHandlerNotPending(t *testing.T) {
	r := syncRouter(&stubSyncService{ignoreErr: service.ErrConflictNotPending})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/conflicts/c-1/ignore", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != 21003 {
		t.Errorf("envelope code = %d, want 21003", env.Code)
	}
}
