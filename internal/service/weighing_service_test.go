package service

import (
	"context"
	"errors"
	"testing"

	"sawit-ops/backend/internal/dto"
	pkgerrors "sawit-ops/backend/pkg/errors"
)

func newWeighingServiceForTest(env *testEnv) WeighingService {
	return NewWeighingService(env.repo, env.coord, env.logger)
}

func createWeighingReq(ticket string) *dto.CreateWeighingRequest {
	return &dto.CreateWeighingRequest{
		TicketNumber: ticket,
		VehiclePlate: "BM 5678 AB",
		DriverName:   "Joko",
		VendorName:   "CV Maju",
		GrossWeight:  12500,
		TareWeight:   4500,
		CargoType:    "TBS",
	}
}

func TestCreateWeighing(t *testing.T) {
	env := newTestEnv()
	svc := newWeighingServiceForTest(env)

	resp, err := svc.Create(context.Background(), testActor(), createWeighingReq("TKT-001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.NetWeight != 8000 {
		t.Errorf("net weight = %v, want 8000", resp.NetWeight)
	}
}

func TestCreateWeighingInvalidWeights(t *testing.T) {
	env := newTestEnv()
	svc := newWeighingServiceForTest(env)

	req := createWeighingReq("TKT-001")
	req.TareWeight = 13000 // heavier than gross
	if _, err := svc.Create(context.Background(), testActor(), req); !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("got %v, want ErrInvalidWeights", err)
	}
}

func TestCreateWeighingDuplicateTicket(t *testing.T) {
	env := newTestEnv()
	svc := newWeighingServiceForTest(env)
	actor := testActor()

	if _, err := svc.Create(context.Background(), actor, createWeighingReq("TKT-001")); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), actor, createWeighingReq("TKT-001")); !errors.Is(err, ErrDuplicateTicket) {
		t.Fatalf("got %v, want ErrDuplicateTicket", err)
	}

	// The same ticket number is fine for another company.
	other := testActor()
	other.CompanyID = "co-2"
	if _, err := svc.Create(context.Background(), other, createWeighingReq("TKT-001")); err != nil {
		t.Errorf("same ticket in another company: %v", err)
	}
}

func TestGetWeighingCompanyScope(t *testing.T) {
	env := newTestEnv()
	svc := newWeighingServiceForTest(env)

	created, err := svc.Create(context.Background(), testActor(), createWeighingReq("TKT-002"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := testActor()
	other.CompanyID = "co-2"
	if _, err := svc.Get(context.Background(), other, created.ID); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("cross-company read got %v, want ErrForbidden", err)
	}
	if _, err := svc.Get(context.Background(), testActor(), "missing"); !errors.Is(err, ErrWeighingNotFound) {
		t.Errorf("missing id got %v, want ErrWeighingNotFound", err)
	}
}
