package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sawit-ops/backend/internal/model"
)

func TestExportHarvestRecap(t *testing.T) {
	env := newTestEnv()
	svc := NewExportService(env.repo, env.logger)

	tanggal := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	for _, rec := range []*model.HarvestRecord{
		{
			Tanggal: tanggal, MandorID: "mandor-1", BlockID: "block-1", CompanyID: "co-1",
			Karyawan: "Pak Slamet", BeratTbs: 1200, JumlahJanjang: 80, JjgMatang: 70,
			Status: model.HarvestApproved, SyncStatus: model.SyncStatusSynced, Version: 1,
		},
		{
			Tanggal: tanggal.AddDate(0, 0, 1), MandorID: "mandor-1", BlockID: "block-1", CompanyID: "co-1",
			Karyawan: "Bu Rina", BeratTbs: 800, JumlahJanjang: 55, JjgMatang: 50,
			Status: model.HarvestApproved, SyncStatus: model.SyncStatusSynced, Version: 1,
		},
	} {
		if err := env.harvest.Create(context.Background(), rec); err != nil {
			t.Fatalf("seed harvest: %v", err)
		}
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	buf, filename, err := svc.ExportHarvestRecap(context.Background(), "co-1", from, to)
	if err != nil {
		t.Fatalf("ExportHarvestRecap: %v", err)
	}
	if !strings.HasPrefix(filename, "rekap-panen_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q", filename)
	}

	// The buffer must be a readable workbook with header, rows, and totals.
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Rekap Panen")
	if err != nil {
		t.Fatalf("sheet missing: %v", err)
	}
	if len(rows) != 4 { // header + 2 records + totals
		t.Fatalf("sheet has %d rows, want 4", len(rows))
	}
	if rows[0][0] != "Tanggal" {
		t.Errorf("header cell = %q", rows[0][0])
	}
	if rows[3][0] != "TOTAL" {
		t.Errorf("totals row label = %q", rows[3][0])
	}
	if rows[3][4] != "135" { // 80 + 55 janjang
		t.Errorf("total janjang = %q, want 135", rows[3][4])
	}
}

func TestExportHarvestRecapEmptyPeriod(t *testing.T) {
	env := newTestEnv()
	svc := NewExportService(env.repo, env.logger)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	if _, _, err := svc.ExportHarvestRecap(context.Background(), "co-1", from, to); !errors.Is(err, ErrExportNoRecords) {
		t.Fatalf("got %v, want ErrExportNoRecords", err)
	}
}
