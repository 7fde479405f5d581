package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sawit-ops/backend/internal/repository"
)

var (
	ErrExportNoRecords    = errors.New("no harvest records in the requested period")
	ErrExportGenerateFail = errors.New("excel generation failed")
)

// ExportService produces the harvest recap workbook managers download at
// month end. The buffer is returned to the handler, which sets the
// attachment headers.
type ExportService interface {
	ExportHarvestRecap(ctx context.Context, companyID string, from, to time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var recapHeaders = []string{
	"Tanggal", "Blok", "Mandor", "Karyawan",
	"Janjang", "Matang", "Mentah", "Lewat Matang", "Busuk/Abnormal", "Tangkai Panjang",
	"Berat TBS (kg)", "Brondolan (kg)", "Status",
}

func (s *exportService) ExportHarvestRecap(ctx context.Context, companyID string, from, to time.Time) (*bytes.Buffer, string, error) {
	records, err := s.repo.Harvest.ListForExport(ctx, companyID, from, to)
	if err != nil {
		s.logger.Error("harvest export query failed", zap.Error(err))
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrExportNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Rekap Panen"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}

	for i, h := range recapHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	endCell, _ := excelize.CoordinatesToCellName(len(recapHeaders), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	var totalJanjang int
	var totalBerat, totalBrondolan float64
	for i := range records {
		r := &records[i]
		row := i + 2

		blockName := r.BlockID
		if r.Block != nil {
			blockName = r.Block.Name
		}
		mandorName := r.MandorID
		if r.Mandor != nil {
			mandorName = r.Mandor.Name
		}

		values := []interface{}{
			r.Tanggal.Format("2006-01-02"), blockName, mandorName, r.Karyawan,
			r.JumlahJanjang, r.JjgMatang, r.JjgMentah, r.JjgLewatMatang, r.JjgBusukAbnormal, r.JjgTangkaiPanjang,
			r.BeratTbs, r.TotalBrondolan, string(r.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}

		totalJanjang += r.JumlahJanjang
		totalBerat += r.BeratTbs
		totalBrondolan += r.TotalBrondolan
	}

	// Totals row.
	totalRow := len(records) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", totalRow), totalJanjang)
	f.SetCellValue(sheet, fmt.Sprintf("K%d", totalRow), totalBerat)
	f.SetCellValue(sheet, fmt.Sprintf("L%d", totalRow), totalBrondolan)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("M%d", totalRow), headerStyle)

	f.SetColWidth(sheet, "A", "D", 16)
	f.SetColWidth(sheet, "E", "M", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("excel buffer write failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("rekap-panen_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	return buf, filename, nil
}
