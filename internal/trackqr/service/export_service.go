package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mrbharat03/Indian-Railway/internal/trackqr/entity"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXContentType xlsx MIME
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	exportPageSize = 500
	exportMaxRows  = 20000
)

// ArchiveStore 导出文件归档（对象存储）
type ArchiveStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
}

// ExportService 二维码台账导出
type ExportService struct {
	repo    *repository.QRCodeRepository
	archive ArchiveStore
	logger  *zap.Logger
	now     func() time.Time
}

func NewExportService(repo *repository.QRCodeRepository, archive ArchiveStore, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{repo: repo, archive: archive, logger: logger, now: time.Now}
}

// ExportFile 导出结果
type ExportFile struct {
	Filename string
	Content  []byte
	Rows     int
}

var qrExportHeaders = []string{
	"QR Code", "Status", "Zone", "Division", "Section", "Km Post", "Track",
	"Fitting", "Part Number", "Manufacturer", "Batch", "Installed", "Created At",
}

// ExportQRCodes 按列表筛选条件导出 xlsx，配置了对象存储时同时归档
func (s *ExportService) ExportQRCodes(ctx context.Context, session *Session, filters map[string]string) (*ExportFile, error) {
	if !session.CanManageQRCodes() {
		return nil, ErrForbidden
	}

	var rows []entity.QRCode
	for offset := 0; offset < exportMaxRows; offset += exportPageSize {
		page, err := s.repo.FindAll(ctx, exportPageSize, offset, filters)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	f, err := buildQRWorkbook(rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	now := s.now()
	out := &ExportFile{
		Filename: fmt.Sprintf("qr_register_%s.xlsx", now.Format("20060102_150405")),
		Content:  buf.Bytes(),
		Rows:     len(rows),
	}

	if s.archive != nil {
		objectName := fmt.Sprintf("exports/%s/%s", now.Format("2006-01-02"), out.Filename)
		if err := s.archive.Put(ctx, objectName, bytes.NewReader(out.Content), int64(len(out.Content)), XLSXContentType); err != nil {
			s.logger.Warn("Archive export failed", zap.String("object", objectName), zap.Error(err))
		}
	}
	return out, nil
}

func buildQRWorkbook(rows []entity.QRCode) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "QR Register"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for i, h := range qrExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	counts := map[string]int{}
	for i, qr := range rows {
		row := i + 2
		counts[qr.Status]++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), qr.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), qr.Status)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), qr.Zone)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), qr.Division)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), qr.Section)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), qr.KmPost)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), qr.TrackNumber)
		if qr.Fitting != nil {
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), qr.Fitting.Name)
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), qr.Fitting.PartNumber)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), qr.Fitting.Manufacturer)
		}
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), qr.BatchNumber)
		if qr.InstallationDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), qr.InstallationDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("M%d", row), qr.CreatedAt.Format("2006-01-02 15:04"))
	}

	// 汇总行
	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), fmt.Sprintf(
		"%d records (active %d, inactive %d, maintenance %d)",
		len(rows), counts[entity.QRStatusActive], counts[entity.QRStatusInactive], counts[entity.QRStatusMaintenance],
	))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("M%d", summaryRow), summaryStyle)

	colWidths := []float64{22, 12, 14, 14, 20, 10, 8, 24, 16, 20, 14, 12, 18}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
	return f, nil
}
