package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sharekit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const reportSheetName = "Бронирования"

// ExcelReportExporter пишет отчет по бронированиям в xlsx-файл.
type ExcelReportExporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExcelReportExporter(dir string, logger *zerolog.Logger) *ExcelReportExporter {
	return &ExcelReportExporter{
		dir:    dir,
		logger: logger,
	}
}

func (e *ExcelReportExporter) WriteReport(ctx context.Context, start, end time.Time, bookings []*models.Booking) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(reportSheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	// Заголовок периода
	_ = f.SetCellValue(reportSheetName, "A1", fmt.Sprintf("Период: %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))
	_ = f.MergeCell(reportSheetName, "A1", "F1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(reportSheetName, "A1", "A1", titleStyle)

	e.writeHeaders(f)
	e.writeBookingRows(f, bookings)

	_ = f.SetColWidth(reportSheetName, "A", "A", 8)
	_ = f.SetColWidth(reportSheetName, "B", "C", 25)
	_ = f.SetColWidth(reportSheetName, "D", "E", 20)
	_ = f.SetColWidth(reportSheetName, "F", "F", 12)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
	filePath := filepath.Join(e.dir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("Excel report created")
	return filePath, nil
}

func (e *ExcelReportExporter) writeHeaders(f *excelize.File) {
	headers := []string{"ID", "Вещь", "Кто бронирует", "Начало", "Конец", "Статус"}

	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(reportSheetName, cell, header)
		_ = f.SetCellStyle(reportSheetName, cell, cell, style)
	}
}

func (e *ExcelReportExporter) writeBookingRows(f *excelize.File, bookings []*models.Booking) {
	for i, booking := range bookings {
		row := i + 3
		_ = f.SetCellValue(reportSheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(reportSheetName, fmt.Sprintf("B%d", row), booking.ItemName)
		_ = f.SetCellValue(reportSheetName, fmt.Sprintf("C%d", row), booking.BookerName)
		_ = f.SetCellValue(reportSheetName, fmt.Sprintf("D%d", row), booking.Start.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(reportSheetName, fmt.Sprintf("E%d", row), booking.End.Format("02.01.2006 15:04"))
		_ = f.SetCellValue(reportSheetName, fmt.Sprintf("F%d", row), statusLabel(booking.Status))

		if styleID, err := f.NewStyle(statusStyle(booking.Status)); err == nil {
			cell := fmt.Sprintf("F%d", row)
			_ = f.SetCellStyle(reportSheetName, cell, cell, styleID)
		}
	}
}

func statusLabel(status string) string {
	switch status {
	case models.StatusApproved:
		return "Подтверждено"
	case models.StatusRejected:
		return "Отклонено"
	case models.StatusWaiting:
		return "Ожидает"
	default:
		return status
	}
}

func statusStyle(status string) *excelize.Style {
	var color string
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusRejected:
		color = "#FFC7CE"
	default:
		color = "#FFEB9C"
	}
	return &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}
}
