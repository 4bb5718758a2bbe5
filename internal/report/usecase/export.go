package usecase

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tair/grocery-pos/internal/report/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
)

const salesSheet = "Sales"

var salesHeader = []interface{}{
	"Receipt", "Date", "Cashier ID", "Customer ID", "Payment Method",
	"Payment Status", "Status", "Subtotal", "Tax", "Discount", "Total",
}

// ExportSales writes the sales of a period into an xlsx workbook
func (s *ReportService) ExportSales(ctx context.Context, p domain.Period, status string) (*bytes.Buffer, error) {
	if err := validPeriod(p); err != nil {
		return nil, err
	}
	switch status {
	case "", "pending", "completed", "cancelled":
	default:
		return nil, apperror.InvalidInput("invalid status %q", status)
	}
	rows, err := s.repo.SaleRows(ctx, p, status)
	if err != nil {
		return nil, err
	}
	return writeSalesWorkbook(rows)
}

func writeSalesWorkbook(rows []domain.SaleRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(salesSheet, "A1", &salesHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(salesSheet, "A1", "K1", bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		var customer interface{} = ""
		if row.CustomerID != nil {
			customer = *row.CustomerID
		}
		cells := []interface{}{
			row.ReceiptNumber,
			row.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			row.UserID,
			customer,
			row.PaymentMethod,
			row.PaymentStatus,
			row.Status,
			row.Subtotal.InexactFloat64(),
			row.TaxAmount.InexactFloat64(),
			row.DiscountAmount.InexactFloat64(),
			row.TotalAmount.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(salesSheet, cell, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf, nil
}
