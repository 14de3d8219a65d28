// file: internals/features/finance/fees/service/receipt_xlsx.go
package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const receiptSheet = "Receipt"

// WriteReceiptXLSX renders a receipt as a one-sheet workbook.
// logoPNG is optional; pass nil to skip the logo.
func WriteReceiptXLSX(w io.Writer, r Receipt, logoPNG []byte) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", receiptSheet); err != nil {
		return err
	}

	styles, err := newReceiptStyles(f)
	if err != nil {
		return err
	}

	_ = f.SetColWidth(receiptSheet, "A", "A", 28)
	_ = f.SetColWidth(receiptSheet, "B", "D", 16)

	row := 1
	if len(logoPNG) > 0 {
		if err := f.AddPictureFromBytes(receiptSheet, "A1", &excelize.Picture{
			Extension: ".png",
			File:      logoPNG,
			Format:    &excelize.GraphicOptions{LockAspectRatio: true, OffsetX: 4, OffsetY: 4},
		}); err != nil {
			return fmt.Errorf("receipt logo: %w", err)
		}
		_ = f.SetRowHeight(receiptSheet, 1, 64)
		row = 2
	}

	// header
	for _, text := range []string{r.Institution.Name, r.Institution.Address, r.Institution.CopyLabel} {
		if text == "" {
			continue
		}
		cell := fmt.Sprintf("A%d", row)
		_ = f.MergeCell(receiptSheet, cell, fmt.Sprintf("D%d", row))
		_ = f.SetCellValue(receiptSheet, cell, text)
		_ = f.SetCellStyle(receiptSheet, cell, cell, styles.title)
		row++
	}
	row++

	kv := func(key, value string) {
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("A%d", row), key)
		_ = f.SetCellStyle(receiptSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.bold)
		_ = f.MergeCell(receiptSheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row))
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("B%d", row), value)
		row++
	}

	kv("Receipt No.", r.ReceiptNumber)
	kv("Date", r.IssuedOn)
	kv("Student Name", r.Student.Name)
	kv("Roll No.", r.Student.RollNumber)
	kv("Class", r.Student.Class)
	kv("Guardian Name", r.Student.GuardianName)
	kv("Phone", r.Student.Phone)
	kv("Address", r.Student.Address)
	row++

	// fee lines
	header := []string{"Particulars", "Total", "Due", "Paid"}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(receiptSheet, cell, h)
	}
	_ = f.SetCellStyle(receiptSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), styles.tableHead)
	row++

	writeLine := func(l ReceiptLine, style int) {
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("A%d", row), l.Label)
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("B%d", row), l.Total.InexactFloat64())
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("C%d", row), l.Due.InexactFloat64())
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("D%d", row), l.Paid.InexactFloat64())
		_ = f.SetCellStyle(receiptSheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), style)
		row++
	}
	for _, l := range r.Lines {
		writeLine(l, styles.money)
	}
	_ = f.SetCellStyle(receiptSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), styles.bold)
	writeLine(r.GrandTotal, styles.moneyBold)
	row++

	// balance keseluruhan (termasuk pembayaran total fee & fine)
	kv("Total Fee", r.Balance.TotalFee.StringFixed(2))
	kv("Total Paid", r.Balance.TotalPaid.StringFixed(2))
	kv("Balance Due", r.Balance.Due.StringFixed(2))
	row++

	// payment block
	kv("Fee Type", r.Payment.FeeTypeLabel)
	kv("Amount Paid", r.Payment.Amount.StringFixed(2))
	kv("Amount in Words", r.Payment.AmountInWords)
	kv("Payment Mode", r.Payment.MethodLabel)
	kv("Cheque/DD/Txn No.", r.Payment.Reference)
	kv("Bank Name", r.Payment.BankName)
	kv("Paid Date", r.Payment.PaidDate)
	kv("Next Due Date", r.Payment.DueDate)
	row++

	for _, n := range r.Notes {
		_ = f.SetCellValue(receiptSheet, fmt.Sprintf("A%d", row), "* "+n)
		row++
	}
	row++
	_ = f.SetCellValue(receiptSheet, fmt.Sprintf("D%d", row), "Authorised Signatory")

	_, err = f.WriteTo(w)
	return err
}

type receiptStyles struct {
	title, bold, tableHead, money, moneyBold int
}

func newReceiptStyles(f *excelize.File) (receiptStyles, error) {
	var s receiptStyles
	var err error
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	moneyFmt := "#,##0.00"

	if s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.tableHead, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E7E6E6"}},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt, Border: border}); err != nil {
		return s, err
	}
	if s.moneyBold, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &moneyFmt,
		Border:       border,
		Font:         &excelize.Font{Bold: true},
	}); err != nil {
		return s, err
	}
	return s, nil
}
