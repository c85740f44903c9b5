package infra

// pdf.go — invoice generation using go-pdf/fpdf.
// Produces an A4 invoice with shop header, invoice metadata, bill-to block,
// item table and totals. The output file is saved to
// storagePath/invoice_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qureshi08/NPF-1/internal/model"

	"github.com/go-pdf/fpdf"
)

// InvoiceInfo carries the shop identity printed on every invoice.
type InvoiceInfo struct {
	ShopName    string
	ShopAddress string
	ShopContact string
}

// GenerateInvoicePDF writes an A4 invoice for the order and returns the
// absolute path to the generated file. storagePath is created if needed.
func GenerateInvoicePDF(order *model.Order, info InvoiceInfo, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("invoice_%s.pdf", order.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(contentW, 10, info.ShopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, info.ShopAddress+" | "+info.ShopContact, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Invoice metadata and bill-to ──────────────────────────────────────────
	billTo := "Walk-in Customer"
	if order.Customer != nil {
		billTo = order.Customer.Name
	}
	pdf.SetFont("Helvetica", "", 9)
	half := contentW / 2
	pdf.CellFormat(half, 5, fmt.Sprintf("Invoice: INV-%s", shortID(order.ID.String())), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(half, 5, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(half, 5, "Date: "+order.OrderDate.Format("02 January, 2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 5, billTo, "", 1, "L", false, 0, "")
	pdf.CellFormat(half, 5, "Status: "+order.Status, "", 0, "L", false, 0, "")
	if order.Customer != nil && order.Customer.Phone != nil {
		pdf.CellFormat(half, 5, *order.Customer.Phone, "", 1, "L", false, 0, "")
	} else {
		pdf.Ln(5)
	}
	pdf.CellFormat(half, 5, "Payment: "+order.PaymentStatus, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// ── Item table ────────────────────────────────────────────────────────────
	col1 := contentW * 0.08 // #
	col2 := contentW * 0.44 // description
	col3 := contentW * 0.12 // qty
	col4 := contentW * 0.18 // unit price
	col5 := contentW * 0.18 // amount

	pdf.SetFillColor(13, 110, 253)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 8, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(col2, 8, "Item Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col3, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(col4, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col5, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	for i, item := range order.Items {
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		pdf.CellFormat(col1, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(col2, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 7, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 7, item.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1+col2+col3, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, order.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 8, "", "", 0, "", false, 0, "")
	pdf.CellFormat(col4, 8, "Total (PKR):", "T", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 8, order.TotalAmount.StringFixed(2), "T", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Thank you for your business!", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, "For any queries, please contact us at "+info.ShopContact, "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// shortID keeps invoice numbers readable: first 8 hex chars of the UUID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
