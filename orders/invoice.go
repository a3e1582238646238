package orders

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"mercato/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// OrderInvoice renders the order as a PDF invoice with a QR code of the
// order number; owner or privileged only.
func OrderInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.SendError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	order, err := loadOrder(ctx, ps.ByName("orderid"))
	if err != nil {
		log.Println("OrderInvoice load error:", err)
		utils.SendError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}
	if order == nil {
		utils.SendError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.UserID != userID && !utils.IsPrivileged(r) {
		utils.SendError(w, http.StatusForbidden, "Not allowed to view this order")
		return
	}

	qrPNG, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		utils.SendError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.OrderNumber))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02")))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s / payment %s", order.Status, order.PaymentStatus))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(90, 7, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, it := range order.Items {
		name := it.Name
		if it.Variant != "" {
			name += " (" + it.Variant + ")"
		}
		pdf.CellFormat(90, 7, name, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", it.Price*float64(it.Quantity)), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.CellFormat(150, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, "Tax", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.Tax), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 7, "Shipping", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.Shipping), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(150, 7, "Total "+order.Currency, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.Total), "", 1, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.SendError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
