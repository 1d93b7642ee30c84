package infra

// pdf.go — pedido voucher generation using go-pdf/fpdf.
// Renders an A6 summary of one order: garment, talle/color, diseño and
// customer, saved to storagePath/pedido_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateVoucherPDF writes the voucher for a confirmed Pedido and returns the
// absolute path of the generated file. storagePath is created if needed.
func GenerateVoucherPDF(pedido *model.Pedido, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("pedido_%s.pdf", pedido.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A6", "")
	pdf.SetMargins(8, 8, 8)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 16

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Sublimo", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Comprobante de pedido", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Pedido: %s", pedido.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Fecha: %s", pedido.CreatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Cliente: %s %s", pedido.NombreCliente, pedido.ApellidoCliente), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Detalle", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)

	if pedido.InventarioItem != nil {
		producto := ""
		if pedido.InventarioItem.Producto != nil {
			producto = pedido.InventarioItem.Producto.Nombre
		}
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Prenda: %s", producto), "", 1, "L", false, 0, "")
		pdf.CellFormat(contentW, 5,
			fmt.Sprintf("Talle %s — Color %s", pedido.InventarioItem.Talle, pedido.InventarioItem.Color),
			"", 1, "L", false, 0, "")
		if pedido.InventarioItem.Producto != nil {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(contentW, 6,
				fmt.Sprintf("Total: $%s", pedido.InventarioItem.Producto.Precio.StringFixed(2)),
				"T", 1, "R", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
		}
	}
	if pedido.Diseno != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Estampa: %s", pedido.Diseno.Nombre), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Estado: %s", pedido.Estado), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
