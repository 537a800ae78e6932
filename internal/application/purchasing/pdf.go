package purchasing

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// PurchaseOrderDocument datos que necesita el generador para imprimir la orden.
type PurchaseOrderDocument struct {
	Order        *entity.PurchaseOrder
	ReceivedQty  map[string]int    // por ID de línea
	ProductNames map[string]string // por ID de producto
}

// PurchaseOrderPDFGenerator puerto de salida para la representación impresa de la orden.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, doc PurchaseOrderDocument) ([]byte, error)
}

// RenderPDF arma el documento de la orden y devuelve los bytes del PDF y un nombre de archivo.
func (uc *OrderUseCase) RenderPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	var doc PurchaseOrderDocument
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		po, err := repos.PurchaseOrders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
		}
		received, err := receivedByDetail(ctx, repos, po)
		if err != nil {
			return err
		}
		names := make(map[string]string, len(po.Details))
		for _, d := range po.Details {
			p, err := repos.Products.GetByID(ctx, d.ProductID)
			if err != nil {
				return err
			}
			if p != nil {
				names[d.ProductID] = p.Name
			}
		}
		doc = PurchaseOrderDocument{Order: po, ReceivedQty: received, ProductNames: names}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err = uc.pdf.GeneratePurchaseOrderPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar orden de compra: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden-compra-%s.pdf", id), nil
}
