// Package order agrupa las reglas puras de progreso de órdenes (compra y venta).
// No depende de la base de datos: se prueba de forma aislada.
package order

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// LineStatus estado de una línea según lo cumplido (recibido o entregado) frente a lo ordenado.
// idle es el estado que conserva la línea mientras no tenga avance.
func LineStatus(done, ordered int, idle entity.OrderStatus) entity.OrderStatus {
	switch {
	case ordered > 0 && done >= ordered:
		return entity.StatusCompleted
	case done > 0:
		return entity.StatusProcessing
	}
	return idle
}

// RollUp deriva el estado de la orden a partir de los estados de sus líneas:
//   - todas COMPLETED            → COMPLETED
//   - alguna con avance          → PROCESSING
//   - todas PENDING              → PENDING
//   - cualquier otro caso / vacía → NEW
func RollUp(lines []entity.OrderStatus) entity.OrderStatus {
	if len(lines) == 0 {
		return entity.StatusNew
	}
	var completed, progressed, pending int
	for _, s := range lines {
		switch s {
		case entity.StatusCompleted:
			completed++
			progressed++
		case entity.StatusProcessing:
			progressed++
		case entity.StatusPending:
			pending++
		}
	}
	switch {
	case completed == len(lines):
		return entity.StatusCompleted
	case progressed > 0:
		return entity.StatusProcessing
	case pending == len(lines):
		return entity.StatusPending
	}
	return entity.StatusNew
}
