package entity

// OrderStatus estado compartido por órdenes de compra, órdenes de venta y sus líneas.
type OrderStatus string

const (
	StatusNew        OrderStatus = "NEW"
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid indica si el estado pertenece al enum.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsFinal COMPLETED y CANCELLED son terminales.
func (s OrderStatus) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo valida el grafo NEW → PENDING → PROCESSING → COMPLETED, NEW → CANCELLED.
// Permanecer en el mismo estado no terminal se considera válido (roll-up sin cambios).
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s == target {
		return !s.IsFinal()
	}
	switch s {
	case StatusNew:
		return target == StatusPending || target == StatusCancelled
	case StatusPending:
		return target == StatusProcessing || target == StatusCompleted
	case StatusProcessing:
		return target == StatusCompleted
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }
