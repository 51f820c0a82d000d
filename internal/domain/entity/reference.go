package entity

// ReferenceType tipo del documento de negocio que causa un movimiento.
type ReferenceType string

const (
	ReferencePurchaseOrder ReferenceType = "PO"
	ReferenceOrder         ReferenceType = "ORDER"
	ReferenceTransfer      ReferenceType = "TRANSFER"
	ReferenceRequisition   ReferenceType = "PR"
	ReferenceAdjustment    ReferenceType = "ADJUSTMENT"
)

// Valid indica si el tipo de referencia es conocido.
func (t ReferenceType) Valid() bool {
	switch t {
	case ReferencePurchaseOrder, ReferenceOrder, ReferenceTransfer, ReferenceRequisition, ReferenceAdjustment:
		return true
	}
	return false
}

// Reference puntero de auditoría al documento origen. No es una FK: el tipo
// discrimina a qué colección pertenece el ID.
type Reference struct {
	Type ReferenceType
	ID   string
}

func PurchaseOrderRef(id string) Reference { return Reference{Type: ReferencePurchaseOrder, ID: id} }
func OrderRef(id string) Reference         { return Reference{Type: ReferenceOrder, ID: id} }
func TransferRef(id string) Reference      { return Reference{Type: ReferenceTransfer, ID: id} }
func RequisitionRef(id string) Reference   { return Reference{Type: ReferenceRequisition, ID: id} }
func AdjustmentRef(id string) Reference    { return Reference{Type: ReferenceAdjustment, ID: id} }

// IsZero true si no se indicó referencia.
func (r Reference) IsZero() bool {
	return r.Type == "" && r.ID == ""
}
