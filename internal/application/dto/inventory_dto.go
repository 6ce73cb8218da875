package dto

// InventoryRequest elemento del body de PUT /api/inventory/update y /api/inventory/recordSales.
type InventoryRequest struct {
	ItemID        int64  `json:"item_id"`
	Quantity      int    `json:"quantity"`
	OperationType string `json:"operation_type"` // ADD | REMOVE | SELL
}

// InventoryResult eco de la solicitud con su resultado.
type InventoryResult struct {
	ItemID        int64  `json:"item_id"`
	Quantity      int    `json:"quantity"`
	OperationType string `json:"operation_type"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}
