package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest elemento del body de POST /api/item/add.
type AddItemRequest struct {
	ItemName  string          `json:"item_name"`
	ItemPrice decimal.Decimal `json:"item_price"`
	Quantity  int             `json:"quantity"` // stock inicial, puede ser 0
}

// AddItemResult eco de la solicitud; ItemID solo si el item llegó a persistirse.
type AddItemResult struct {
	ItemID    int64           `json:"item_id,omitempty"`
	ItemName  string          `json:"item_name"`
	ItemPrice decimal.Decimal `json:"item_price"`
	Quantity  int             `json:"quantity"`
	Status    string          `json:"status"`
	Message   string          `json:"message,omitempty"`
}

// UpdateItemRequest actualización parcial: los campos nil no se modifican.
type UpdateItemRequest struct {
	ItemID    int64            `json:"item_id"`
	ItemName  *string          `json:"item_name,omitempty"`
	ItemPrice *decimal.Decimal `json:"item_price,omitempty"`
}

// UpdateItemResult eco de la solicitud con su resultado.
type UpdateItemResult struct {
	ItemID    int64            `json:"item_id"`
	ItemName  *string          `json:"item_name,omitempty"`
	ItemPrice *decimal.Decimal `json:"item_price,omitempty"`
	Status    string           `json:"status"`
	Message   string           `json:"message,omitempty"`
}

// ItemResponse item con su stock actual (GET /api/item/:itemId).
type ItemResponse struct {
	ItemID            int64           `json:"item_id"`
	ItemName          string          `json:"item_name"`
	ItemPrice         decimal.Decimal `json:"item_price"`
	Status            string          `json:"status"`
	AvailableQuantity int             `json:"available_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DeleteItemResponse respuesta de POST /api/item/delete/:itemId.
type DeleteItemResponse struct {
	ItemID  int64  `json:"item_id"`
	Message string `json:"message"`
}
