package httptransport

type ProductDTO struct {
	ProductID   string `json:"product_id"`
	SellerID    string `json:"seller_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CreateProductRequest struct {
	SellerID    string `json:"seller_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PriceCents  int64  `json:"price_cents"`
	Currency    string `json:"currency"`
}

type CreateProductResponse struct {
	Product ProductDTO `json:"product"`
	EventID string     `json:"event_id"`
}

type ChangePriceRequest struct {
	PriceCents int64 `json:"price_cents"`
}

type ChangePriceResponse struct {
	Product ProductDTO `json:"product"`
	EventID string     `json:"event_id"`
}

type GetProductResponse struct {
	Product ProductDTO `json:"product"`
}

type ListProductsRequest struct {
	SellerID string `json:"seller_id,omitempty"`
	Status   string `json:"status,omitempty"`
	Cursor   string `json:"cursor,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type ListProductsResponse struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
