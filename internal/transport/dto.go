package transport

// Product bodies use the pointer form so absent fields can be told apart
// from zero values.
type CreateProductRequest struct {
	Name        *string  `json:"nome"`
	Price       *float64 `json:"preco"`
	Description *string  `json:"descricao"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"nome"`
	Price       *float64 `json:"preco"`
	Description *string  `json:"descricao"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ProductSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"nome"`
	Price float64 `json:"preco"`
}

type CartLine struct {
	ItemID    uint    `json:"item_id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"nome"`
	Price     float64 `json:"preco"`
}

type SearchResult struct {
	Total    int64            `json:"total"`
	Products []ProductSummary `json:"products"`
}

type Message struct {
	Message string `json:"message"`
}
