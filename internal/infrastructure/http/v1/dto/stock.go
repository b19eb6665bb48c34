package dto

// AdjustStockRequest applies a manual stock correction.
// A note is mandatory when shrinking stock.
type AdjustStockRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Delta     int64  `json:"delta" binding:"required"`
	Note      string `json:"note"`
}

// StockBalanceResponse is the current stock level of a product.
type StockBalanceResponse struct {
	ProductID string `json:"productId"`
	Stock     int64  `json:"stock"`
}
