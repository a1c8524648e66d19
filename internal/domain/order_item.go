package domain

// OrderItem represents a cart line. Title, slug, and price are snapshots of
// the catalog item at the time it was added.
type OrderItem struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	ItemID   string `json:"item_id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Ordered  bool   `json:"ordered"`
}

// LineTotal returns the total price for this line.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
