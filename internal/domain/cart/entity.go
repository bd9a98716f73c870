// internal/domain/cart/entity.go
package cart

import "strconv"

// Product carries the denormalized display fields a line item needs to
// render without a catalog round-trip. ID is the backend product id in
// string form and is the uniqueness key within a partition.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Price    string `json:"price"` // decimal string, e.g. "1299.00"
	Image    string `json:"image"`
	Category string `json:"category"`
}

// LineItem is one product-plus-quantity row within a partition
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price * quantity. An unparsable price contributes 0
// rather than failing the whole cart total.
func (li LineItem) Subtotal() float64 {
	price, err := strconv.ParseFloat(li.Product.Price, 64)
	if err != nil {
		return 0
	}
	return price * float64(li.Quantity)
}

// Totals represents calculated cart totals for the active partition
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of unique items
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	TotalPrice    float64 `json:"total_price"`
}

func cloneItems(items []LineItem) []LineItem {
	cloned := make([]LineItem, len(items))
	copy(cloned, items)
	return cloned
}
