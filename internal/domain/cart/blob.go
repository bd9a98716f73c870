// internal/domain/cart/blob.go
package cart

import (
	"encoding/json"

	"github.com/your-org/storefront-gateway/internal/domain/identity"
)

// blobSchemaVersion tags the current persisted shape. Blobs without a
// version field are treated as the legacy browser-era shape, whose
// field names are identical but whose product ids may be JSON numbers.
const blobSchemaVersion = 2

// persistedBlob is the serialized form of the whole partition map
type persistedBlob struct {
	Version       int                        `json:"version"`
	UserCarts     map[string][]persistedItem `json:"userCarts"`
	CurrentUserID *string                    `json:"currentUserId"`
}

type persistedItem struct {
	Product  persistedProduct `json:"product"`
	Quantity int              `json:"quantity"`
}

type persistedProduct struct {
	ID       flexibleID `json:"id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Price    string     `json:"price"`
	Image    string     `json:"image"`
	Category string     `json:"category"`
}

// flexibleID decodes from either a JSON string or a JSON number,
// normalizing legacy numeric product ids to strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

func (f flexibleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// decodeBlob deserializes a persisted blob, migrating legacy data and
// defaulting to the empty state on any malformed input. It never fails:
// durability is best-effort and a corrupt blob must not take the cart
// down with it.
func decodeBlob(data string) (map[string][]LineItem, identity.Identity) {
	partitions := make(map[string][]LineItem)
	active := identity.Guest()

	if data == "" {
		return partitions, active
	}

	var blob persistedBlob
	if err := json.Unmarshal([]byte(data), &blob); err != nil {
		return make(map[string][]LineItem), identity.Guest()
	}

	for owner, items := range blob.UserCarts {
		if owner == "" {
			continue
		}
		partition := make([]LineItem, 0, len(items))
		for _, item := range items {
			// Sanitize rows that violate the quantity/id invariants
			// instead of propagating them.
			if item.Quantity < 1 || item.Product.ID == "" {
				continue
			}
			partition = append(partition, LineItem{
				Product: Product{
					ID:       string(item.Product.ID),
					Name:     item.Product.Name,
					Slug:     item.Product.Slug,
					Price:    item.Product.Price,
					Image:    item.Product.Image,
					Category: item.Product.Category,
				},
				Quantity: item.Quantity,
			})
		}
		partitions[owner] = partition
	}

	if blob.CurrentUserID != nil && *blob.CurrentUserID != "" {
		active = identity.FromKey(*blob.CurrentUserID)
	}

	return partitions, active
}

// encodeBlob serializes the partition map in the current schema version
func encodeBlob(partitions map[string][]LineItem, active identity.Identity) (string, error) {
	blob := persistedBlob{
		Version:   blobSchemaVersion,
		UserCarts: make(map[string][]persistedItem, len(partitions)),
	}

	for owner, items := range partitions {
		persisted := make([]persistedItem, 0, len(items))
		for _, item := range items {
			persisted = append(persisted, persistedItem{
				Product: persistedProduct{
					ID:       flexibleID(item.Product.ID),
					Name:     item.Product.Name,
					Slug:     item.Product.Slug,
					Price:    item.Product.Price,
					Image:    item.Product.Image,
					Category: item.Product.Category,
				},
				Quantity: item.Quantity,
			})
		}
		blob.UserCarts[owner] = persisted
	}

	if !active.IsGuest() {
		userID := active.Key()
		blob.CurrentUserID = &userID
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
