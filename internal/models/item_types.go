package models

// Item is the model for the 'items' table. Exactly one of SellerID and
// OwnerUserID is set: SellerID points at an external seller, OwnerUserID
// at the registered user who listed the item.
type Item struct {
	ID            int64   `json:"id" db:"item_id"`
	Name          string  `json:"name" db:"name"`
	Description   string  `json:"description" db:"description"`
	Price         float64 `json:"price" db:"price"`
	Quantity      int     `json:"quantity" db:"quantity"`
	CategoryID    int64   `json:"categoryId" db:"category_id"`
	SellerID      *int64  `json:"sellerId,omitempty" db:"seller_id"`
	OwnerUserID   *int64  `json:"ownerUserId,omitempty" db:"owner_user_id"`
	ImageFilename string  `json:"imageFilename" db:"image_filename"`
}
