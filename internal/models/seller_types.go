package models

// Seller is the model for the 'sellers' table (external sellers that
// are not registered users).
type Seller struct {
	ID      int64   `json:"id" db:"seller_id"`
	Name    string  `json:"name" db:"seller_name"`
	Email   string  `json:"email" db:"email"`
	Phone   string  `json:"phone" db:"phone_number"`
	Address string  `json:"address" db:"address"`
	Rating  float64 `json:"rating" db:"rating"`
}

// SellerView is the uniform seller representation for the catalog. An
// item is sold either by an external Seller row or by the registered
// user who listed it, and callers should not have to care which.
// User sellers carry no rating and have their contact details redacted.
type SellerView struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Rating  *float64 `json:"rating"`
	Phone   *string  `json:"phone,omitempty"`
	Address *string  `json:"address,omitempty"`
	IsUser  bool     `json:"isUser"`
}

// ExternalSellerView builds the view for a row from the sellers table.
func ExternalSellerView(s Seller) SellerView {
	rating := s.Rating
	phone := s.Phone
	address := s.Address
	return SellerView{
		ID:      s.ID,
		Name:    s.Name,
		Email:   s.Email,
		Rating:  &rating,
		Phone:   &phone,
		Address: &address,
		IsUser:  false,
	}
}

// UserSellerView builds the view for a user-owned listing. Phone and
// address stay nil: a user's contact details are private.
func UserSellerView(u User) SellerView {
	return SellerView{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		IsUser: true,
	}
}
