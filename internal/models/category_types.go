package models

// Category defines the struct for the 'categories' table. Slug is not
// stored; handlers derive it from the name for the response.
type Category struct {
	ID   int64  `json:"id" db:"category_id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug"`
}
