package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalSellerView(t *testing.T) {
	s := Seller{
		ID:      7,
		Name:    "Acme Traders",
		Email:   "sales@acme.example",
		Phone:   "+1 555 0100",
		Address: "12 Market Street",
		Rating:  4.5,
	}

	view := ExternalSellerView(s)

	assert.Equal(t, int64(7), view.ID)
	assert.Equal(t, "Acme Traders", view.Name)
	assert.Equal(t, "sales@acme.example", view.Email)
	assert.False(t, view.IsUser)

	// external sellers expose rating and full contact details
	require.NotNil(t, view.Rating)
	assert.Equal(t, 4.5, *view.Rating)
	require.NotNil(t, view.Phone)
	assert.Equal(t, "+1 555 0100", *view.Phone)
	require.NotNil(t, view.Address)
	assert.Equal(t, "12 Market Street", *view.Address)
}

func TestUserSellerView_RedactsContactAndRating(t *testing.T) {
	u := User{
		ID:    3,
		Name:  "Jane Doe",
		Email: "jane@example.com",
	}

	view := UserSellerView(u)

	assert.Equal(t, int64(3), view.ID)
	assert.Equal(t, "Jane Doe", view.Name)
	assert.Equal(t, "jane@example.com", view.Email)
	assert.True(t, view.IsUser)

	// user sellers are unrated and keep their contact details private
	assert.Nil(t, view.Rating)
	assert.Nil(t, view.Phone)
	assert.Nil(t, view.Address)
}
