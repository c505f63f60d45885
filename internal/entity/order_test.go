package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderValidate(t *testing.T) {
	valid := Order{
		ID:     "o1",
		UserID: "u1",
		Status: StatusCompleted,
		Amount: Money{Cents: 59900, Currency: "INR"},
	}
	assert.NoError(t, valid.Validate())

	noAmount := valid
	noAmount.Amount.Cents = 0
	assert.ErrorIs(t, noAmount.Validate(), ErrInvalidAmount)

	noCurrency := valid
	noCurrency.Amount.Currency = ""
	assert.ErrorIs(t, noCurrency.Validate(), ErrInvalidAmount)

	noUser := valid
	noUser.UserID = ""
	assert.ErrorIs(t, noUser.Validate(), ErrUnauthorized)
}

func TestIdentityIsZero(t *testing.T) {
	assert.True(t, Identity{}.IsZero())
	assert.True(t, Identity{Email: "x@y.z"}.IsZero())
	assert.False(t, Identity{UserID: "u1"}.IsZero())
}
