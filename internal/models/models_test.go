package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Лев Толстой", User{Username: "leo", FirstName: "Лев", LastName: "Толстой"}.FullName())
	assert.Equal(t, "Лев", User{Username: "leo", FirstName: "Лев"}.FullName())
	assert.Equal(t, "leo", User{Username: "leo"}.FullName())
}

func TestPageNavigation(t *testing.T) {
	page := &Page{Number: 2, NumPages: 3}

	assert.True(t, page.HasPrevious())
	assert.True(t, page.HasNext())
	assert.Equal(t, 1, page.PreviousNumber())
	assert.Equal(t, 3, page.NextNumber())
	assert.Equal(t, []int{1, 2, 3}, page.Range())

	single := &Page{Number: 1, NumPages: 1}
	assert.False(t, single.HasPrevious())
	assert.False(t, single.HasNext())
	assert.False(t, single.HasOtherPages())
}
