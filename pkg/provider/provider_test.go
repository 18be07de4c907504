package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageURLs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"file", FilePageURL("File:Clock.jpg"), "https://commons.wikimedia.org/wiki/File:Clock.jpg"},
		{"file with spaces", FilePageURL("File:Big Ben 14 35.jpg"), "https://commons.wikimedia.org/wiki/File:Big_Ben_14_35.jpg"},
		{"user", UserPageURL("Alice"), "https://commons.wikimedia.org/wiki/User:Alice"},
		{"user with space", UserPageURL("Jane Doe"), "https://commons.wikimedia.org/wiki/User:Jane_Doe"},
		{"escaped", FilePageURL("File:a?b.jpg"), "https://commons.wikimedia.org/wiki/File:a%3Fb.jpg"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
	assert.Equal(t, "User:Alice", UserLabel("Alice"))
}

func TestEmptyResultError(t *testing.T) {
	err := fmt.Errorf("refresh: %w", &EmptyResultError{Category: "Time 08:15"})

	assert.True(t, errors.Is(err, ErrEmptyResult))

	var empty *EmptyResultError
	assert.True(t, errors.As(err, &empty))
	assert.Equal(t, "Time 08:15", empty.Category)
	assert.Contains(t, err.Error(), `"Time 08:15"`)
	assert.Equal(t, "no candidate images", (&EmptyResultError{}).Error())
}
