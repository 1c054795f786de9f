package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidShopDomain(t *testing.T) {
	valid := []string{
		"a.myshopify.com",
		"my-store.myshopify.com",
		"store123.myshopify.com",
	}
	for _, s := range valid {
		assert.True(t, ValidShopDomain(s), s)
	}

	invalid := []string{
		"",
		"myshopify.com",
		".myshopify.com",
		"evil.example.com",
		"a.myshopify.com/path",
		"a.myshopify.com evil",
		"a.myshopify.com?x=1",
		"a.myshopify.com#frag",
		"user@a.myshopify.com",
		"a.myshopify.com:8080",
	}
	for _, s := range invalid {
		assert.False(t, ValidShopDomain(s), s)
	}
}
