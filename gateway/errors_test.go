package gateway_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/stretchr/testify/assert"
)

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	base := &gateway.Error{
		Kind:    gateway.KindValidation,
		Status:  422,
		Method:  "POST",
		Path:    "/products",
		Message: "The given data was invalid.",
		Fields:  map[string][]string{"sku": {"The sku has already been taken."}},
	}
	wrapped := fmt.Errorf("create product: %w", base)

	assert.Equal(t, gateway.KindValidation, gateway.KindOf(wrapped))
	assert.Equal(t, base.Fields, gateway.FieldErrors(wrapped))
	assert.Equal(t, "The given data was invalid.", gateway.Message(wrapped))
	assert.Contains(t, wrapped.Error(), "POST /products: 422 validation")
	assert.False(t, gateway.IsAuthExpired(wrapped))
}

func TestErrorHelpersOnPlainErrors(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, gateway.Kind(0), gateway.KindOf(err))
	assert.Nil(t, gateway.FieldErrors(err))
	assert.Equal(t, "boom", gateway.Message(err))
	assert.Equal(t, "", gateway.Message(nil))
	assert.Equal(t, "unknown", gateway.Kind(0).String())
}
