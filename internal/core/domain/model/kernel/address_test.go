package kernel_test

import (
	"fmt"
	"testing"

	"pos/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("should create address from valid identifiers", func(t *testing.T) {
		orgID := kernel.NewUUID()
		siteID := kernel.NewUUID()
		orderID := kernel.NewUUID()

		addr, err := kernel.NewAddress(orgID, siteID, orderID)

		require.NoError(t, err)
		assert.NoError(t, addr.Validate())
		assert.True(t, orgID.IsEqual(addr.OrgID()))
		assert.True(t, siteID.IsEqual(addr.SiteID()))
		assert.True(t, orderID.IsEqual(addr.OrderID()))
	})

	t.Run("should reject zero value identifiers", func(t *testing.T) {
		var zero kernel.UUID

		_, err := kernel.NewAddress(zero, kernel.NewUUID(), kernel.NewUUID())
		assert.Error(t, err)

		_, err = kernel.NewAddress(kernel.NewUUID(), zero, kernel.NewUUID())
		assert.Error(t, err)

		_, err = kernel.NewAddress(kernel.NewUUID(), kernel.NewUUID(), zero)
		assert.Error(t, err)
	})

	t.Run("should fail validation for zero value address", func(t *testing.T) {
		var addr kernel.Address
		err := addr.Validate()

		assert.Error(t, err)
		assert.Equal(t, kernel.ErrAddressIsNotConstructed, err)
	})
}

func TestAddress_Sibling(t *testing.T) {
	t.Run("should keep org and site and swap the order", func(t *testing.T) {
		addr, err := kernel.NewAddress(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)

		childOrderID := kernel.NewUUID()
		sibling, err := addr.Sibling(childOrderID)

		require.NoError(t, err)
		assert.True(t, addr.OrgID().IsEqual(sibling.OrgID()))
		assert.True(t, addr.SiteID().IsEqual(sibling.SiteID()))
		assert.True(t, childOrderID.IsEqual(sibling.OrderID()))
		assert.False(t, addr.IsEqual(sibling))
	})

	t.Run("should reject zero value order identifier", func(t *testing.T) {
		addr, err := kernel.NewAddress(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)

		var zero kernel.UUID
		_, err = addr.Sibling(zero)

		assert.Error(t, err)
	})
}

func TestAddress_IsEqual(t *testing.T) {
	t.Run("should compare component-wise", func(t *testing.T) {
		orgID := kernel.NewUUID()
		siteID := kernel.NewUUID()
		orderID := kernel.NewUUID()

		a, err := kernel.NewAddress(orgID, siteID, orderID)
		require.NoError(t, err)
		b, err := kernel.NewAddress(orgID, siteID, orderID)
		require.NoError(t, err)

		assert.True(t, a.IsEqual(b))

		c, err := kernel.NewAddress(orgID, siteID, kernel.NewUUID())
		require.NoError(t, err)
		assert.False(t, a.IsEqual(c))
	})
}

func TestAddress_String(t *testing.T) {
	t.Run("should render as org/site/order", func(t *testing.T) {
		orgID := kernel.NewUUID()
		siteID := kernel.NewUUID()
		orderID := kernel.NewUUID()

		addr, err := kernel.NewAddress(orgID, siteID, orderID)
		require.NoError(t, err)

		expected := fmt.Sprintf("%s/%s/%s", orgID, siteID, orderID)
		assert.Equal(t, expected, addr.String())
	})

	t.Run("should be distinct for distinct orders", func(t *testing.T) {
		orgID := kernel.NewUUID()
		siteID := kernel.NewUUID()

		a, err := kernel.NewAddress(orgID, siteID, kernel.NewUUID())
		require.NoError(t, err)
		b, err := kernel.NewAddress(orgID, siteID, kernel.NewUUID())
		require.NoError(t, err)

		assert.NotEqual(t, a.String(), b.String())
	})
}
