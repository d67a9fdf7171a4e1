package cacheview

import (
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetComputesOnce(t *testing.T) {
	c := New()
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "page-1", nil
	}

	v, err := c.Get("/dashboard/invoices?page=1", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, "page-1", v)

	v, err = c.Get("/dashboard/invoices?page=1", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, "page-1", v)
	assert.Equal(t, 1, calls)
}

func TestInvalidateMarksPrefixStale(t *testing.T) {
	c := New()
	calls := map[string]int{}
	get := func(key string) {
		_, err := c.Get(key, 0, func() (interface{}, error) {
			calls[key]++
			return key, nil
		})
		require.NoError(t, err)
	}

	get("/dashboard/invoices?page=1")
	get("/dashboard/invoices?page=2")
	get("/dashboard/customers?page=1")

	c.Invalidate("/dashboard/invoices")

	get("/dashboard/invoices?page=1")
	get("/dashboard/invoices?page=2")
	get("/dashboard/customers?page=1")

	assert.Equal(t, 2, calls["/dashboard/invoices?page=1"])
	assert.Equal(t, 2, calls["/dashboard/invoices?page=2"])
	assert.Equal(t, 1, calls["/dashboard/customers?page=1"], "other views stay cached")
}

func TestBusDrivenInvalidation(t *testing.T) {
	c := New()
	bus := EventBus.New()
	require.NoError(t, c.BindBus(bus))

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get("/dashboard/customers?page=1", 0, compute)
	require.NoError(t, err)

	BusInvalidator{Bus: bus}.Invalidate("/dashboard/customers")
	bus.WaitAsync()

	v, err := c.Get("/dashboard/customers?page=1", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMaxAgeExpiry(t *testing.T) {
	c := New()
	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := c.Get("/dashboard", 50*time.Millisecond, compute)
	require.NoError(t, err)
	_, err = c.Get("/dashboard", 50*time.Millisecond, compute)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	time.Sleep(80 * time.Millisecond)

	v, err := c.Get("/dashboard", 50*time.Millisecond, compute)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestComputeErrorNotCached(t *testing.T) {
	c := New()
	calls := 0

	_, err := c.Get("/dashboard", 0, func() (interface{}, error) {
		calls++
		return nil, assert.AnError
	})
	require.Error(t, err)

	v, err := c.Get("/dashboard", 0, func() (interface{}, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}
