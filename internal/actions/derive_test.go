package actions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1050), ToMinorUnits(10.50))
	assert.Equal(t, int64(1010), ToMinorUnits(10.1))
	assert.Equal(t, int64(29), ToMinorUnits(0.29))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(1), ToMinorUnits(0.01))
}

func TestToday(t *testing.T) {
	assert.Equal(t, time.Now().Format("2006-01-02"), Today())
}
