package statutory_test

import (
	"testing"

	"go-payroll/internal/config"
	"go-payroll/internal/shared/statutory"

	"github.com/stretchr/testify/assert"
)

func TestParseSlabs(t *testing.T) {
	slabs, err := statutory.ParseSlabs("0:200, 7500:0,10000:175")
	assert.NoError(t, err)

	assert.Equal(t, statutory.Slabs{
		{UpTo: 750000, Amount: 0},
		{UpTo: 1000000, Amount: 17500},
		{UpTo: 0, Amount: 20000},
	}, slabs)

	assert.Equal(t, int64(0), slabs.Lookup(750000))
	assert.Equal(t, int64(17500), slabs.Lookup(750001))
	assert.Equal(t, int64(20000), slabs.Lookup(5000000))

	_, err = statutory.ParseSlabs("7500-0")
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	c, err := statutory.FromConfig(config.PayrollConfig{
		PFWageCeiling: "15000",
		RTGSThreshold: "200000",
		TDSSlabs:      "50000:0,0:2500",
	})
	assert.NoError(t, err)

	assert.Equal(t, int64(1500000), c.PFWageCeiling)
	assert.Equal(t, int64(20000000), c.RTGSThreshold)
	assert.Equal(t, int64(2100000), c.ESIWageLimit)
	assert.Equal(t, int64(250000), c.TDSSlabs.Lookup(9000000))

	_, err = statutory.FromConfig(config.PayrollConfig{ESIWageLimit: "abc"})
	assert.Error(t, err)
}
