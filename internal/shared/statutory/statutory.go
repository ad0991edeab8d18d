// Package statutory holds the Indian statutory constants used by salary
// structures and payroll computation, overridable from configuration.
package statutory

import (
	"fmt"
	"sort"
	"strings"

	"go-payroll/internal/config"
	"go-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
)

type Config struct {
	PFRate          decimal.Decimal
	PFWageCeiling   int64
	ESIEmployeeRate decimal.Decimal
	ESIEmployerRate decimal.Decimal
	ESIWageLimit    int64
	RTGSThreshold   int64
	PTSlabs         Slabs
	PTFebruaryLast  int64
	TDSSlabs        Slabs
}

func Default() Config {
	return Config{
		PFRate:          decimal.NewFromInt(12),
		PFWageCeiling:   1500000,
		ESIEmployeeRate: decimal.RequireFromString("0.75"),
		ESIEmployerRate: decimal.RequireFromString("3.25"),
		ESIWageLimit:    2100000,
		RTGSThreshold:   20000000,
		PTSlabs: Slabs{
			{UpTo: 750000, Amount: 0},
			{UpTo: 1000000, Amount: 17500},
			{UpTo: 0, Amount: 20000},
		},
		PTFebruaryLast: 30000,
	}
}

// FromConfig overlays the configured values on Default. Blank values keep
// the default.
func FromConfig(cfg config.PayrollConfig) (Config, error) {
	c := Default()

	amounts := []struct {
		name  string
		value string
		dest  *int64
	}{
		{"PF_WAGE_CEILING", cfg.PFWageCeiling, &c.PFWageCeiling},
		{"ESI_WAGE_LIMIT", cfg.ESIWageLimit, &c.ESIWageLimit},
		{"RTGS_THRESHOLD", cfg.RTGSThreshold, &c.RTGSThreshold},
		{"PT_FEBRUARY_LAST", cfg.PTFebruaryLast, &c.PTFebruaryLast},
	}
	for _, a := range amounts {
		if strings.TrimSpace(a.value) == "" {
			continue
		}
		v, err := parseRupees(a.value)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", a.name, err)
		}
		*a.dest = v
	}

	if strings.TrimSpace(cfg.PTSlabs) != "" {
		slabs, err := ParseSlabs(cfg.PTSlabs)
		if err != nil {
			return Config{}, fmt.Errorf("PT_SLABS: %w", err)
		}
		c.PTSlabs = slabs
	}
	if strings.TrimSpace(cfg.TDSSlabs) != "" {
		slabs, err := ParseSlabs(cfg.TDSSlabs)
		if err != nil {
			return Config{}, fmt.Errorf("TDS_SLABS: %w", err)
		}
		c.TDSSlabs = slabs
	}

	return c, nil
}

func parseRupees(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", s)
	}
	return money.FromRupees(d), nil
}

// Slab charges Amount when the base is at most UpTo. UpTo 0 is the open top slab.
type Slab struct {
	UpTo   int64
	Amount int64
}

type Slabs []Slab

// ParseSlabs reads "upto:amount" rupee pairs, e.g. "7500:0,10000:175,0:200".
func ParseSlabs(s string) (Slabs, error) {
	var slabs Slabs
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		upTo, amount, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid slab %q", part)
		}
		u, err := parseRupees(upTo)
		if err != nil {
			return nil, fmt.Errorf("invalid slab %q: %w", part, err)
		}
		a, err := parseRupees(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid slab %q: %w", part, err)
		}
		slabs = append(slabs, Slab{UpTo: u, Amount: a})
	}

	sort.SliceStable(slabs, func(i, j int) bool {
		if slabs[i].UpTo == 0 {
			return false
		}
		if slabs[j].UpTo == 0 {
			return true
		}
		return slabs[i].UpTo < slabs[j].UpTo
	})
	return slabs, nil
}

// Lookup returns the amount of the first slab covering base; zero when no
// slab matches or the table is empty.
func (s Slabs) Lookup(base int64) int64 {
	for _, slab := range s {
		if slab.UpTo == 0 || base <= slab.UpTo {
			return slab.Amount
		}
	}
	return 0
}
