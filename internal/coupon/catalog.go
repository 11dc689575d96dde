// Package coupon holds the promotional coupon catalog. Coupons are kept in
// process memory and are not persisted.
package coupon

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/dine24/dine24-api/internal/validation"
)

// Discount types
const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

// Coupon statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrDuplicateCode = errors.New("coupon code already exists")
	ErrInactive      = errors.New("coupon is not active")
	ErrExpired       = errors.New("coupon has expired")
	ErrExhausted     = errors.New("coupon usage limit reached")
)

// Coupon is a promotional code shown to customers
type Coupon struct {
	Code          string `json:"code" validate:"required,min=3,max=20"`
	MinOrderWorth int64  `json:"min_order_worth" validate:"gte=0"`
	Discount      string `json:"discount" validate:"required"`
	DiscountType  string `json:"discount_type" validate:"required,oneof=percentage fixed"`
	ValidTill     string `json:"valid_till" validate:"required,datetime=2006-01-02"`
	UsageCount    int    `json:"usage_count" validate:"gte=0"`
	MaxUsage      int    `json:"max_usage" validate:"gte=0"`
	Status        string `json:"status" validate:"required,oneof=active inactive"`
}

// Fixtures returns the coupons the catalog starts with
func Fixtures() []Coupon {
	return []Coupon{
		{Code: "ROYAL20", MinOrderWorth: 500, Discount: "20%", DiscountType: TypePercentage, ValidTill: "2024-02-28", UsageCount: 45, MaxUsage: 100, Status: StatusActive},
		{Code: "FIRST100", MinOrderWorth: 300, Discount: "Rs.100", DiscountType: TypeFixed, ValidTill: "2024-02-15", UsageCount: 23, MaxUsage: 50, Status: StatusActive},
	}
}

// Catalog stores coupons by normalised code. A bloom filter rejects most
// unknown codes before the map is consulted.
type Catalog struct {
	mu        sync.RWMutex
	coupons   map[string]Coupon
	filter    *bloom.BloomFilter
	validator *validation.Validator
	now       func() time.Time
}

// NewCatalog creates a catalog holding the given coupons
func NewCatalog(initial []Coupon, v *validation.Validator) *Catalog {
	c := &Catalog{
		coupons:   make(map[string]Coupon),
		filter:    bloom.NewWithEstimates(10000, 0.01),
		validator: v,
		now:       time.Now,
	}
	for _, cp := range initial {
		cp.Code = Normalize(cp.Code)
		c.coupons[cp.Code] = cp
		c.filter.AddString(cp.Code)
	}
	return c
}

// Normalize upper-cases and trims a coupon code
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// List returns every coupon ordered by code
func (c *Catalog) List() []Coupon {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]Coupon, 0, len(c.coupons))
	for _, cp := range c.coupons {
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// Get returns a coupon by code
func (c *Catalog) Get(code string) (*Coupon, error) {
	code = Normalize(code)
	if !c.mayContain(code) {
		return nil, ErrNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	cp, exists := c.coupons[code]
	if !exists {
		return nil, ErrNotFound
	}
	return &cp, nil
}

func (c *Catalog) mayContain(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter.TestString(code)
}

// Create adds a new coupon. Codes are unique ignoring case.
func (c *Catalog) Create(cp Coupon) (*Coupon, error) {
	cp.Code = Normalize(cp.Code)
	if err := c.validator.Struct(cp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.coupons[cp.Code]; exists {
		return nil, ErrDuplicateCode
	}
	c.coupons[cp.Code] = cp
	c.filter.AddString(cp.Code)
	return &cp, nil
}

// Update replaces the coupon stored under code. The code itself cannot change.
func (c *Catalog) Update(code string, cp Coupon) (*Coupon, error) {
	code = Normalize(code)
	cp.Code = code
	if err := c.validator.Struct(cp); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.coupons[code]; !exists {
		return nil, ErrNotFound
	}
	c.coupons[code] = cp
	return &cp, nil
}

// Delete removes a coupon. The bloom filter keeps the code; lookups fall
// through to the map and miss.
func (c *Catalog) Delete(code string) error {
	code = Normalize(code)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.coupons[code]; !exists {
		return ErrNotFound
	}
	delete(c.coupons, code)
	return nil
}

// Validate checks that code exists, is active, has not expired and still has uses left
func (c *Catalog) Validate(ctx context.Context, code string) (*Coupon, error) {
	cp, err := c.Get(code)
	if err != nil {
		return nil, err
	}

	if cp.Status != StatusActive {
		return cp, ErrInactive
	}

	validTill, err := time.Parse("2006-01-02", cp.ValidTill)
	if err == nil {
		today := c.now().Format("2006-01-02")
		if validTill.Format("2006-01-02") < today {
			return cp, ErrExpired
		}
	}

	if cp.MaxUsage > 0 && cp.UsageCount >= cp.MaxUsage {
		return cp, ErrExhausted
	}
	return cp, nil
}

// Stats reports the catalog size and how full the bloom filter is
func (c *Catalog) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"total_coupons":          len(c.coupons),
		"filter_bits":            c.filter.Cap(),
		"filter_estimated_items": c.filter.ApproximatedSize(),
	}
}
