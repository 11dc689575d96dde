package coupon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dine24/dine24-api/internal/validation"
)

func newTestCatalog(today string) *Catalog {
	c := NewCatalog(Fixtures(), validation.New())
	day, _ := time.Parse("2006-01-02", today)
	c.now = func() time.Time { return day.Add(12 * time.Hour) }
	return c
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		today   string
		code    string
		wantErr error
	}{
		{"active coupon before expiry", "2024-02-01", "ROYAL20", nil},
		{"lower case code", "2024-02-01", " royal20 ", nil},
		{"last valid day", "2024-02-28", "ROYAL20", nil},
		{"expired coupon", "2024-02-16", "FIRST100", ErrExpired},
		{"unknown code", "2024-02-01", "NOPE", ErrNotFound},
		{"empty code", "2024-02-01", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(tt.today)
			_, err := c.Validate(context.Background(), tt.code)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCatalog_ValidateStatusAndUsage(t *testing.T) {
	c := newTestCatalog("2024-02-01")

	inactive := Fixtures()[0]
	inactive.Status = StatusInactive
	if _, err := c.Update("ROYAL20", inactive); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := c.Validate(context.Background(), "ROYAL20"); !errors.Is(err, ErrInactive) {
		t.Errorf("expected ErrInactive, got %v", err)
	}

	used := Fixtures()[1]
	used.UsageCount = used.MaxUsage
	if _, err := c.Update("first100", used); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := c.Validate(context.Background(), "FIRST100"); !errors.Is(err, ErrExhausted) {
		t.Errorf("expected ErrExhausted, got %v", err)
	}
}

func TestCatalog_CRUD(t *testing.T) {
	c := newTestCatalog("2024-02-01")

	created, err := c.Create(Coupon{Code: "save50", MinOrderWorth: 200, Discount: "Rs.50", DiscountType: TypeFixed, ValidTill: "2024-12-31", MaxUsage: 10, Status: StatusActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "SAVE50" {
		t.Errorf("expected normalised code, got %s", created.Code)
	}

	if _, err := c.Create(Coupon{Code: "SAVE50", Discount: "1%", DiscountType: TypePercentage, ValidTill: "2024-12-31", Status: StatusActive}); !errors.Is(err, ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}

	_, err = c.Create(Coupon{Code: "BAD", Discount: "1%", DiscountType: "bogus", ValidTill: "31/12/2024", Status: StatusActive})
	res, ok := validation.AsResult(err)
	if !ok {
		t.Fatalf("expected validation result, got %v", err)
	}
	if _, ok := res["discount_type"]; !ok {
		t.Errorf("expected discount_type error, got %v", res)
	}
	if _, ok := res["valid_till"]; !ok {
		t.Errorf("expected valid_till error, got %v", res)
	}

	if got := len(c.List()); got != 3 {
		t.Errorf("expected 3 coupons, got %d", got)
	}

	if err := c.Delete("SAVE50"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get("SAVE50"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted coupon should be gone, got %v", err)
	}
	if err := c.Delete("SAVE50"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := c.Update("SAVE50", Fixtures()[0]); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	stats := c.Stats()
	if stats["total_coupons"] != 2 {
		t.Errorf("expected 2 coupons in stats, got %v", stats["total_coupons"])
	}
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	c := newTestCatalog("2024-02-01")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = c.Validate(context.Background(), "ROYAL20")
		}()
		go func() {
			defer wg.Done()
			_ = c.List()
		}()
	}
	wg.Wait()
}
