package directory

import (
	"errors"
	"testing"

	"github.com/dialdesk/backend/internal/types"
)

func dept(tenantID, id, code string, isDefault bool) types.Department {
	return types.Department{
		ID:           id,
		TenantID:     tenantID,
		Name:         "Dept " + id,
		Code:         code,
		IsDefault:    isDefault,
		Strategy:     types.StrategyRoundRobin,
		MaxQueueSize: 5,
		Active:       true,
	}
}

func TestLookupByIDAndCode(t *testing.T) {
	d := NewDirectory()
	d.Upsert(dept("tenant-a", "d1", "100", true))

	got, err := d.Get("tenant-a", "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Code != "100" {
		t.Errorf("expected code 100, got %s", got.Code)
	}

	byCode, err := d.GetByCode("tenant-a", "100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byCode.ID != "d1" {
		t.Errorf("expected d1 by code, got %s", byCode.ID)
	}

	if _, err := d.GetByCode("tenant-b", "100"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("expected code lookup scoped to tenant, got %v", err)
	}
}

func TestDefaultDepartment(t *testing.T) {
	d := NewDirectory()

	if _, err := d.Default("tenant-a"); !errors.Is(err, ErrNoDefaultDepartment) {
		t.Fatalf("expected ErrNoDefaultDepartment, got %v", err)
	}

	d.Upsert(dept("tenant-a", "d1", "100", true))
	d.Upsert(dept("tenant-a", "d2", "200", false))

	def, err := d.Default("tenant-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.ID != "d1" {
		t.Errorf("expected d1 as default, got %s", def.ID)
	}
}

func TestDefaultFlagMovesAtomically(t *testing.T) {
	d := NewDirectory()
	d.Upsert(dept("tenant-a", "d1", "100", true))
	d.Upsert(dept("tenant-a", "d2", "200", true))

	def, err := d.Default("tenant-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.ID != "d2" {
		t.Errorf("expected newest default d2, got %s", def.ID)
	}

	// Exactly one default among active departments
	defaults := 0
	for _, dept := range d.ListByTenant("tenant-a") {
		if dept.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("expected exactly 1 default, got %d", defaults)
	}
}

func TestInactiveDepartmentHidden(t *testing.T) {
	d := NewDirectory()
	inactive := dept("tenant-a", "d1", "100", false)
	inactive.Active = false
	d.Upsert(inactive)

	if _, err := d.Get("tenant-a", "d1"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("expected inactive department hidden, got %v", err)
	}
	if got := len(d.ListByTenant("tenant-a")); got != 0 {
		t.Errorf("expected 0 active departments, got %d", got)
	}
}
