package directory

import (
	"errors"
	"sync"

	"github.com/dialdesk/backend/internal/types"
)

var (
	// ErrDepartmentNotFound is returned when a department lookup fails within a tenant
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrNoDefaultDepartment is returned when a tenant has no active default department
	ErrNoDefaultDepartment = errors.New("no default department configured")
)

// Directory holds each tenant's routing configuration: departments keyed
// by ID and code, with exactly one active default per tenant. Read-only
// to the routing core; written by the tenant provisioning surface.
type Directory struct {
	mu          sync.RWMutex
	departments map[string]map[string]*types.Department // tenantID -> departmentID
	byCode      map[string]map[string]string            // tenantID -> code -> departmentID
}

// NewDirectory creates an empty department directory
func NewDirectory() *Directory {
	return &Directory{
		departments: make(map[string]map[string]*types.Department),
		byCode:      make(map[string]map[string]string),
	}
}

// Upsert adds or replaces a department. Marking a department as default
// clears the default flag on the tenant's previous default so the
// one-default-per-tenant invariant holds.
func (d *Directory) Upsert(dept types.Department) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tenant := d.departments[dept.TenantID]
	if tenant == nil {
		tenant = make(map[string]*types.Department)
		d.departments[dept.TenantID] = tenant
	}

	if existing, ok := tenant[dept.ID]; ok && existing.Code != dept.Code {
		delete(d.byCode[dept.TenantID], existing.Code)
	}

	if dept.IsDefault && dept.Active {
		for _, other := range tenant {
			if other.ID != dept.ID {
				other.IsDefault = false
			}
		}
	}

	tenant[dept.ID] = &dept

	codes := d.byCode[dept.TenantID]
	if codes == nil {
		codes = make(map[string]string)
		d.byCode[dept.TenantID] = codes
	}
	codes[dept.Code] = dept.ID
}

// Get returns a copy of the department, scoped to the tenant
func (d *Directory) Get(tenantID, departmentID string) (*types.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	dept, ok := d.departments[tenantID][departmentID]
	if !ok || !dept.Active {
		return nil, ErrDepartmentNotFound
	}
	cp := *dept
	return &cp, nil
}

// GetByCode looks up an active department by its code within a tenant
func (d *Directory) GetByCode(tenantID, code string) (*types.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	deptID, ok := d.byCode[tenantID][code]
	if !ok {
		return nil, ErrDepartmentNotFound
	}
	dept, ok := d.departments[tenantID][deptID]
	if !ok || !dept.Active {
		return nil, ErrDepartmentNotFound
	}
	cp := *dept
	return &cp, nil
}

// Default returns the tenant's active default department, the fallback
// target when no extension or department hint resolves.
func (d *Directory) Default(tenantID string) (*types.Department, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, dept := range d.departments[tenantID] {
		if dept.IsDefault && dept.Active {
			cp := *dept
			return &cp, nil
		}
	}
	return nil, ErrNoDefaultDepartment
}

// ListByTenant returns copies of all active departments for a tenant
func (d *Directory) ListByTenant(tenantID string) []types.Department {
	d.mu.RLock()
	defer d.mu.RUnlock()

	depts := make([]types.Department, 0, len(d.departments[tenantID]))
	for _, dept := range d.departments[tenantID] {
		if dept.Active {
			depts = append(depts, *dept)
		}
	}
	return depts
}
