package memory

import (
	"context"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
)

// DirectoryRepository holds employee and resource master data
type DirectoryRepository struct {
	employees  map[string]*entities.Employee
	opCodeGrps map[string]string
	grpDepts   map[string]string
}

// NewDirectoryRepository creates an empty directory
func NewDirectoryRepository() *DirectoryRepository {
	return &DirectoryRepository{
		employees:  make(map[string]*entities.Employee),
		opCodeGrps: make(map[string]string),
		grpDepts:   make(map[string]string),
	}
}

// Verify interface compliance
var _ repositories.EmployeeRepository = (*DirectoryRepository)(nil)
var _ repositories.ResourceRepository = (*DirectoryRepository)(nil)

// AddEmployee adds an employee record
func (r *DirectoryRepository) AddEmployee(emp entities.Employee) {
	r.employees[emp.ID] = &emp
}

// MapOpCodeResource maps an op code to its primary resource group
func (r *DirectoryRepository) MapOpCodeResource(opCode, resourceGrpID string) {
	r.opCodeGrps[opCode] = resourceGrpID
}

// MapResourceDepartment maps a resource group to its department
func (r *DirectoryRepository) MapResourceDepartment(resourceGrpID, dept string) {
	r.grpDepts[resourceGrpID] = dept
}

// GetEmployee returns an employee record, or nil when absent
func (r *DirectoryRepository) GetEmployee(ctx context.Context, id string) (*entities.Employee, error) {
	return r.employees[id], nil
}

// GetResourceGroupForOpCode returns the resource group for an op code, or
// an empty string when the op code has none
func (r *DirectoryRepository) GetResourceGroupForOpCode(ctx context.Context, opCode string) (string, error) {
	return r.opCodeGrps[opCode], nil
}

// GetDepartmentForResourceGroup returns the department for a resource
// group, or an empty string when unmapped
func (r *DirectoryRepository) GetDepartmentForResourceGroup(ctx context.Context, resourceGrpID string) (string, error) {
	return r.grpDepts[resourceGrpID], nil
}
