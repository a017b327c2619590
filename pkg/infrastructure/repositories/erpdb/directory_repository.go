package erpdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
)

// DirectoryRepository reads employee and resource master data from the
// ERP database replica
type DirectoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a database-backed directory repository
func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// Verify interface compliance
var _ repositories.EmployeeRepository = (*DirectoryRepository)(nil)
var _ repositories.ResourceRepository = (*DirectoryRepository)(nil)

// GetEmployee returns an employee record, or nil when absent
func (r *DirectoryRepository) GetEmployee(ctx context.Context, id string) (*entities.Employee, error) {
	var row EmpBasic
	err := r.db.WithContext(ctx).Where("EmpID = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entities.Employee{
		ID:     row.EmpID,
		Name:   row.Name,
		Active: row.EmpStatus == "A",
	}, nil
}

// GetResourceGroupForOpCode returns the primary resource group from the
// operation master, or an empty string when the op code has none
func (r *DirectoryRepository) GetResourceGroupForOpCode(ctx context.Context, opCode string) (string, error) {
	var row OpMasDtl
	err := r.db.WithContext(ctx).
		Where("OpCode = ?", opCode).
		Order("DtlNum").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.ResourceGrpID, nil
}

// GetDepartmentForResourceGroup returns the resource group's department,
// or an empty string when unmapped
func (r *DirectoryRepository) GetDepartmentForResourceGroup(ctx context.Context, resourceGrpID string) (string, error) {
	var row ResourceGroup
	err := r.db.WithContext(ctx).Where("ResourceGrpID = ?", resourceGrpID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.JCDept, nil
}
