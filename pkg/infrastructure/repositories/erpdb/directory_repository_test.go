package erpdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmployeeStatus(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create([]EmpBasic{
		{EmpID: "100", Name: "Pat Mason", EmpStatus: "A"},
		{EmpID: "205", Name: "Lee Ortiz", EmpStatus: "T"},
	}).Error)
	repo := NewDirectoryRepository(db)

	emp, err := repo.GetEmployee(context.Background(), "100")
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.Equal(t, "Pat Mason", emp.Name)
	assert.True(t, emp.Active)

	terminated, err := repo.GetEmployee(context.Background(), "205")
	require.NoError(t, err)
	require.NotNil(t, terminated)
	assert.False(t, terminated.Active)

	missing, err := repo.GetEmployee(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetResourceGroupForOpCodePicksFirstDetail(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create([]OpMasDtl{
		{OpCode: "WELD", DtlNum: 20, ResourceGrpID: "WLD-ALT"},
		{OpCode: "WELD", DtlNum: 10, ResourceGrpID: "WLD-GRP"},
	}).Error)
	repo := NewDirectoryRepository(db)

	grp, err := repo.GetResourceGroupForOpCode(context.Background(), "WELD")
	require.NoError(t, err)
	assert.Equal(t, "WLD-GRP", grp)

	unmapped, err := repo.GetResourceGroupForOpCode(context.Background(), "SAW")
	require.NoError(t, err)
	assert.Empty(t, unmapped)
}

func TestGetDepartmentForResourceGroup(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create([]ResourceGroup{
		{ResourceGrpID: "WLD-GRP", JCDept: "WELD-DEPT"},
	}).Error)
	repo := NewDirectoryRepository(db)

	dept, err := repo.GetDepartmentForResourceGroup(context.Background(), "WLD-GRP")
	require.NoError(t, err)
	assert.Equal(t, "WELD-DEPT", dept)

	unmapped, err := repo.GetDepartmentForResourceGroup(context.Background(), "SAW-GRP")
	require.NoError(t, err)
	assert.Empty(t, unmapped)
}
