package hr

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/gateway"
	"github.com/geliahq/gelia/internal/tenantcontext"
	"github.com/geliahq/gelia/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *snowflake.Node) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Employee{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node}), node
}

func principalCtx(tenantID snowflake.ID) context.Context {
	return tenantcontext.WithPrincipal(context.Background(), tenantcontext.Principal{
		UserID:   snowflake.ID(17),
		TenantID: tenantID,
		Subject:  "people-ops",
		Role:     "user",
	})
}

func TestCreateEmployeeDefaults(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	employee, err := svc.Create(ctx, CreateEmployeeRequest{
		FirstName: " Ada ",
		LastName:  "Lovelace",
		Email:     "Ada@Example.COM",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", employee.FirstName)
	assert.Equal(t, "ada@example.com", employee.Email)
	assert.Equal(t, "active", employee.EmploymentStatus)
	assert.Equal(t, "USD", employee.Currency)
	assert.False(t, employee.HireDate.IsZero())
	assert.True(t, strings.HasPrefix(employee.EmployeeNumber, "EMP-"))
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	_, err := svc.Create(ctx, CreateEmployeeRequest{FirstName: "Ada"})
	assert.ErrorIs(t, err, ErrInvalidEmployee)

	_, err = svc.Create(ctx, CreateEmployeeRequest{LastName: "Lovelace"})
	assert.ErrorIs(t, err, ErrInvalidEmployee)
}

func TestUpdateEmployee(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	employee, err := svc.Create(ctx, CreateEmployeeRequest{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Department: "engineering",
		HireDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, employee.ID, map[string]any{
		"position": "principal engineer",
		"salary":   int64(185000),
	})
	require.NoError(t, err)
	assert.Equal(t, "principal engineer", updated.Position)
	assert.Equal(t, int64(185000), updated.Salary)
	assert.Equal(t, "engineering", updated.Department)
}

func TestUpdateAndDeleteForeignEmployee(t *testing.T) {
	svc, node := newTestService(t)
	owner := principalCtx(node.Generate())
	intruder := principalCtx(node.Generate())

	employee, err := svc.Create(owner, CreateEmployeeRequest{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	_, err = svc.Update(intruder, employee.ID, map[string]any{"salary": int64(1)})
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	err = svc.Delete(intruder, employee.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	// The owner still sees the record untouched.
	kept, err := svc.Get(owner, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.Salary, kept.Salary)

	require.NoError(t, svc.Delete(owner, employee.ID))
	_, err = svc.Get(owner, employee.ID)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestListEmployeesFilterByDepartment(t *testing.T) {
	svc, node := newTestService(t)
	ctx := principalCtx(node.Generate())

	_, err := svc.Create(ctx, CreateEmployeeRequest{FirstName: "Ada", LastName: "Lovelace", Department: "engineering"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateEmployeeRequest{FirstName: "Grace", LastName: "Hopper", Department: "engineering"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateEmployeeRequest{FirstName: "Jean", LastName: "Bartik", Department: "finance"})
	require.NoError(t, err)

	listed, err := svc.List(ctx, gateway.Query{Filters: map[string]any{"department": "engineering"}})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
