// Package seed bootstraps a demo tenant for local and self-hosted
// environments so the API is usable out of the box.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/geliahq/gelia/internal/auth/password"
	"github.com/geliahq/gelia/internal/erp/finance"
	"github.com/geliahq/gelia/internal/erp/navigation"
	identitydomain "github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/reference"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"gorm.io/gorm"
)

const (
	demoTenantName    = "Demo Company"
	demoTenantSub     = "demo"
	demoAdminEmail    = "admin@demo.gelia.dev"
	demoAdminPassword = "demo-admin"
	demoUserEmail     = "user@demo.gelia.dev"
	demoUserPassword  = "demo-user"
)

// EnsureDemo seeds the demo tenant, its admin and regular users, a
// starter chart of accounts, default navigation, and shared reference
// rows. Safe to run on every startup.
func EnsureDemo(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := ensureDemoTenant(ctx, tx, node)
		if err != nil {
			return err
		}
		if err := ensureUser(ctx, tx, node, tenant.ID, demoAdminEmail, demoAdminPassword, "admin"); err != nil {
			return err
		}
		if err := ensureUser(ctx, tx, node, tenant.ID, demoUserEmail, demoUserPassword, "user"); err != nil {
			return err
		}
		if err := ensureChartOfAccounts(ctx, tx, node, tenant.ID); err != nil {
			return err
		}
		if err := ensureNavigation(ctx, tx, node, tenant.ID); err != nil {
			return err
		}
		return ensureGlobalResources(ctx, tx, node)
	})
}

func ensureDemoTenant(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (tenantdomain.Tenant, error) {
	var tenant tenantdomain.Tenant
	err := tx.WithContext(ctx).Where("subdomain = ?", demoTenantSub).First(&tenant).Error
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return tenant, err
	}
	now := time.Now().UTC()
	tenant = tenantdomain.Tenant{
		ID:        node.Generate(),
		Name:      demoTenantName,
		Subdomain: demoTenantSub,
		Plan:      "professional",
		MaxUsers:  25,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&tenant).Error; err != nil {
		return tenant, err
	}
	return tenant, nil
}

func ensureUser(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID, email, plain, role string) error {
	email = strings.ToLower(email)

	var user identitydomain.User
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	user = identitydomain.User{
		ID:           node.Generate(),
		TenantID:     tenantID,
		Email:        email,
		Username:     strings.SplitN(email, "@", 2)[0],
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return tx.WithContext(ctx).Create(&user).Error
}

func ensureChartOfAccounts(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&finance.Account{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type entry struct {
		Code string
		Name string
		Type string
	}
	accounts := []entry{
		{"1000", "Cash", "asset"},
		{"1100", "Accounts Receivable", "asset"},
		{"1200", "Inventory", "asset"},
		{"2000", "Accounts Payable", "liability"},
		{"3000", "Owner Equity", "equity"},
		{"4000", "Sales Revenue", "revenue"},
		{"5000", "Cost of Goods Sold", "expense"},
		{"6000", "Operating Expenses", "expense"},
	}
	now := time.Now().UTC()
	for _, a := range accounts {
		account := finance.Account{
			ID:          node.Generate(),
			TenantID:    tenantID,
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.Type,
			IsActive:    true,
			CreatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureNavigation(ctx context.Context, tx *gorm.DB, node *snowflake.Node, tenantID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&navigation.Item{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type entry struct {
		Name string
		Href string
		Icon string
	}
	items := []entry{
		{"Dashboard", "/dashboard", "home"},
		{"Financials", "/financial", "banknotes"},
		{"Human Resources", "/hr", "users"},
		{"Sales", "/sales", "chart-bar"},
		{"Supply Chain", "/supply-chain", "truck"},
		{"AI Insights", "/insights", "sparkles"},
	}
	now := time.Now().UTC()
	for i, it := range items {
		item := navigation.Item{
			ID:           node.Generate(),
			TenantID:     tenantID,
			Name:         it.Name,
			Href:         it.Href,
			Icon:         it.Icon,
			Visible:      true,
			DisplayOrder: i,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureGlobalResources(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&reference.GlobalResource{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type entry struct {
		Type  string
		Name  string
		Price int64
		Unit  string
	}
	resources := []entry{
		{"commodity", "Crude Oil (Brent)", 8250, "barrel"},
		{"commodity", "Copper", 945, "kg"},
		{"currency", "EUR/USD Reference Rate", 108, "rate_x100"},
	}
	now := time.Now().UTC()
	for _, r := range resources {
		resource := reference.GlobalResource{
			ID:                 node.Generate(),
			ResourceType:       r.Type,
			ResourceName:       r.Name,
			CurrentPrice:       r.Price,
			Currency:           "USD",
			UnitOfMeasure:      r.Unit,
			AvailabilityStatus: "available",
			LastUpdated:        now,
			CreatedAt:          now,
		}
		if err := tx.WithContext(ctx).Create(&resource).Error; err != nil {
			return err
		}
	}
	return nil
}
