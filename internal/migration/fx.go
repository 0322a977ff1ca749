package migration

import (
	auditdomain "github.com/geliahq/gelia/internal/audit/domain"
	"github.com/geliahq/gelia/internal/config"
	"github.com/geliahq/gelia/internal/erp/finance"
	"github.com/geliahq/gelia/internal/erp/hr"
	"github.com/geliahq/gelia/internal/erp/navigation"
	"github.com/geliahq/gelia/internal/erp/sales"
	"github.com/geliahq/gelia/internal/erp/supplychain"
	identitydomain "github.com/geliahq/gelia/internal/identity/domain"
	"github.com/geliahq/gelia/internal/insight"
	"github.com/geliahq/gelia/internal/reference"
	"github.com/geliahq/gelia/internal/seed"
	tenantdomain "github.com/geliahq/gelia/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are development conveniences; gorm's
			// auto-migration keeps them in step without SQL files.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&identitydomain.User{},
				&finance.Account{},
				&finance.Transaction{},
				&hr.Employee{},
				&sales.Customer{},
				&sales.Opportunity{},
				&supplychain.Product{},
				&supplychain.Supplier{},
				&navigation.Item{},
				&reference.GlobalResource{},
				&insight.Insight{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemo {
			return seed.EnsureDemo(conn)
		}
		return nil
	}),
)
