package migration

import (
	"errors"

	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	"github.com/smallbiznis/kasira/internal/syncstate"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
	"gorm.io/gorm"
)

// RunMigrations creates the local mirror schema on startup so the device is
// usable out of the box, before the first successful pull.
func RunMigrations(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	return conn.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Product{},
		&catalogdomain.ProductIngredient{},
		&transactiondomain.Transaction{},
		&transactiondomain.TransactionItem{},
		&syncstate.SyncStatus{},
	)
}
