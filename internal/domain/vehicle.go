package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is a denormalized snapshot of one catalog entry visible to a
// configuration. Refreshed by an external sync process.
type Vehicle struct {
	ID              int64
	ConfigurationID int64
	Make            string
	Model           string
	Year            int
	Price           decimal.Decimal
	Currency        string
	Specs           string
	Available       bool
	SyncedAt        time.Time
}
