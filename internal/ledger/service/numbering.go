package service

import (
	"gorm.io/gorm"

	"github.com/smallbiznis/faktura/internal/ledger/domain"
)

// nextBillNumber assigns the numbering id for a bill in the given year: the
// count of bills already recorded for that year. Ids therefore run 0, 1, 2,
// ... per year and restart for every new year.
//
// This is a count, not max+1. The scheme assumes bills are append-only: a
// deleted bill would let the next count collide with a surviving id. There
// is no bill deletion operation, and the counting rule must not be changed,
// since it generates the numbers printed on issued invoices.
func nextBillNumber(tx *gorm.DB, year int) (int64, error) {
	var n int64
	err := tx.Model(&domain.Bill{}).Where("year = ?", year).Count(&n).Error
	return n, err
}
