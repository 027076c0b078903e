package repoargs

import "github.com/shopspring/decimal"

// CreateLot аргументы вставки записи журнала. Shares подписанное значение:
// для продажи вызывающая сторона передает отрицательное число.
type CreateLot struct {
	UserID int64
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
}
