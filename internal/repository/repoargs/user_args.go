package repoargs

import "github.com/shopspring/decimal"

type CreateUser struct {
	Username string
	Password string
	Cash     decimal.Decimal
}
