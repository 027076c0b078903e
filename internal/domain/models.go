package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Username          string
	EncryptedPassword string
	Cash              decimal.Decimal
}

// Lot одна подписанная запись журнала сделок: положительное кол-во акций -
// покупка, отрицательное - продажа. Записи неизменяемы, коррекции вносятся
// только новыми записями.
type Lot struct {
	ID        int64
	CreatedAt time.Time
	UserID    int64
	Symbol    string
	Name      string
	Shares    int64
	Price     decimal.Decimal
}

// Position производное состояние по символу: сумма Lot.Shares. В выдачу
// агрегатора попадают только позиции с положительным остатком.
type Position struct {
	Symbol string
	Shares int64
}

// Quote котировка от провайдера рыночных данных.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}
