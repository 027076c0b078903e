package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	// ErrUnknownSymbol - символ неизвестен провайдеру котировок. Не путать с
	// недоступностью самого провайдера: это инфраструктурная ошибка и до
	// доменного слоя она доходит как есть.
	ErrUnknownSymbol = errors.New("unknown stock symbol")

	ErrNotEnoughCash   = errors.New("not enough cash")
	ErrNotEnoughShares = errors.New("not enough shares")
	// ErrInvalidShares количество акций в сделке должно быть положительным целым.
	ErrInvalidShares = errors.New("invalid share count")
	// ErrNoPosition возвращается при продаже символа, по которому у юзера нет
	// открытой позиции.
	ErrNoPosition = errors.New("no open position")
)
