package pgrepo

import (
	"context"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/repository/repoargs"
	"github.com/fsdevblog/tradesim/pkg/uow"
)

// LotRepository работает с журналом сделок. Журнал append-only: методов
// изменения или удаления записей здесь нет намеренно.
type LotRepository struct {
	conn uow.DBTX
}

func NewLotRepository(conn uow.DBTX) *LotRepository {
	return &LotRepository{conn: conn}
}

const lotColumns = "id, created_at, user_id, symbol, name, shares, price"

func (l *LotRepository) Create(ctx context.Context, args repoargs.CreateLot) (*domain.Lot, error) {
	row := l.conn.QueryRow(ctx, `
		INSERT INTO lots (user_id, symbol, name, shares, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+lotColumns,
		args.UserID, args.Symbol, args.Name, args.Shares, args.Price,
	)

	var lot domain.Lot
	err := row.Scan(&lot.ID, &lot.CreatedAt, &lot.UserID, &lot.Symbol, &lot.Name, &lot.Shares, &lot.Price)
	if err != nil {
		return nil, convertErr(err, "creating lot for user %d symbol %s", args.UserID, args.Symbol)
	}
	return &lot, nil
}

// SumSharesBySymbol возвращает открытые позиции юзера: сумму подписанных
// лотов по каждому символу, отфильтрованную до строго положительных остатков.
func (l *LotRepository) SumSharesBySymbol(ctx context.Context, userID int64) ([]domain.Position, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT symbol, SUM(shares)::bigint AS shares
		FROM lots
		WHERE user_id = $1
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "summing shares for user %d", userID)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		if scanErr := rows.Scan(&p.Symbol, &p.Shares); scanErr != nil {
			return nil, convertErr(scanErr, "scanning position for user %d", userID)
		}
		positions = append(positions, p)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "summing shares for user %d", userID)
	}
	return positions, nil
}

// GetByUserID возвращает все записи журнала юзера от новых к старым, без
// какой-либо фильтрации - сырой журнал для аудита.
func (l *LotRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Lot, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT `+lotColumns+`
		FROM lots
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, convertErr(err, "getting lots for user %d", userID)
	}
	defer rows.Close()

	var lots []domain.Lot
	for rows.Next() {
		var lot domain.Lot
		scanErr := rows.Scan(&lot.ID, &lot.CreatedAt, &lot.UserID, &lot.Symbol, &lot.Name, &lot.Shares, &lot.Price)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning lot for user %d", userID)
		}
		lots = append(lots, lot)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting lots for user %d", userID)
	}
	return lots, nil
}

// HeldSymbols возвращает список символов, по которым хоть у кого-то открыта
// позиция. Используется прогревом кэша котировок.
func (l *LotRepository) HeldSymbols(ctx context.Context) ([]string, error) {
	rows, err := l.conn.Query(ctx, `
		SELECT symbol
		FROM lots
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol`,
	)
	if err != nil {
		return nil, convertErr(err, "getting held symbols")
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if scanErr := rows.Scan(&s); scanErr != nil {
			return nil, convertErr(scanErr, "scanning held symbol")
		}
		symbols = append(symbols, s)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting held symbols")
	}
	return symbols, nil
}
