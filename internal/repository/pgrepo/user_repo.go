package pgrepo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/repository/repoargs"
	"github.com/fsdevblog/tradesim/pkg/uow"
)

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

const userColumns = "id, created_at, updated_at, username, encrypted_password, cash"

// CreateUser создает юзера. При конфликте юзернейма возвращает ошибку
// domain.ErrDuplicateKey, во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (username, encrypted_password, cash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		args.Username, args.Password, args.Cash,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return user, nil
}

// FindUserByUsername ищет юзера по юзернейму. Возвращает domain.ErrRecordNotFound
// если запись не найдена.
func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return user, nil
}

func (u *UserRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

// UpdateCash выставляет новый остаток наличных. Вызывается только изнутри
// транзакции торгового движка, парой к вставке лота.
func (u *UserRepository) UpdateCash(ctx context.Context, userID int64, cash decimal.Decimal) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		UPDATE users SET cash = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+userColumns,
		cash, userID,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "updating cash for user %d", userID)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Username,
		&user.EncryptedPassword,
		&user.Cash,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
