package user_repo

import (
	"context"
	"errors"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "users"
	colID           = "id"
	colLogin        = "login"
	colPasswordHash = "password_hash"
	colBalance      = "balance"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewUserRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.UserRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// CreateUser - создает нового пользователя в БД.
// Возвращает ID созданного пользователя
func (r *repo) CreateUser(ctx context.Context, user *model.User) (int, error) {
	query := sq.Insert(table).
		Columns(colLogin, colPasswordHash, colBalance).
		Values(user.Login, user.Password, int64(user.Balance)).
		Suffix("RETURNING " + colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetUserByLogin - возвращает модель пользователя по его логину, nil если нет
func (r *repo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	query := sq.Select(colID, colLogin, colPasswordHash, colBalance).
		From(table).
		Where(sq.Eq{colLogin: login}).
		PlaceholderFormat(sq.Dollar)

	return r.queryUser(ctx, query)
}

func (r *repo) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	query := sq.Select(colID, colLogin, colPasswordHash, colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	return r.queryUser(ctx, query)
}

func (r *repo) GetBalance(ctx context.Context, id int) (int, error) {
	query := sq.Select(colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return int(balance), nil
}

// AddBalance - атомарный инкремент, значение считает БД, а не клиент
func (r *repo) AddBalance(ctx context.Context, id int, amount int) error {
	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?", amount)).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// DebitBalance - атомарное списание. Условие balance >= amount не дает
// балансу уйти в минус при конкурентных списаниях.
func (r *repo) DebitBalance(ctx context.Context, id int, amount int) (bool, error) {
	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" - ?", amount)).
		Where(sq.Eq{colID: id}).
		Where(sq.GtOrEq{colBalance: amount}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() == 1, nil
}

func (r *repo) GetUsernames(ctx context.Context, ids []int) (map[int]string, error) {
	if len(ids) == 0 {
		return map[int]string{}, nil
	}

	query := sq.Select(colID, colLogin).
		From(table).
		Where(sq.Eq{colID: ids}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string, len(ids))
	for rows.Next() {
		var id int
		var name string
		if err = rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	return names, rows.Err()
}

func (r *repo) GetTopUsers(ctx context.Context, limit int) ([]model.User, error) {
	query := sq.Select(colID, colLogin, colBalance).
		From(table).
		OrderBy(colBalance + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		var balance int64
		if err = rows.Scan(&user.ID, &user.Login, &balance); err != nil {
			return nil, err
		}
		user.Balance = int(balance)
		users = append(users, user)
	}

	return users, rows.Err()
}

// GetUserRank - позиция пользователя в таблице лидеров (1 - самый богатый)
func (r *repo) GetUserRank(ctx context.Context, id int) (int, int, error) {
	tr := r.getter.DefaultTrOrDB(ctx, r.dbc)

	rankSQL := "SELECT COUNT(*) + 1 FROM " + table +
		" WHERE " + colBalance + " > (SELECT " + colBalance + " FROM " + table + " WHERE " + colID + " = $1)"

	var rank int
	err := tr.QueryRow(ctx, rankSQL, id).Scan(&rank)
	if err != nil {
		return 0, 0, err
	}

	var total int
	err = tr.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&total)
	if err != nil {
		return 0, 0, err
	}

	return rank, total, nil
}

func (r *repo) queryUser(ctx context.Context, query sq.SelectBuilder) (*model.User, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&user.ID, &user.Login, &user.Password, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	user.Balance = int(balance)
	return &user, nil
}
