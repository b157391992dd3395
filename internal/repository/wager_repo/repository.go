package wager_repo

import (
	"context"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "wagers"
	colID        = "id"
	colRoundID   = "round_id"
	colUserID    = "user_id"
	colOutcome   = "outcome"
	colAmount    = "amount"
	colCreatedAt = "created_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewWagerRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.WagerRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// CreateWager - вставляет ставку, возвращает ID
func (r *repo) CreateWager(ctx context.Context, wager *model.Wager) (int64, error) {
	query := sq.Insert(table).
		Columns(colRoundID, colUserID, colOutcome, colAmount, colCreatedAt).
		Values(wager.RoundID, wager.UserID, wager.Outcome, wager.Amount, wager.CreatedAt).
		Suffix("RETURNING " + colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// CreateWagers - пакетная вставка при замене аллокации ставок
func (r *repo) CreateWagers(ctx context.Context, wagers []model.Wager) error {
	if len(wagers) == 0 {
		return nil
	}

	query := sq.Insert(table).
		Columns(colRoundID, colUserID, colOutcome, colAmount, colCreatedAt).
		PlaceholderFormat(sq.Dollar)

	for _, w := range wagers {
		query = query.Values(w.RoundID, w.UserID, w.Outcome, w.Amount, w.CreatedAt)
	}

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

// DeleteUserWagers - удаляет все ставки пользователя в раунде.
// Вызывается только внутри транзакции замены ставок.
func (r *repo) DeleteUserWagers(ctx context.Context, roundID int64, userID int) error {
	query := sq.Delete(table).
		Where(sq.Eq{colRoundID: roundID, colUserID: userID}).
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

func (r *repo) GetWagersByRound(ctx context.Context, roundID int64) ([]model.Wager, error) {
	query := sq.Select(colID, colRoundID, colUserID, colOutcome, colAmount, colCreatedAt).
		From(table).
		Where(sq.Eq{colRoundID: roundID}).
		OrderBy(colID + " ASC").
		PlaceholderFormat(sq.Dollar)

	return r.queryWagers(ctx, query)
}

func (r *repo) GetUserWagers(ctx context.Context, roundID int64, userID int) ([]model.Wager, error) {
	query := sq.Select(colID, colRoundID, colUserID, colOutcome, colAmount, colCreatedAt).
		From(table).
		Where(sq.Eq{colRoundID: roundID, colUserID: userID}).
		OrderBy(colID + " ASC").
		PlaceholderFormat(sq.Dollar)

	return r.queryWagers(ctx, query)
}

func (r *repo) GetUserWagersForRounds(ctx context.Context, userID int, roundIDs []int64) ([]model.Wager, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}

	query := sq.Select(colID, colRoundID, colUserID, colOutcome, colAmount, colCreatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID, colRoundID: roundIDs}).
		OrderBy(colID + " ASC").
		PlaceholderFormat(sq.Dollar)

	return r.queryWagers(ctx, query)
}

func (r *repo) queryWagers(ctx context.Context, query sq.SelectBuilder) ([]model.Wager, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wagers []model.Wager
	for rows.Next() {
		var w model.Wager
		err = rows.Scan(&w.ID, &w.RoundID, &w.UserID, &w.Outcome, &w.Amount, &w.CreatedAt)
		if err != nil {
			return nil, err
		}
		wagers = append(wagers, w)
	}

	return wagers, rows.Err()
}
