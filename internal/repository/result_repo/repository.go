package result_repo

import (
	"context"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "wager_results"
	colID        = "id"
	colWagerID   = "wager_id"
	colRoundID   = "round_id"
	colUserID    = "user_id"
	colResult    = "result"
	colPayout    = "payout"
	colCreatedAt = "created_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewResultRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.ResultRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// CreateResult - записывает результат расчета ставки. Уникальный индекс по
// wager_id не дает рассчитать одну ставку дважды, повторная вставка - no-op.
func (r *repo) CreateResult(ctx context.Context, result *model.WagerResult) error {
	query := sq.Insert(table).
		Columns(colWagerID, colRoundID, colUserID, colResult, colPayout, colCreatedAt).
		Values(result.WagerID, result.RoundID, result.UserID, result.Result, result.Payout, result.CreatedAt).
		Suffix("ON CONFLICT (" + colWagerID + ") DO NOTHING").
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

func (r *repo) GetUserResultsForRounds(ctx context.Context, userID int, roundIDs []int64) ([]model.WagerResult, error) {
	if len(roundIDs) == 0 {
		return nil, nil
	}

	query := sq.Select(colID, colWagerID, colRoundID, colUserID, colResult, colPayout, colCreatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID, colRoundID: roundIDs}).
		OrderBy(colID + " ASC").
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

	var results []model.WagerResult
	for rows.Next() {
		var res model.WagerResult
		err = rows.Scan(&res.ID, &res.WagerID, &res.RoundID, &res.UserID, &res.Result, &res.Payout, &res.CreatedAt)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	return results, rows.Err()
}
