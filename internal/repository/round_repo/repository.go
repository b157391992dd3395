package round_repo

import (
	"context"
	"errors"
	"time"

	"zoo_roulette/internal/model"
	"zoo_roulette/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "rounds"
	colID        = "id"
	colStatus    = "status"
	colStartTime = "start_time"
	colEndTime   = "end_time"
	colResult    = "result"
	colSettledAt = "settled_at"

	uniqueViolationCode = "23505"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewRoundRepository(dbc *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.RoundRepository {
	return &repo{
		dbc:    dbc,
		getter: getter,
	}
}

// CreateRound - создает открытый раунд. Частичный уникальный индекс по статусу
// допускает не больше одного открытого раунда, поэтому при гонке вставка
// падает с 23505 и мы возвращаем уже существующий раунд.
func (r *repo) CreateRound(ctx context.Context, start, end time.Time) (*model.Round, error) {
	query := sq.Insert(table).
		Columns(colStatus, colStartTime, colEndTime).
		Values(model.RoundStatusOpen, start, end).
		Suffix("RETURNING " + colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	round := &model.Round{
		Status:    model.RoundStatusOpen,
		StartTime: start,
		EndTime:   end,
	}
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&round.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			active, getErr := r.GetActiveRound(ctx)
			if getErr != nil {
				return nil, getErr
			}
			if active != nil {
				return active, nil
			}
		}
		return nil, err
	}

	return round, nil
}

// GetActiveRound - самый свежий открытый раунд. Отсутствие строк - не ошибка
func (r *repo) GetActiveRound(ctx context.Context) (*model.Round, error) {
	query := sq.Select(colID, colStatus, colStartTime, colEndTime, colResult, colSettledAt).
		From(table).
		Where(sq.Eq{colStatus: model.RoundStatusOpen}).
		OrderBy(colStartTime + " DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	round, err := r.scanRound(r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return round, nil
}

func (r *repo) GetRoundByID(ctx context.Context, id int64) (*model.Round, error) {
	query := sq.Select(colID, colStatus, colStartTime, colEndTime, colResult, colSettledAt).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	round, err := r.scanRound(r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return round, nil
}

// CloseRound - точка сериализации расчета: условие по статусу гарантирует,
// что из конкурентных вызовов строку обновит ровно один
func (r *repo) CloseRound(ctx context.Context, id int64, result string, settledAt time.Time) (bool, error) {
	query := sq.Update(table).
		Set(colStatus, model.RoundStatusSettled).
		Set(colResult, result).
		Set(colSettledAt, settledAt).
		Where(sq.Eq{colID: id, colStatus: model.RoundStatusOpen}).
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

func (r *repo) ListExpiredRounds(ctx context.Context, now time.Time) ([]model.Round, error) {
	query := sq.Select(colID, colStatus, colStartTime, colEndTime, colResult, colSettledAt).
		From(table).
		Where(sq.Eq{colStatus: model.RoundStatusOpen}).
		Where(sq.Lt{colEndTime: now}).
		OrderBy(colEndTime + " ASC").
		PlaceholderFormat(sq.Dollar)

	return r.queryRounds(ctx, query)
}

// ListRecentRounds - рассчитанные раунды, самые свежие первыми
func (r *repo) ListRecentRounds(ctx context.Context, limit, offset int) ([]model.Round, error) {
	query := sq.Select(colID, colStatus, colStartTime, colEndTime, colResult, colSettledAt).
		From(table).
		Where(sq.Eq{colStatus: model.RoundStatusSettled}).
		OrderBy(colSettledAt + " DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar)

	return r.queryRounds(ctx, query)
}

func (r *repo) queryRounds(ctx context.Context, query sq.SelectBuilder) ([]model.Round, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		round, err := r.scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *round)
	}

	return rounds, rows.Err()
}

func (r *repo) scanRound(row pgx.Row) (*model.Round, error) {
	var round model.Round
	err := row.Scan(
		&round.ID,
		&round.Status,
		&round.StartTime,
		&round.EndTime,
		&round.Result,
		&round.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}
