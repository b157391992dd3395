// Package testutil - in-memory реализации репозиториев и зависимостей
// для юнит-тестов сервисов.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"zoo_roulette/internal/config"
	"zoo_roulette/internal/model"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// TxManager - выполняет функцию без реальной транзакции
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Publisher - записывает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

type PublishedEvent struct {
	Type    string
	Payload interface{}
}

func (p *Publisher) Publish(_ context.Context, eventType string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, PublishedEvent{Type: eventType, Payload: payload})
	return nil
}

type gameConfig struct {
	outcomes         []model.Outcome
	regularCount     int
	roundDuration    time.Duration
	singleWagerGrace time.Duration
	batchWagerGrace  time.Duration
	tickInterval     time.Duration
}

// NewGameConfig - конфигурация с боевой таблицей исходов и короткими таймингами
func NewGameConfig() config.GameConfig {
	return &gameConfig{
		outcomes: []model.Outcome{
			{ID: "turtle", DisplayName: "Turtle", Weight: 19.4, Multiplier: 5},
			{ID: "hedgehog", DisplayName: "Hedgehog", Weight: 19.4, Multiplier: 5},
			{ID: "raccoon", DisplayName: "Raccoon", Weight: 19.4, Multiplier: 5},
			{ID: "elephant", DisplayName: "Elephant", Weight: 19.4, Multiplier: 5},
			{ID: "cat", DisplayName: "Cat", Weight: 9.7, Multiplier: 10},
			{ID: "fox", DisplayName: "Fox", Weight: 6.5, Multiplier: 15},
			{ID: "pig", DisplayName: "Pig", Weight: 3.9, Multiplier: 25},
			{ID: "lion", DisplayName: "Lion", Weight: 2.2, Multiplier: 45},
			{ID: "vegetarian_festival", DisplayName: "Vegetarian Festival", Weight: 0.05, Multiplier: 20, Special: true},
			{ID: "carnivorous_festival", DisplayName: "Carnivorous Festival", Weight: 0.05, Multiplier: 95, Special: true},
		},
		regularCount:     8,
		roundDuration:    30 * time.Second,
		singleWagerGrace: time.Second,
		batchWagerGrace:  3 * time.Second,
		tickInterval:     5 * time.Second,
	}
}

func (c *gameConfig) Outcomes() []model.Outcome        { return c.outcomes }
func (c *gameConfig) RegularOutcomes() []model.Outcome { return c.outcomes[:c.regularCount] }

func (c *gameConfig) OutcomeByID(id string) (model.Outcome, bool) {
	for _, o := range c.outcomes {
		if o.ID == id {
			return o, true
		}
	}
	return model.Outcome{}, false
}

func (c *gameConfig) RoundDuration() time.Duration    { return c.roundDuration }
func (c *gameConfig) SingleWagerGrace() time.Duration { return c.singleWagerGrace }
func (c *gameConfig) BatchWagerGrace() time.Duration  { return c.batchWagerGrace }
func (c *gameConfig) TickInterval() time.Duration     { return c.tickInterval }

// RoundRepo - потокобезопасное in-memory хранилище раундов
type RoundRepo struct {
	mu     sync.Mutex
	nextID int64
	rounds map[int64]*model.Round
}

func NewRoundRepo() *RoundRepo {
	return &RoundRepo{rounds: make(map[int64]*model.Round)}
}

func (r *RoundRepo) CreateRound(_ context.Context, start, end time.Time) (*model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Как и в БД, открытый раунд может быть только один
	for _, round := range r.rounds {
		if round.Status == model.RoundStatusOpen {
			copied := *round
			return &copied, nil
		}
	}

	r.nextID++
	round := &model.Round{
		ID:        r.nextID,
		Status:    model.RoundStatusOpen,
		StartTime: start,
		EndTime:   end,
	}
	r.rounds[round.ID] = round

	copied := *round
	return &copied, nil
}

func (r *RoundRepo) GetActiveRound(_ context.Context) (*model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var active *model.Round
	for _, round := range r.rounds {
		if round.Status != model.RoundStatusOpen {
			continue
		}
		if active == nil || round.ID > active.ID {
			active = round
		}
	}
	if active == nil {
		return nil, nil
	}

	copied := *active
	return &copied, nil
}

func (r *RoundRepo) GetRoundByID(_ context.Context, id int64) (*model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	round, ok := r.rounds[id]
	if !ok {
		return nil, nil
	}

	copied := *round
	return &copied, nil
}

func (r *RoundRepo) CloseRound(_ context.Context, id int64, result string, settledAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	round, ok := r.rounds[id]
	if !ok || round.Status != model.RoundStatusOpen {
		return false, nil
	}

	round.Status = model.RoundStatusSettled
	round.Result = &result
	round.SettledAt = &settledAt
	return true, nil
}

func (r *RoundRepo) ListExpiredRounds(_ context.Context, now time.Time) ([]model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []model.Round
	for _, round := range r.rounds {
		if round.Status == model.RoundStatusOpen && round.Expired(now) {
			res = append(res, *round)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *RoundRepo) ListRecentRounds(_ context.Context, limit, offset int) ([]model.Round, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var settled []model.Round
	for _, round := range r.rounds {
		if round.Status == model.RoundStatusSettled {
			settled = append(settled, *round)
		}
	}
	sort.Slice(settled, func(i, j int) bool { return settled[i].ID > settled[j].ID })

	if offset >= len(settled) {
		return nil, nil
	}
	settled = settled[offset:]
	if limit > 0 && len(settled) > limit {
		settled = settled[:limit]
	}
	return settled, nil
}

// AddRound - подготовка состояния в тестах
func (r *RoundRepo) AddRound(round model.Round) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if round.ID > r.nextID {
		r.nextID = round.ID
	}
	r.rounds[round.ID] = &round
}

// WagerRepo - in-memory хранилище ставок
type WagerRepo struct {
	mu     sync.Mutex
	nextID int64
	wagers []model.Wager
}

func NewWagerRepo() *WagerRepo {
	return &WagerRepo{}
}

func (r *WagerRepo) CreateWager(_ context.Context, wager *model.Wager) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *wager
	stored.ID = r.nextID
	r.wagers = append(r.wagers, stored)
	return stored.ID, nil
}

func (r *WagerRepo) CreateWagers(ctx context.Context, wagers []model.Wager) error {
	for i := range wagers {
		id, err := r.CreateWager(ctx, &wagers[i])
		if err != nil {
			return err
		}
		wagers[i].ID = id
	}
	return nil
}

func (r *WagerRepo) DeleteUserWagers(_ context.Context, roundID int64, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.wagers[:0]
	for _, w := range r.wagers {
		if w.RoundID == roundID && w.UserID == userID {
			continue
		}
		kept = append(kept, w)
	}
	r.wagers = kept
	return nil
}

func (r *WagerRepo) GetWagersByRound(_ context.Context, roundID int64) ([]model.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []model.Wager
	for _, w := range r.wagers {
		if w.RoundID == roundID {
			res = append(res, w)
		}
	}
	return res, nil
}

func (r *WagerRepo) GetUserWagers(_ context.Context, roundID int64, userID int) ([]model.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []model.Wager
	for _, w := range r.wagers {
		if w.RoundID == roundID && w.UserID == userID {
			res = append(res, w)
		}
	}
	return res, nil
}

func (r *WagerRepo) GetUserWagersForRounds(_ context.Context, userID int, roundIDs []int64) ([]model.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{}, len(roundIDs))
	for _, id := range roundIDs {
		ids[id] = struct{}{}
	}

	var res []model.Wager
	for _, w := range r.wagers {
		if w.UserID != userID {
			continue
		}
		if _, ok := ids[w.RoundID]; ok {
			res = append(res, w)
		}
	}
	return res, nil
}

// ResultRepo - in-memory записи о расчетах ставок. FailForWager позволяет
// смоделировать падение расчета конкретной ставки.
type ResultRepo struct {
	mu           sync.Mutex
	nextID       int64
	results      map[int64]model.WagerResult // По wager_id, не более одной записи
	FailForWager int64
	FailErr      error
}

func NewResultRepo() *ResultRepo {
	return &ResultRepo{results: make(map[int64]model.WagerResult)}
}

func (r *ResultRepo) CreateResult(_ context.Context, result *model.WagerResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailForWager != 0 && result.WagerID == r.FailForWager {
		return r.FailErr
	}

	// Как ON CONFLICT DO NOTHING: повторный расчет ставки не создает дубликат
	if _, ok := r.results[result.WagerID]; ok {
		return nil
	}

	r.nextID++
	stored := *result
	stored.ID = r.nextID
	r.results[result.WagerID] = stored
	return nil
}

func (r *ResultRepo) GetUserResultsForRounds(_ context.Context, userID int, roundIDs []int64) ([]model.WagerResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[int64]struct{}, len(roundIDs))
	for _, id := range roundIDs {
		ids[id] = struct{}{}
	}

	var res []model.WagerResult
	for _, result := range r.results {
		if result.UserID != userID {
			continue
		}
		if _, ok := ids[result.RoundID]; ok {
			res = append(res, result)
		}
	}
	return res, nil
}

// Results - все записи о расчетах для проверок в тестах
func (r *ResultRepo) Results() []model.WagerResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]model.WagerResult, 0, len(r.results))
	for _, result := range r.results {
		res = append(res, result)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].WagerID < res[j].WagerID })
	return res
}

// UserRepo - in-memory пользователи с атомарными операциями над балансом
type UserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[int]*model.User)}
}

// AddUser - подготовка состояния в тестах, возвращает ID
func (r *UserRepo) AddUser(login string, balance int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.users[r.nextID] = &model.User{
		ID:      r.nextID,
		Login:   login,
		Balance: balance,
	}
	return r.nextID
}

func (r *UserRepo) CreateUser(_ context.Context, user *model.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *UserRepo) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Login == login {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetUserByID(_ context.Context, id int) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}

	copied := *u
	return &copied, nil
}

func (r *UserRepo) GetBalance(_ context.Context, id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	return u.Balance, nil
}

func (r *UserRepo) AddBalance(_ context.Context, id int, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		u.Balance += amount
	}
	return nil
}

func (r *UserRepo) DebitBalance(_ context.Context, id int, amount int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Balance < amount {
		return false, nil
	}

	u.Balance -= amount
	return true, nil
}

func (r *UserRepo) GetUsernames(_ context.Context, ids []int) (map[int]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make(map[int]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			res[id] = u.Login
		}
	}
	return res, nil
}

func (r *UserRepo) GetTopUsers(_ context.Context, limit int) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, *u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Balance > res[j].Balance })

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *UserRepo) GetUserRank(_ context.Context, id int) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, len(r.users), nil
	}

	rank := 1
	for _, other := range r.users {
		if other.Balance > u.Balance {
			rank++
		}
	}
	return rank, len(r.users), nil
}

// AuthRepo - in-memory сессии
type AuthRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	users    *UserRepo
}

func NewAuthRepo(users *UserRepo) *AuthRepo {
	return &AuthRepo{
		sessions: make(map[string]*model.Session),
		users:    users,
	}
}

func (r *AuthRepo) CreateSession(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *AuthRepo) GetRefreshTokenBySessionID(_ context.Context, sessionID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return "", nil
	}
	return s.RefreshToken, nil
}

func (r *AuthRepo) GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	r.mu.Unlock()

	if !ok {
		return nil, nil
	}
	return r.users.GetUserByID(ctx, s.UserID)
}

func (r *AuthRepo) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}
