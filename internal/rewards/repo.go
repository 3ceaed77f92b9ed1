package rewards

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook-backend/internal/ledger"
)

var ErrUnknownUserIDs = errors.New("one or more user ids do not exist")

type Repository struct {
	Pool   *pgxpool.Pool
	Booker *ledger.Booker
	Log    zerolog.Logger
}

func NewRepository(pool *pgxpool.Pool, booker *ledger.Booker, log zerolog.Logger) *Repository {
	return &Repository{Pool: pool, Booker: booker, Log: log}
}

const rewardColumns = `id::text, user_id::text, program_name, points_balance, group_id, last_updated`

func scanReward(row pgx.Row) (Reward, error) {
	var r Reward
	err := row.Scan(&r.ID, &r.UserID, &r.ProgramName, &r.PointsBalance, &r.GroupID, &r.LastUpdated)
	return r, err
}

// Create inserts the reward and, when an account id is supplied, credits
// that account through the ledger engine. The credit is best effort: a
// failure never unwinds the created reward.
func (r *Repository) Create(ctx context.Context, userID string, in CreateInput) (Reward, error) {
	row := r.Pool.QueryRow(ctx, `
INSERT INTO rewards (user_id, program_name, points_balance)
VALUES ($1::uuid, $2, $3)
RETURNING `+rewardColumns, userID, in.ProgramName, in.PointsBalance)
	reward, err := scanReward(row)
	if err != nil {
		return Reward{}, err
	}

	if in.AccountID != nil && *in.AccountID != "" {
		if err := r.creditAccount(ctx, userID, *in.AccountID, reward); err != nil {
			r.Log.Warn().
				Err(err).
				Str("reward_id", reward.ID).
				Str("account_id", *in.AccountID).
				Msg("reward account credit failed")
		}
	}
	return reward, nil
}

func (r *Repository) creditAccount(ctx context.Context, userID, accountID string, reward Reward) error {
	var (
		ownerID  string
		currency string
	)
	err := r.Pool.QueryRow(ctx,
		`SELECT user_id::text, currency FROM accounts WHERE id = $1::uuid`,
		accountID,
	).Scan(&ownerID, &currency)
	if err != nil {
		return err
	}
	if ownerID != userID {
		return fmt.Errorf("account %s does not belong to user %s", accountID, userID)
	}

	_, err = r.Booker.Book(ctx, accountID, ledger.Intent{
		Description: fmt.Sprintf("Reward credit: %s", reward.ProgramName),
		Category:    "Rewards",
		Amount:      decimal.NewFromInt(reward.PointsBalance),
		Currency:    currency,
		TxnType:     ledger.TypeCredit,
		Merchant:    "Reward",
		TxnDate:     time.Now().UTC(),
	})
	return err
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Reward, error) {
	return r.list(ctx, `SELECT `+rewardColumns+` FROM rewards WHERE user_id = $1::uuid ORDER BY last_updated DESC`, userID)
}

func (r *Repository) ListAll(ctx context.Context) ([]Reward, error) {
	return r.list(ctx, `SELECT `+rewardColumns+` FROM rewards ORDER BY last_updated DESC`)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Reward, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reward, 0)
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, rewardID, userID string) (Reward, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+rewardColumns+` FROM rewards WHERE id = $1::uuid AND user_id = $2::uuid`,
		rewardID, userID)
	rw, err := scanReward(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reward{}, ErrRewardNotFound
	}
	return rw, err
}

func (r *Repository) Update(ctx context.Context, rewardID, userID string, in UpdateInput) (Reward, error) {
	rw, err := r.Get(ctx, rewardID, userID)
	if err != nil {
		return Reward{}, err
	}
	if in.ProgramName != nil {
		rw.ProgramName = *in.ProgramName
	}
	if in.PointsBalance != nil {
		rw.PointsBalance = *in.PointsBalance
	}

	row := r.Pool.QueryRow(ctx, `
UPDATE rewards SET program_name = $2, points_balance = $3, last_updated = NOW()
WHERE id = $1::uuid
RETURNING `+rewardColumns, rw.ID, rw.ProgramName, rw.PointsBalance)
	return scanReward(row)
}

func (r *Repository) Delete(ctx context.Context, rewardID, userID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM rewards WHERE id = $1::uuid AND user_id = $2::uuid`,
		rewardID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRewardNotFound
	}
	return nil
}

// BulkAssign creates one reward per user id, all sharing the group id of
// the first inserted row. One bad insert does not abort the rest; the
// summary reports how many landed.
func (r *Repository) BulkAssign(ctx context.Context, in BulkAssignInput) (BulkAssignSummary, error) {
	if err := r.validateUserIDs(ctx, in.UserIDs); err != nil {
		return BulkAssignSummary{}, err
	}

	var (
		summary BulkAssignSummary
		groupID *string
	)
	for _, uid := range in.UserIDs {
		var id string
		err := r.Pool.QueryRow(ctx, `
INSERT INTO rewards (user_id, program_name, points_balance, group_id)
VALUES ($1::uuid, $2, $3, $4)
RETURNING id::text
`, uid, in.ProgramName, in.PointsBalance, groupID).Scan(&id)
		if err != nil {
			summary.Failed++
			r.Log.Warn().Err(err).Str("user_id", uid).Msg("bulk reward insert failed")
			continue
		}
		summary.Success++
		if groupID == nil {
			// first row anchors the group; tag it with its own id
			groupID = &id
			if _, err := r.Pool.Exec(ctx,
				`UPDATE rewards SET group_id = $1 WHERE id = $2::uuid`, id, id,
			); err != nil {
				r.Log.Warn().Err(err).Str("reward_id", id).Msg("could not tag group anchor")
			}
		}
	}
	return summary, nil
}

func (r *Repository) validateUserIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: empty list", ErrUnknownUserIDs)
	}
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE id = ANY($1::uuid[])`, ids,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count != len(ids) {
		return ErrUnknownUserIDs
	}
	return nil
}
