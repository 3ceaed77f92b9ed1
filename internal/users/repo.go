package users

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	KycStatus string    `json:"kyc_status"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateInput struct {
	Name      *string
	Phone     *string
	Role      *string
	KycStatus *string
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const userColumns = `id::text, name, email, phone, role, kyc_status, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.KycStatus, &u.CreatedAt)
	return u, err
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, userID string) (User, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1::uuid`, userID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *Repository) Update(ctx context.Context, userID string, in UpdateInput) (User, error) {
	sets := []string{}
	args := []any{userID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Phone != nil {
		add("phone", *in.Phone)
	}
	if in.Role != nil {
		add("role", *in.Role)
	}
	if in.KycStatus != nil {
		add("kyc_status", *in.KycStatus)
	}
	if len(sets) == 0 {
		return r.Get(ctx, userID)
	}

	row := r.Pool.QueryRow(ctx, `
UPDATE users SET `+strings.Join(sets, ", ")+`
WHERE id = $1::uuid
RETURNING `+userColumns, args...)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	Users        int64 `json:"users"`
	Accounts     int64 `json:"accounts"`
	Transactions int64 `json:"transactions"`
	Bills        int64 `json:"bills"`
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.Pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM users),
	(SELECT COUNT(*) FROM accounts),
	(SELECT COUNT(*) FROM transactions),
	(SELECT COUNT(*) FROM bills)
`).Scan(&s.Users, &s.Accounts, &s.Transactions, &s.Bills)
	return s, err
}
