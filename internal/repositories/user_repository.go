package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"electric-backend/internal/errs"
	"electric-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, username, password_hash, mobile, area, address, role,
	work_status, COALESCE(job_detail, ''), total_amount, payment_paid, payment_due,
	payment_history, due_date, completion_status, materials, materials_total_cost,
	house_photo, owner_photo, COALESCE(totp_secret, ''), COALESCE(totp_enabled, false),
	is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var dueDate *time.Time
	err := row.Scan(&u.ID, &u.Name, &u.Username, &u.PasswordHash, &u.Mobile,
		&u.Area, &u.Address, &u.Role, &u.WorkStatus, &u.JobDetail,
		&u.TotalAmount, &u.PaymentPaid, &u.PaymentDue,
		&u.PaymentHistory, &dueDate, &u.CompletionStatus,
		&u.Materials, &u.MaterialsTotalCost,
		&u.HousePhoto, &u.OwnerPhoto, &u.TOTPSecret, &u.TOTPEnabled,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if dueDate != nil {
		u.DueDate = &models.Date{Time: *dueDate}
	}
	return &u, nil
}

func dueDateValue(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

// Create inserts a new user. A username collision maps to ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users (name, username, password_hash, mobile, area, address, role,
			work_status, job_detail, total_amount, payment_paid, payment_due,
			payment_history, due_date, completion_status, materials, materials_total_cost,
			house_photo, owner_photo, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		 RETURNING id`,
		u.Name, u.Username, u.PasswordHash, u.Mobile, u.Area, u.Address, u.Role,
		u.WorkStatus, u.JobDetail, u.TotalAmount, u.PaymentPaid, u.PaymentDue,
		u.PaymentHistory, dueDateValue(u.DueDate), u.CompletionStatus,
		u.Materials, u.MaterialsTotalCost,
		u.HousePhoto, u.OwnerPhoto, u.IsActive, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return errs.ErrConflict
	}
	return err
}

// GetByID returns an active user. Soft-deleted users are indistinguishable
// from absent ones.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1 AND is_active=true`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return u, err
}

// GetByUsername returns an active user by lowercase username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1 AND is_active=true`,
		strings.ToLower(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return u, err
}

// UsernameTaken reports whether any record, active or not, holds the username.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	err := r.DB.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`,
		strings.ToLower(username)).Scan(&taken)
	return taken, err
}

// sortColumns is the whitelist of sortable fields for customer lists.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"name":        "name",
	"totalAmount": "total_amount",
	"paymentPaid": "payment_paid",
	"paymentDue":  "payment_due",
	"dueDate":     "due_date",
	"area":        "area",
}

// ListCustomers returns one page of active customers plus the total count.
func (r *UserRepository) ListCustomers(ctx context.Context, q *models.ListCustomersQuery) ([]*models.User, int, error) {
	where := []string{"role = 'customer'", "is_active = true"}
	args := []interface{}{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR username ILIKE $%d OR mobile ILIKE $%d OR area ILIKE $%d)", n, n, n, n))
	}
	if q.WorkStatus != "" {
		args = append(args, q.WorkStatus)
		where = append(where, fmt.Sprintf("work_status = $%d", len(args)))
	}
	if q.Area != "" {
		args = append(args, "%"+q.Area+"%")
		where = append(where, fmt.Sprintf("area ILIKE $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortCol, ok := sortColumns[q.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		order = "ASC"
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE %s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d",
		userColumns, whereClause, sortCol, order, len(args)-1, len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Stats aggregates active customers by work status and money.
func (r *UserRepository) Stats(ctx context.Context) (*models.CustomerStats, error) {
	var s models.CustomerStats
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE work_status = 'ongoing'),
		       COUNT(*) FILTER (WHERE work_status = 'completed'),
		       COUNT(*) FILTER (WHERE work_status = 'pending'),
		       COALESCE(SUM(payment_paid), 0),
		       COALESCE(SUM(payment_due), 0),
		       COALESCE(AVG(payment_paid), 0)
		FROM users WHERE role = 'customer' AND is_active = true`).Scan(
		&s.TotalCustomers, &s.TotalOngoing, &s.TotalCompleted, &s.TotalPending,
		&s.TotalRevenue, &s.TotalDue, &s.AvgPayment)
	return &s, err
}

// TopAreas returns the ten busiest areas by active customer count.
func (r *UserRepository) TopAreas(ctx context.Context) ([]models.AreaStat, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT area, COUNT(*),
		       COALESCE(SUM(payment_paid), 0),
		       COALESCE(SUM(payment_due), 0)
		FROM users WHERE role = 'customer' AND is_active = true
		GROUP BY area
		ORDER BY COUNT(*) DESC, area ASC
		LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.AreaStat{}
	for rows.Next() {
		var a models.AreaStat
		if err := rows.Scan(&a.Area, &a.Count, &a.TotalRevenue, &a.TotalDue); err != nil {
			return nil, err
		}
		stats = append(stats, a)
	}
	return stats, rows.Err()
}

// Update writes the full reconciled record as one atomic set. The username
// is immutable and never part of the update.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET name=$1, mobile=$2, area=$3, address=$4,
			work_status=$5, job_detail=$6, total_amount=$7, payment_paid=$8, payment_due=$9,
			payment_history=$10, due_date=$11, completion_status=$12,
			materials=$13, materials_total_cost=$14, house_photo=$15, owner_photo=$16,
			updated_at=$17
		 WHERE id=$18 AND is_active=true`,
		u.Name, u.Mobile, u.Area, u.Address,
		u.WorkStatus, u.JobDetail, u.TotalAmount, u.PaymentPaid, u.PaymentDue,
		u.PaymentHistory, dueDateValue(u.DueDate), u.CompletionStatus,
		u.Materials, u.MaterialsTotalCost, u.HousePhoto, u.OwnerPhoto,
		u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		hash, id)
	return err
}

// SoftDelete deactivates a customer; the row and its history stay.
func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET is_active=false, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$1 AND role='customer' AND is_active=true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetTOTPSecret stores the TOTP secret during setup, before verification
func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int64, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_secret=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		secret, userID)
	return err
}

// EnableTOTP marks 2FA as enabled after verification
func (r *UserRepository) EnableTOTP(ctx context.Context, userID int64) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled=true, updated_at=CURRENT_TIMESTAMP WHERE id=$1`,
		userID)
	return err
}

// DisableTOTP disables 2FA and clears the secret
func (r *UserRepository) DisableTOTP(ctx context.Context, userID int64) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled=false, totp_secret=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=$1`,
		userID)
	return err
}
