package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/s4ngmin-9/Fast-API/internal/config"
	"github.com/s4ngmin-9/Fast-API/internal/domain"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(cfg *config.Config) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	repo := &PostgresRepository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *PostgresRepository) migrate(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS users (
        id SERIAL PRIMARY KEY,
        username TEXT NOT NULL UNIQUE,
        hashed_password TEXT NOT NULL,
        age INTEGER NOT NULL,
        gender TEXT NOT NULL,
        last_login TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS movies (
        id SERIAL PRIMARY KEY,
        title TEXT NOT NULL,
        playtime INTEGER NOT NULL,
        genre TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS holidays (
        id UUID PRIMARY KEY,
        year INTEGER NOT NULL,
        date DATE NOT NULL UNIQUE,
        name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays (year);`
	_, err := r.db.ExecContext(ctx, stmt)
	return err
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) Users() *PostgresUsers       { return &PostgresUsers{db: r.db} }
func (r *PostgresRepository) Movies() *PostgresMovies     { return &PostgresMovies{db: r.db} }
func (r *PostgresRepository) Holidays() *PostgresHolidays { return &PostgresHolidays{db: r.db} }

type rowScanner interface {
	Scan(dest ...any) error
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type PostgresUsers struct {
	db *sql.DB
}

const userColumns = "id, username, hashed_password, age, gender, last_login"

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u         domain.User
		gender    string
		lastLogin sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Username, &u.HashedPassword, &u.Age, &gender, &lastLogin); err != nil {
		return domain.User{}, err
	}
	u.Gender = domain.Gender(gender)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func (r *PostgresUsers) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const query = `INSERT INTO users (username, hashed_password, age, gender, last_login) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, u.Username, u.HashedPassword, u.Age, string(u.Gender), u.LastLogin).Scan(&u.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("user %q: %w", u.Username, domain.ErrConflict)
		}
		return domain.User{}, err
	}
	return u, nil
}

func (r *PostgresUsers) Get(ctx context.Context, id int) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err != nil {
		return domain.User{}, notFound(err, fmt.Sprintf("user %d", id))
	}
	return u, nil
}

func (r *PostgresUsers) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if err != nil {
		return domain.User{}, notFound(err, fmt.Sprintf("user %q", username))
	}
	return u, nil
}

func (r *PostgresUsers) query(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUsers) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
}

func (r *PostgresUsers) Search(ctx context.Context, q domain.UserSearch) ([]domain.User, error) {
	condition, args := userSearchCondition(q)
	return r.query(ctx, "SELECT "+userColumns+" FROM users "+condition+" ORDER BY id", args...)
}

func userSearchCondition(q domain.UserSearch) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if q.Username != "" {
		add("username", q.Username)
	}
	if q.Age != 0 {
		add("age", q.Age)
	}
	if q.Gender != "" {
		add("gender", string(q.Gender))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PostgresUsers) Update(ctx context.Context, u domain.User) error {
	const query = `UPDATE users SET hashed_password = $2, age = $3, gender = $4, last_login = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, u.ID, u.HashedPassword, u.Age, string(u.Gender), u.LastLogin)
	if err != nil {
		return err
	}
	return expectOne(res, fmt.Sprintf("user %d", u.ID))
}

func (r *PostgresUsers) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(res, fmt.Sprintf("user %d", id))
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

type PostgresMovies struct {
	db *sql.DB
}

const movieColumns = "id, title, playtime, genre"

func (r *PostgresMovies) Create(ctx context.Context, m domain.Movie) (domain.Movie, error) {
	const query = `INSERT INTO movies (title, playtime, genre) VALUES ($1, $2, $3) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, m.Title, m.Playtime, m.Genre).Scan(&m.ID); err != nil {
		return domain.Movie{}, err
	}
	return m, nil
}

func (r *PostgresMovies) Get(ctx context.Context, id int) (domain.Movie, error) {
	var m domain.Movie
	err := r.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = $1", id).Scan(&m.ID, &m.Title, &m.Playtime, &m.Genre)
	if err != nil {
		return domain.Movie{}, notFound(err, fmt.Sprintf("movie %d", id))
	}
	return m, nil
}

func (r *PostgresMovies) query(ctx context.Context, query string, args ...any) ([]domain.Movie, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Movie
	for rows.Next() {
		var m domain.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Playtime, &m.Genre); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresMovies) List(ctx context.Context) ([]domain.Movie, error) {
	return r.query(ctx, "SELECT "+movieColumns+" FROM movies ORDER BY id")
}

func (r *PostgresMovies) Search(ctx context.Context, q domain.MovieSearch) ([]domain.Movie, error) {
	condition, args := movieSearchCondition(q)
	return r.query(ctx, "SELECT "+movieColumns+" FROM movies "+condition+" ORDER BY id", args...)
}

func movieSearchCondition(q domain.MovieSearch) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if q.Title != nil {
		args = append(args, *q.Title)
		clauses = append(clauses, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if q.Genre != nil {
		args = append(args, *q.Genre)
		clauses = append(clauses, fmt.Sprintf("genre ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PostgresMovies) Update(ctx context.Context, m domain.Movie) error {
	res, err := r.db.ExecContext(ctx, "UPDATE movies SET title = $2, playtime = $3, genre = $4 WHERE id = $1", m.ID, m.Title, m.Playtime, m.Genre)
	if err != nil {
		return err
	}
	return expectOne(res, fmt.Sprintf("movie %d", m.ID))
}

func (r *PostgresMovies) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectOne(res, fmt.Sprintf("movie %d", id))
}

type PostgresHolidays struct {
	db *sql.DB
}

func (r *PostgresHolidays) YearExists(ctx context.Context, year int) (bool, error) {
	const query = "SELECT EXISTS (SELECT 1 FROM holidays WHERE year = $1)"
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresHolidays) InsertBatch(ctx context.Context, year int, holidays []domain.Holiday) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO holidays (id, year, date, name) VALUES ($1, $2, $3, $4) ON CONFLICT (date) DO NOTHING`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, h := range holidays {
		if h.Date.Year() != year {
			tx.Rollback()
			return fmt.Errorf("holiday %s is not in %d", h.Date.Format(domain.DateLayout), year)
		}
		if _, err := stmt.ExecContext(ctx, uuid.New(), year, h.Date.Format(domain.DateLayout), h.Name); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresHolidays) List(ctx context.Context, year int) ([]domain.Holiday, error) {
	query := "SELECT date, name FROM holidays"
	var args []any
	if year != 0 {
		query += " WHERE year = $1"
		args = append(args, year)
	}
	rows, err := r.db.QueryContext(ctx, query+" ORDER BY date", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
