package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lmwansa/studentportal/internal/common"
	"github.com/lmwansa/studentportal/internal/dbx"
	"github.com/lmwansa/studentportal/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the student and its course rows in one transaction.
// Atomicity of the uniqueness check rests on the username unique index:
// the losing side of a concurrent insert gets a unique-violation, which is
// mapped to common.ErrorDuplicateUser.
func (r *PostgresRepository) Create(ctx context.Context, student *models.Student) (*models.Student, error) {

	if student.ID == "" {
		student.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO students (id, username, password_hash, student_name, student_nrc,
		     year_of_study, program, school, campus, major, intake)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at
		 `

	courseQuery :=
		`INSERT INTO courses (student_id, code, name, half_or_full_course)
		 VALUES ($1, $2, $3, $4)
		 `

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tx.QueryRowContext(ctx, query,
			student.ID, student.Username, student.PasswordHash,
			student.StudentName, student.StudentNRC, student.YearOfStudy,
			student.Program, student.School, student.Campus,
			student.Major, student.Intake).Scan(&student.CreatedAt); err != nil {
			return err
		}
		for _, course := range student.Courses {
			if _, err := tx.ExecContext(ctx, courseQuery,
				student.ID, course.Code, course.Name, course.HalfOrFull); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrorDuplicateUser
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return student, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	query :=
		`SELECT id, username, password_hash, student_name, student_nrc,
		     year_of_study, program, school, campus, major, intake, created_at
		 FROM students
		 WHERE username = $1
		 `

	student := &models.Student{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&student.ID, &student.Username, &student.PasswordHash,
		&student.StudentName, &student.StudentNRC, &student.YearOfStudy,
		&student.Program, &student.School, &student.Campus,
		&student.Major, &student.Intake, &student.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	courses, err := r.coursesByStudentID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	student.Courses = courses

	return student, nil
}

func (r *PostgresRepository) coursesByStudentID(ctx context.Context, studentID string) ([]models.Course, error) {
	query :=
		`SELECT code, name, half_or_full_course FROM courses
		 WHERE student_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.Code, &c.Name, &c.HalfOrFull); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return courses, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, username string, newHash string) error {
	query :=
		`UPDATE students SET password_hash = $2, updated_at = now()
		 WHERE username = $1
		 `

	res, err := r.db.ExecContext(ctx, query, username, newHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
