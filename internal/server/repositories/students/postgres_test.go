package students

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lmwansa/studentportal/internal/common"
	"github.com/lmwansa/studentportal/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertStudentQ = `(?s)^INSERT\s+INTO\s+students\s*\(.+\)\s*VALUES\s*\(.+\)\s*RETURNING\s+created_at\s*$`
	insertCourseQ  = `(?s)^INSERT\s+INTO\s+courses\s*\(.+\)\s*VALUES\s*\(.+\)\s*$`
	selectStudentQ = `(?s)^SELECT\s+id,\s*username,\s*password_hash,.+FROM\s+students\s+WHERE\s+username\s*=\s*\$1\s*$`
	selectCoursesQ = `(?s)^SELECT\s+code,\s*name,\s*half_or_full_course\s+FROM\s+courses\s+WHERE\s+student_id\s*=\s*\$1`
	updateHashQ    = `(?s)^UPDATE\s+students\s+SET\s+password_hash\s*=\s*\$2,.+WHERE\s+username\s*=\s*\$1\s*$`
)

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(insertStudentQ).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(insertCourseQ).
		WithArgs(sqlmock.AnyArg(), "CSC4630", "Advanced Software Engineering", "1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s := &models.Student{
		Username:     "stu1",
		PasswordHash: "$2a$10$hash",
		Courses: []models.Course{
			{Code: "CSC4630", Name: "Advanced Software Engineering", HalfOrFull: "1"},
		},
	}
	got, err := repo.Create(context.Background(), s)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated id, got empty")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(insertStudentQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_username_key"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.Student{Username: "stu1", PasswordHash: "h"})
	if !errors.Is(err, common.ErrorDuplicateUser) {
		t.Fatalf("want common.ErrorDuplicateUser, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(insertStudentQ).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.Student{Username: "stu1", PasswordHash: "h"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreate_CourseInsertFailureRollsBack(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(insertStudentQ).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec(insertCourseQ).
		WillReturnError(errors.New("constraint failure"))
	mock.ExpectRollback()

	s := &models.Student{
		Username:     "stu1",
		PasswordHash: "h",
		Courses:      []models.Course{{Code: "CSC3620"}},
	}
	_, err := repo.Create(context.Background(), s)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByUsername_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	studentRows := sqlmock.NewRows([]string{
		"id", "username", "password_hash", "student_name", "student_nrc",
		"year_of_study", "program", "school", "campus", "major", "intake", "created_at",
	}).AddRow("u-1", "stu1", "$2a$10$hash", "John Banda", "123456/12/1",
		"3", "BSc Computer Science", "School of Natural Sciences", "Main Campus",
		"Software Engineering", "2021 Intake", time.Now())

	courseRows := sqlmock.NewRows([]string{"code", "name", "half_or_full_course"}).
		AddRow("CSC4630", "Advanced Software Engineering", "1").
		AddRow("CSC3620", "Database Systems", "0")

	mock.ExpectQuery(selectStudentQ).WithArgs("stu1").WillReturnRows(studentRows)
	mock.ExpectQuery(selectCoursesQ).WithArgs("u-1").WillReturnRows(courseRows)

	got, err := repo.GetByUsername(context.Background(), "stu1")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if got.ID != "u-1" || got.Username != "stu1" || got.StudentName != "John Banda" {
		t.Fatalf("unexpected student: %+v", got)
	}
	if len(got.Courses) != 2 || got.Courses[0].Code != "CSC4630" {
		t.Fatalf("unexpected courses: %+v", got.Courses)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectStudentQ).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByUsername_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectStudentQ).
		WithArgs("stu1").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByUsername(context.Background(), "stu1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdatePasswordHash_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateHashQ).
		WithArgs("stu1", "$2a$10$newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePasswordHash(context.Background(), "stu1", "$2a$10$newhash"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}
}

func TestUpdatePasswordHash_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateHashQ).
		WithArgs("ghost", "$2a$10$newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), "ghost", "$2a$10$newhash")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
