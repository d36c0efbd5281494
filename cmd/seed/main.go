// Command seed inserts the demo student used for portal testing. The
// password is prompted for on the terminal and hashed through the same
// hasher as the signup path; plaintext never reaches the database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/lmwansa/studentportal/internal/common"
	"github.com/lmwansa/studentportal/internal/server/auth"
	"github.com/lmwansa/studentportal/internal/server/config"
	"github.com/lmwansa/studentportal/internal/server/models"
	"github.com/lmwansa/studentportal/internal/server/repositories/repomanager"
)

const demoUsername = "2021397963"

func demoStudent(passwordHash string) *models.Student {
	return &models.Student{
		Username:     demoUsername,
		PasswordHash: passwordHash,
		Profile: models.Profile{
			StudentName: "John Banda",
			StudentNRC:  "123456/12/1",
			YearOfStudy: "3",
			Program:     "BSc Computer Science",
			School:      "School of Natural Sciences",
			Campus:      "Main Campus",
			Major:       "Software Engineering",
			Intake:      "2021 Intake",
		},
		Courses: []models.Course{
			{Code: "CSC4630", Name: "Advanced Software Engineering", HalfOrFull: "1"},
			{Code: "CSC3620", Name: "Database Systems", HalfOrFull: "0"},
			{Code: "CSC2510", Name: "Operating Systems", HalfOrFull: "1"},
		},
	}
}

func readPassword() (string, error) {
	fmt.Printf("Password for %s: ", demoUsername)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	password, err := readPassword()
	if err != nil {
		log.Fatalf("reading password: %v", err)
	}
	if len(password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	hash, err := auth.NewHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("hashing error: %v", err)
	}

	if _, err := manager.Students(db).Create(ctx, demoStudent(hash)); err != nil {
		if errors.Is(err, common.ErrorDuplicateUser) {
			log.Printf("student %s already seeded", demoUsername)
			return
		}
		log.Fatalf("seeding error: %v", err)
	}

	log.Printf("test student %s inserted", demoUsername)
}
