// Package models defines the records persisted by the portal repositories.
package models

import "time"

// Course is one enrollment line on a student profile.
// HalfOrFull follows the registrar encoding: "1" = full course, "0" = half.
type Course struct {
	Code       string
	Name       string
	HalfOrFull string
}

// Profile holds the non-sensitive student fields echoed back on login.
type Profile struct {
	StudentName string
	StudentNRC  string
	YearOfStudy string
	Program     string
	School      string
	Campus      string
	Major       string
	Intake      string
}

// Student is the credential record plus its profile. Username is the unique,
// immutable identifier (the student computer number). PasswordHash is the
// only field mutated after creation and never leaves the service layer.
type Student struct {
	ID           string
	Username     string
	PasswordHash string
	Profile
	Courses   []Course
	CreatedAt time.Time
}
