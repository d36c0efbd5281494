package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lmwansa/studentportal/internal/common"
	"github.com/lmwansa/studentportal/internal/server/models"
	"github.com/lmwansa/studentportal/internal/server/services"
)

type courseBody struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	HalfOrFull string `json:"half_or_full_course"`
}

type signupRequest struct {
	Username    string       `json:"username"`
	Password    string       `json:"password"`
	StudentName string       `json:"studentName"`
	StudentNRC  string       `json:"studentNRC"`
	YearOfStudy string       `json:"yearOfStudy"`
	Program     string       `json:"program"`
	School      string       `json:"school"`
	Campus      string       `json:"campus"`
	Major       string       `json:"major"`
	Intake      string       `json:"intake"`
	Courses     []courseBody `json:"courses"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Username    string `json:"username"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// userView is the non-sensitive slice of a student returned on login.
// The password hash never appears here.
type userView struct {
	Username    string       `json:"username"`
	StudentName string       `json:"studentName"`
	StudentNRC  string       `json:"studentNRC"`
	YearOfStudy string       `json:"yearOfStudy"`
	Program     string       `json:"program"`
	School      string       `json:"school"`
	Campus      string       `json:"campus"`
	Major       string       `json:"major"`
	Intake      string       `json:"intake"`
	Courses     []courseBody `json:"courses"`
}

func newUserView(s *models.Student) userView {
	courses := make([]courseBody, 0, len(s.Courses))
	for _, c := range s.Courses {
		courses = append(courses, courseBody{Code: c.Code, Name: c.Name, HalfOrFull: c.HalfOrFull})
	}
	return userView{
		Username:    s.Username,
		StudentName: s.StudentName,
		StudentNRC:  s.StudentNRC,
		YearOfStudy: s.YearOfStudy,
		Program:     s.Program,
		School:      s.School,
		Campus:      s.Campus,
		Major:       s.Major,
		Intake:      s.Intake,
		Courses:     courses,
	}
}

// writeError maps service errors to the portal's response contract.
// Internal detail never reaches the client; unexpected errors were already
// logged where they occurred.
func (s *Server) writeError(c *gin.Context, err error) {
	var ve *common.ValidationError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"message": ve.Reason})
	case errors.Is(err, common.ErrorDuplicateUser):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
	case errors.Is(err, common.ErrorInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, common.ErrorWrongOldPassword):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Old password is incorrect"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	courses := make([]models.Course, 0, len(req.Courses))
	for _, course := range req.Courses {
		courses = append(courses, models.Course{Code: course.Code, Name: course.Name, HalfOrFull: course.HalfOrFull})
	}

	err := s.auth.Signup(c.Request.Context(), services.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Profile: models.Profile{
			StudentName: req.StudentName,
			StudentNRC:  req.StudentNRC,
			YearOfStudy: req.YearOfStudy,
			Program:     req.Program,
			School:      req.School,
			Campus:      req.Campus,
			Major:       req.Major,
			Intake:      req.Intake,
		},
		Courses: courses,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful"})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, student, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    newUserView(student),
	})
}

func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if err := s.auth.ChangePassword(c.Request.Context(), req.Username, req.OldPassword, req.NewPassword); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (s *Server) handleValidateToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Token is valid",
		"id":      c.GetString(ContextSubjectKey),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "studentportal-api",
	})
}
