package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sefazor/crowdfund-backend/internal/models"
	"github.com/sefazor/crowdfund-backend/internal/repository"
	"github.com/sefazor/crowdfund-backend/pkg/bcrypt"
	"github.com/sefazor/crowdfund-backend/pkg/email"
	jwtPkg "github.com/sefazor/crowdfund-backend/pkg/jwt"
)

const (
	// Token süreleri
	TokenExpiryReset = 15 * time.Minute
)

type AuthService struct {
	userRepo     *repository.UserRepository
	emailService *email.EmailService
}

func NewAuthService(userRepo *repository.UserRepository, emailService *email.EmailService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		emailService: emailService,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	// Email kontrolü
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("email already exists")
	}

	// Şifreyi hashle
	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// Kullanıcıyı oluştur
	user := &models.User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.RoleMember,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// JWT token oluştur
	token, err := jwtPkg.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	// Welcome email gönder
	go s.emailService.SendWelcomeEmail(user.Email, user.FirstName)

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	// Pledge üzerinden oluşturulmuş, şifresi olmayan kullanıcılar önce
	// şifre sıfırlama akışından geçmeli
	if user.Password == "" {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	// JWT token oluştur
	token, err := jwtPkg.GenerateToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) ForgotPassword(req models.ForgotPasswordRequest) error {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		// Kullanıcı bulunamasa da aynı cevabı ver (enumeration koruması)
		return nil
	}

	resetToken, err := s.generateResetToken(user.ID, user.Email)
	if err != nil {
		return err
	}

	go s.emailService.SendPasswordResetEmail(user.Email, resetToken)
	return nil
}

func (s *AuthService) ResetPassword(req models.ResetPasswordRequest) error {
	claims, err := jwtPkg.ValidateToken(req.Token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	purpose, _ := claims["purpose"].(string)
	if purpose != "password_reset" {
		return errors.New("invalid or expired token")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return errors.New("invalid or expired token")
	}

	hashedPassword, err := bcrypt.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(uint(userIDFloat), hashedPassword)
}

func (s *AuthService) generateResetToken(userID uint, email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"purpose": "password_reset",
		"exp":     time.Now().Add(TokenExpiryReset).Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
