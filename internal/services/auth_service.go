package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ryanjameskelley/joinomu-sub002/internal/config"
	"github.com/ryanjameskelley/joinomu-sub002/internal/dto"
	"github.com/ryanjameskelley/joinomu-sub002/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService owns identity records: signup, login, token rotation and
// account deletion. Provisioning of dependent rows is delegated to the
// ProvisioningService and is deliberately non-fatal to signup — the
// identity exists even when its application rows could not be created.
type AuthService struct {
	db           *gorm.DB
	cfg          *config.Config
	provisioning *ProvisioningService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, prov *ProvisioningService) *AuthService {
	return &AuthService{db: db, cfg: cfg, provisioning: prov}
}

// Signup is the self-service signup path.
func (s *AuthService) Signup(req *dto.SignupRequest) (*dto.AuthResponse, error) {
	user, err := s.createIdentity(req.Email, req.Password, req.Metadata)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(user)
}

// AdminCreateUser is the privileged create path. It returns the user
// without issuing tokens.
func (s *AuthService) AdminCreateUser(req *dto.AdminCreateUserRequest) (*dto.UserResponse, error) {
	user, err := s.createIdentity(req.Email, req.Password, req.Metadata)
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Role:        NormalizeMetadataJSON(user.RawMetadata).Role,
		Provisioned: s.provisioning.IsProvisioned(user.ID),
	}, nil
}

func (s *AuthService) createIdentity(email, password string, metadata map[string]interface{}) (*models.User, error) {
	if len(email) == 0 || len(password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rawMeta := []byte("{}")
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			rawMeta = b
		}
	}

	user := models.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hash),
		RawMetadata: datatypes.JSON(rawMeta),
	}
	if err := s.db.Create(&user).Error; err != nil {
		// A concurrent signup can slip past the lookup above and hit
		// the unique index on email instead.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The identity row is committed: a provisioning failure is recorded
	// and retried by the reconciler, never surfaced as a signup error.
	_ = s.provisioning.Provision(&user)

	return &user, nil
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// DeleteAccount removes the identity and every dependent row in one
// transaction.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if password == "" {
		return errors.New("password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var patient models.Patient
		if err := tx.Where("profile_id = ?", userID).First(&patient).Error; err == nil {
			if err := purgePatientRows(tx, patient.ID); err != nil {
				return err
			}
		}

		var provider models.Provider
		if err := tx.Where("profile_id = ?", userID).First(&provider).Error; err == nil {
			if err := purgeProviderRows(tx, provider.ID); err != nil {
				return err
			}
			if err := tx.Where("provider_id = ?", provider.ID).Delete(&models.ProviderSchedule{}).Error; err != nil {
				return err
			}
		}

		tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", userID).Delete(&models.ProvisioningFailure{})
		tx.Where("profile_id = ?", userID).Delete(&models.Patient{})
		tx.Where("profile_id = ?", userID).Delete(&models.Provider{})
		tx.Where("profile_id = ?", userID).Delete(&models.Admin{})
		tx.Where("id = ?", userID).Delete(&models.Profile{})
		return tx.Delete(&user).Error
	})
}

// purgePatientRows clears a patient's feature-owned rows so the role
// record can go without leaving dangling references. The feature
// tables belong to plugins the auth layer doesn't import, so they are
// addressed by table name.
func purgePatientRows(tx *gorm.DB, patientID uuid.UUID) error {
	statements := []string{
		"DELETE FROM medication_orders WHERE patient_id = ?",
		"DELETE FROM medication_approvals WHERE preference_id IN (SELECT id FROM medication_preferences WHERE patient_id = ?)",
		"DELETE FROM medication_preferences WHERE patient_id = ?",
		"DELETE FROM appointments WHERE patient_id = ?",
		"DELETE FROM patient_assignments WHERE patient_id = ?",
		"DELETE FROM health_metrics WHERE patient_id = ?",
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt, patientID).Error; err != nil {
			return err
		}
	}
	return nil
}

// purgeProviderRows is the provider-side counterpart. Orders hanging
// off the provider's approvals go first so no approval_id dangles.
func purgeProviderRows(tx *gorm.DB, providerID uuid.UUID) error {
	statements := []string{
		"DELETE FROM medication_orders WHERE approval_id IN (SELECT id FROM medication_approvals WHERE provider_id = ?)",
		"DELETE FROM medication_approvals WHERE provider_id = ?",
		"DELETE FROM appointments WHERE provider_id = ?",
		"DELETE FROM patient_assignments WHERE provider_id = ?",
		"DELETE FROM availability_overrides WHERE provider_id = ?",
	}
	for _, stmt := range statements {
		if err := tx.Exec(stmt, providerID).Error; err != nil {
			return err
		}
	}
	return nil
}

// roleFor resolves the role claim for a user: the provisioned profile
// wins, falling back to the normalized signup metadata when the
// profile does not exist yet.
func (s *AuthService) roleFor(user *models.User) string {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", user.ID).Error; err == nil {
		return profile.Role
	}
	return NormalizeMetadataJSON(user.RawMetadata).Role
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	role := s.roleFor(user)

	accessToken, err := s.generateAccessToken(user, role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Role:        role,
			Provisioned: s.provisioning.IsProvisioned(user.ID),
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
