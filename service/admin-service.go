package service

import (
	"errors"
	"strings"

	"inc/app_error"
	"inc/auth"
	"inc/repository"
	"inc/utils"

	"gorm.io/gorm"
)

type AdminService struct {
	adminRepository *repository.AdminRepository
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{adminRepository: repository.NewAdminRepository(db)}
}

func (s *AdminService) Login(username string, password string) (string, *repository.Admin, error) {
	admin, err := s.adminRepository.GetAdmin(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, app_error.Unauthorized("Invalid credentials")
		}
		return "", nil, dependency(err)
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return "", nil, app_error.Unauthorized("Invalid credentials")
	}
	token, err := auth.CreateToken(admin.Username, admin.Roles)
	if err != nil {
		return "", nil, dependency(err)
	}
	return token, admin, nil
}

var adminRoles = []string{auth.RoleViewer, auth.RoleAdmin, auth.RoleWebMaster}

// CreateAdmin creates or replaces an operator account.
func (s *AdminService) CreateAdmin(username string, password string, roles []string) (*repository.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, app_error.ValidationFailed("username and a password of at least 8 characters are required")
	}
	if len(roles) == 0 {
		return nil, app_error.ValidationFailed("at least one role is required")
	}
	for _, role := range roles {
		if !utils.Contains(adminRoles, role) {
			return nil, app_error.ValidationFailed("unknown role %s", role)
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, dependency(err)
	}
	admin := &repository.Admin{Username: username, PasswordHash: hash, Roles: roles}
	if err := s.adminRepository.Save(admin); err != nil {
		return nil, dependency(err)
	}
	return admin, nil
}
