package repository

import (
	"strings"

	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	SetRole(id uint, role model.UserRole) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	user.Email = strings.ToLower(user.Email)
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to insert user", err, logger.Fields{"email": user.Email})
		return err
	}
	logger.Debug("User inserted", logger.Fields{"user_id": user.ID, "role": user.Role})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes every column of user, password hash included.
func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to save user", err, logger.Fields{"user_id": user.ID})
		return err
	}
	return nil
}

func (r *userRepository) SetRole(id uint, role model.UserRole) error {
	res := r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		logger.Error("Failed to change user role", res.Error, logger.Fields{"user_id": id})
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	logger.Info("User role changed", logger.Fields{"user_id": id, "role": role})
	return nil
}
