package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/internal/db"
	"github.com/sportaccessories/storefront/pkg/util"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "create an admin account or promote an existing user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "required when the account does not exist yet"},
			&cli.StringFlag{Name: "name", Value: "Administrator"},
		},
		Action: func(c *cli.Context) error {
			userRepo := repository.NewUserRepository(db.GetDB())
			user, created, err := ensureAdmin(userRepo, c.String("email"), c.String("password"), c.String("name"))
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(c.App.Writer, "Created admin %s (id %d)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(c.App.Writer, "Promoted %s (id %d) to admin\n", user.Email, user.ID)
			}
			return nil
		},
	}
}

// ensureAdmin promotes the user with email, creating the account first when needed.
func ensureAdmin(userRepo repository.UserRepository, email, password, name string) (*model.User, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := userRepo.FindByEmail(email)
	switch {
	case err == nil:
		if err := userRepo.SetRole(user.ID, model.RoleAdmin); err != nil {
			return nil, false, err
		}
		user.Role = model.RoleAdmin
		return user, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	if err := util.ValidatePassword(password); err != nil {
		return nil, false, fmt.Errorf("a new admin needs --password: %w", err)
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user = &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}
