package command

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hongminglow/all-in-auth/internal/auth"
	"github.com/hongminglow/all-in-auth/internal/models"
	"github.com/hongminglow/all-in-auth/internal/storage"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User directory commands",
	}
	cmd.AddCommand(userCreateCommand())
	return cmd
}

func userCreateCommand() *cobra.Command {
	var name, role, image string
	cmd := &cobra.Command{
		Use:   "create EMAIL",
		Short: "Create user",
		Long: "Creates a user entry for the provided email. The password may be\n" +
			"provided via stdin or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			if !models.ValidRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			logger := slog.Default()

			passwd, err := prompt("password: ", true)
			if err != nil {
				return err
			}
			user, err := newUser(args[0], name, role, image, passwd)
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			created, err := store.CreateUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "created user",
				slog.String("id", created.ID),
				slog.String("email", created.Email),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", models.RoleUser, "user role (user|admin)")
	cmd.Flags().StringVar(&image, "image", "", "avatar URL")
	return cmd
}

// newUser builds a directory record, applying the same input rules the
// sign-in flow enforces so the account can actually sign in.
func newUser(email, name, role, image string, password []byte) (models.User, error) {
	email = storage.NormalizeEmail(email)
	if len(password) == 0 {
		return models.User{}, errors.New("password is required")
	}
	if err := auth.ValidateCredentials(email, string(password)); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		Image:        image,
		PasswordHash: string(hash),
	}, nil
}
