package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/go-playground/validator"
	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/gym-tracker/internal/events"
	"github.com/magabrotheeeer/gym-tracker/internal/http/response"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/gym-tracker/internal/lib/validate"
	"github.com/magabrotheeeer/gym-tracker/internal/models"
	userservice "github.com/magabrotheeeer/gym-tracker/internal/services/user"
	"github.com/magabrotheeeer/gym-tracker/internal/storage/repository"
)

var (
	// Флаги команды admin create
	adminName     string
	adminSurname  string
	adminEmail    string
	adminPassword string
)

// adminCmd объединяет команды управления администраторами.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrators",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user with the admin role",
	Long: `Create a user with the admin role. Public registration never grants
the admin role, so the first administrator is created with this command.

Examples:
  gymctl admin create --email admin@gym.local --password 'Secret123' --name Ada --surname Admin`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, s, err := storageSettings()
		if err != nil {
			return err
		}
		return createAdmin(cmd.Context(), cmd.OutOrStdout(), d, s, models.DummyUser{
			Name:     adminName,
			Surname:  adminSurname,
			Email:    adminEmail,
			Password: adminPassword,
			Role:     string(models.RoleAdmin),
		})
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVar(&adminName, "name", "Admin", "First name")
	adminCreateCmd.Flags().StringVar(&adminSurname, "surname", "Admin", "Last name")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Password: 8..64 chars with upper, lower case letters and a digit")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
}

func createAdmin(ctx context.Context, out io.Writer, driver, dsn string, req models.DummyUser) error {
	if err := validate.New().Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid admin: %s", response.ValidationError(verrs).Error)
		}
		return err
	}

	storage, err := repository.New(driver, dsn)
	if err != nil {
		return err
	}
	defer storage.Close()

	users := userservice.New(storage, events.Nop{}, sl.Discard())
	admin, err := users.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "admin %s created with id %d\n", admin.Email, admin.ID)
	return nil
}
