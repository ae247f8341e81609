package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/example/souqly/internal/database"
	"github.com/example/souqly/internal/models"
	"github.com/example/souqly/internal/utils"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing user",
	Long: `Creates a back-office admin. When a user with the given email already
exists it is promoted to admin and, if a password is given, its password is reset.`,
	RunE: createAdmin,
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func createAdmin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(adminEmail))
	ctx := cmd.Context()

	var user models.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if adminPassword == "" {
			return errors.New("--password is required for a new admin")
		}
		hash, err := utils.HashPassword(adminPassword)
		if err != nil {
			return err
		}
		user = models.User{Name: adminName, Email: email, PasswordHash: hash, Role: models.RoleAdmin}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info().Str("email", email).Msg("admin created")
		return nil
	case err != nil:
		return err
	}

	updates := map[string]any{"role": models.RoleAdmin}
	if adminPassword != "" {
		hash, err := utils.HashPassword(adminPassword)
		if err != nil {
			return err
		}
		updates["password_hash"] = hash
	}
	if err := db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return fmt.Errorf("promote user: %w", err)
	}
	log.Info().Str("email", email).Msg("user promoted to admin")
	return nil
}
