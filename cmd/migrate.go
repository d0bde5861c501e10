package cmd

import (
	"os"

	"formify.app/configs"
	"formify.app/database"
	"formify.app/database/seeders"

	"github.com/spf13/cobra"
)

var migrateFlags struct {
	seed          bool
	demo          bool
	createDB      bool
	adminName     string
	adminEmail    string
	adminPassword string
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Migrate runs the schema migrations in one transaction and, with --seed, the seeders.

Seeding always upserts the topics. The admin account is seeded when an email and a
password are given; --demo adds the sample templates owned by that admin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conf := configs.Conf().Database
		if migrateFlags.createDB {
			if err := database.EnsureDatabase(ctx, conf.MaintenanceDSN(), conf.Name); err != nil {
				return err
			}
		}

		if err := configs.InitDB(); err != nil {
			return err
		}
		defer configs.CloseDB()

		return database.Initialize(ctx, configs.GetDB(), database.Options{
			Migrate: true,
			Seed:    migrateFlags.seed || migrateFlags.demo,
			Demo:    migrateFlags.demo,
			Admin: seeders.AdminAccount{
				Name:     migrateFlags.adminName,
				Email:    migrateFlags.adminEmail,
				Password: migrateFlags.adminPassword,
			},
		})
	},
}

func init() {
	f := migrateCmd.Flags()
	f.BoolVar(&migrateFlags.seed, "seed", false, "Run the seeders after migrating")
	f.BoolVar(&migrateFlags.demo, "demo", false, "Seed demo templates owned by the admin (implies --seed)")
	f.BoolVar(&migrateFlags.createDB, "create-db", false, "Create the database first when it does not exist")
	f.StringVar(&migrateFlags.adminName, "admin-name", "Administrator", "Name of the seeded admin")
	f.StringVar(&migrateFlags.adminEmail, "admin-email", os.Getenv("FORMIFY_ADMIN_EMAIL"), "Email of the seeded admin")
	f.StringVar(&migrateFlags.adminPassword, "admin-password", os.Getenv("FORMIFY_ADMIN_PASSWORD"), "Password of the seeded admin")
}
