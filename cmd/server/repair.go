package main

import (
	"github.com/spf13/cobra"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
)

var repairCmd = &cobra.Command{
	Use:   "repair-usernames",
	Short: "Replace stored provider identifiers with readable usernames",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}

		identityService := services.NewIdentityService(repository.NewUserRepository(db), log, nil)
		n, err := identityService.RepairOpaqueUsernames(cmd.Context())
		if err != nil {
			return err
		}
		log.WithField("repaired", n).Info("Username repair finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
