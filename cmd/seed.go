package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"genie/store"
)

func init() {
	addAccountFlags(seedCmd)
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Write a demo account and its activities to Redis",
	Example: `  genie seed --user u1 --balance 125000 --savings 30000 --activity "Rent:-1200"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		user, acct, acts, err := accountFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		s := store.NewRedis(rdb)
		if err := s.PutAccount(ctx, user, acct); err != nil {
			return err
		}
		for _, a := range acts {
			if err := s.PushActivity(ctx, user, a); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %s with %d activities\n", user, len(acts))
		return nil
	},
}
