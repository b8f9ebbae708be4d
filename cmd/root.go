package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"genie/assistant"
	"genie/config"
	"genie/observability"
)

var (
	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "genie",
	Short: "Genie in-app financial assistant",
	Long: `Genie answers short money questions from a user's account snapshot,
suggests follow-ups and tells the app which screen to open next.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides GENIE_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("policy", "", "policy YAML file (overrides GENIE_POLICY_FILE)")
}

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		cfg.PolicyFile = p
	}
	observability.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// parseActivities reads "Title:amount" pairs, listed oldest first.
func parseActivities(raw []string) ([]assistant.Activity, error) {
	out := make([]assistant.Activity, 0, len(raw))
	for _, r := range raw {
		i := strings.LastIndex(r, ":")
		if i <= 0 {
			return nil, fmt.Errorf("activity %q: want Title:amount", r)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(r[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", r, err)
		}
		out = append(out, assistant.Activity{Title: strings.TrimSpace(r[:i]), Amount: amount})
	}
	return out, nil
}

func addAccountFlags(cmd *cobra.Command) {
	cmd.Flags().String("user", "demo", "user id")
	cmd.Flags().Float64("balance", 0, "current balance")
	cmd.Flags().Float64("portfolio", 0, "portfolio value")
	cmd.Flags().Float64("savings", 0, "savings balance")
	cmd.Flags().Float64("expenses", 0, "monthly expenses (0 = unknown)")
	cmd.Flags().StringArray("activity", nil, "activity as Title:amount, oldest first (repeatable)")
}

func accountFromFlags(cmd *cobra.Command) (string, assistant.AccountSnapshot, []assistant.Activity, error) {
	user, _ := cmd.Flags().GetString("user")
	balance, _ := cmd.Flags().GetFloat64("balance")
	portfolio, _ := cmd.Flags().GetFloat64("portfolio")
	savings, _ := cmd.Flags().GetFloat64("savings")
	expenses, _ := cmd.Flags().GetFloat64("expenses")
	raw, _ := cmd.Flags().GetStringArray("activity")

	acts, err := parseActivities(raw)
	if err != nil {
		return "", assistant.AccountSnapshot{}, nil, err
	}
	acct := assistant.AccountSnapshot{
		Balance:         balance,
		PortfolioValue:  portfolio,
		Savings:         savings,
		MonthlyExpenses: expenses,
	}
	if err := (assistant.Context{Account: &acct, Activities: acts}).Validate(); err != nil {
		return "", assistant.AccountSnapshot{}, nil, err
	}
	return user, acct, acts, nil
}
