package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yomanFX/vikula2/internal/daemon"
	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/infra/sqlite"
	"github.com/yomanFX/vikula2/internal/ledger"
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().String("config", "", "Path to config.toml (default ~/.vikula2/config.toml)")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print both members' trust scores",
	Long:  `Read the local ledger and print each member's derived score and tier.`,
	RunE:  runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := daemon.Load(cfgPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.LedgerPath())
	if err != nil {
		return fmt.Errorf("open ledger database: %w", err)
	}
	defer db.Close()

	store := ledger.New(db)
	cards, err := store.Scores(context.Background())
	if err != nil {
		return err
	}

	for _, who := range domain.Identities() {
		card := cards[who]
		fmt.Fprintf(os.Stdout, "%s: %d — %s (%s)\n",
			who, card.Score, card.Tier.Name, card.Tier.Desc)
	}
	return nil
}
