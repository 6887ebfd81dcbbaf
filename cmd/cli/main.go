package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cmoyo/payouts/infra"
	payoutrepo "github.com/cmoyo/payouts/infra/repository/payout"
	stripegw "github.com/cmoyo/payouts/infra/stripe"
	"github.com/cmoyo/payouts/pkg/config"
	payoutsvc "github.com/cmoyo/payouts/pkg/service/payout"
	"github.com/shopspring/decimal"
)

func usage() {
	fmt.Println("Usage: cli <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  sync                                          run a full bulk sync")
	fmt.Println("  refresh <payout_id>                           refresh one payout's status")
	fmt.Println("  create <amount> <currency> <destination>      create a payout")
	fmt.Println("  list <year> <month>                           list payouts of one month")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	cmd := os.Args[1]

	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Println("Failed to load configuration:", err)
		os.Exit(1)
	}
	logger := infra.SetupLogger(&cfg.Log)

	db, err := infra.NewDBConnection(&cfg.DB, cfg.Env)
	if err != nil {
		fmt.Println("Failed to connect to database:", err)
		os.Exit(1)
	}

	svc := payoutsvc.New(stripegw.New(&cfg.Stripe), payoutrepo.New(db), logger)
	ctx := context.Background()

	switch cmd {
	case "sync":
		summary, err := svc.SyncAll(ctx)
		if err != nil {
			fmt.Println("Error syncing payouts:", err)
			os.Exit(1)
		}
		fmt.Printf("Synced %d payouts, %d failed\n", summary.Synced, summary.Failed)
	case "refresh":
		if len(os.Args) < 3 {
			fmt.Println("Usage: refresh <payout_id>")
			return
		}
		if err := svc.RefreshStatus(ctx, os.Args[2]); err != nil {
			fmt.Println("Error refreshing payout:", err)
			os.Exit(1)
		}
		fmt.Println("Payout status refreshed:", os.Args[2])
	case "create":
		if len(os.Args) < 5 {
			fmt.Println("Usage: create <amount> <currency> <destination>")
			return
		}
		amount, err := decimal.NewFromString(os.Args[2])
		if err != nil {
			fmt.Println("Invalid amount:", err)
			return
		}
		record, err := svc.Create(ctx, payoutsvc.CreateParams{
			Amount:      amount,
			Currency:    os.Args[3],
			Destination: os.Args[4],
		})
		if err != nil {
			fmt.Println("Error creating payout:", err)
			os.Exit(1)
		}
		fmt.Printf("Payout created: %s %s %s\n", record.ExternalID, record.Amount, record.Currency)
	case "list":
		if len(os.Args) < 4 {
			fmt.Println("Usage: list <year> <month>")
			return
		}
		year, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("Invalid year:", err)
			return
		}
		month, err := strconv.Atoi(os.Args[3])
		if err != nil || month < 1 || month > 12 {
			fmt.Println("Invalid month")
			return
		}
		records, err := svc.InPeriod(ctx, year, time.Month(month))
		if err != nil {
			fmt.Println("Error listing payouts:", err)
			os.Exit(1)
		}
		for _, r := range records {
			status := ""
			if r.Status != nil {
				status = *r.Status
			}
			fmt.Printf("%s\t%s %s\t%s\n", r.ExternalID, r.Amount, r.Currency, status)
		}
	default:
		usage()
	}
}
