package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/assets"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/database"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/logging"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/services"
	"github.com/ahmetcoskunkizilkaya/sewage-tracker/internal/storage"
)

const usage = `Usage: admin <command> [args]

Commands:
  migrate                      create or update tables
  list [status]                list complaints, newest first
  stats                        complaint counts per status
  history <id>                 status log of one complaint
  assign <id> <officer>        move a pending complaint to processing
  reassign <id> <officer>      hand a processing complaint to another officer
  complete <id> <image_path>   close a processing complaint with its after photo
  purge-logs [days]            delete system logs older than days (default LOG_RETENTION_DAYS)
  hash-password <password>     print a bcrypt hash for ADMIN_PASSWORD`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := os.Args[1]

	// needs no database
	if command == "hash-password" {
		requireArgs(3, "admin hash-password <password>")
		hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[2]), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("bcrypt failed: %v", err)
		}
		fmt.Println(string(hash))
		return
	}

	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// No stats cache here; cached counters expire after STATS_CACHE_TTL.
	newService := func() *services.ComplaintService {
		var assetStore assets.Store
		if command == "complete" {
			assetStore, err = assets.Open(cfg)
			if err != nil {
				log.Fatalf("asset store unavailable: %v", err)
			}
		}
		return services.NewComplaintService(storage.NewGormComplaintStore(db), assetStore, nil)
	}

	switch command {
	case "migrate":
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		fmt.Println("Migrations applied.")

	case "list":
		var status models.ComplaintStatus
		if len(os.Args) > 2 {
			status = models.ComplaintStatus(os.Args[2])
		}
		complaints, err := newService().List(ctx, status)
		if err != nil {
			log.Fatalf("Error listing complaints: %v", err)
		}
		for _, c := range complaints {
			officer := "-"
			if c.AssignedTo != nil {
				officer = *c.AssignedTo
			}
			fmt.Printf("#%d\t%-10s\t%s\t%s\t%s\n", c.ID, c.Status, c.SubmittedAt.Format(time.RFC3339), officer, c.Location)
		}
		fmt.Printf("%d complaint(s)\n", len(complaints))

	case "stats":
		stats, err := newService().Stats(ctx)
		if err != nil {
			log.Fatalf("Error loading stats: %v", err)
		}
		printJSON(stats)

	case "history":
		requireArgs(3, "admin history <id>")
		history, err := newService().History(ctx, parseID(os.Args[2]))
		if err != nil {
			log.Fatalf("Error loading history: %v", err)
		}
		printJSON(history)

	case "assign":
		requireArgs(4, "admin assign <id> <officer>")
		c, err := newService().Assign(ctx, parseID(os.Args[2]), os.Args[3])
		if err != nil {
			log.Fatalf("Error assigning complaint: %v", err)
		}
		fmt.Printf("Complaint %d assigned to %s.\n", c.ID, *c.AssignedTo)

	case "reassign":
		requireArgs(4, "admin reassign <id> <officer>")
		c, err := newService().Reassign(ctx, parseID(os.Args[2]), os.Args[3])
		if err != nil {
			log.Fatalf("Error reassigning complaint: %v", err)
		}
		fmt.Printf("Complaint %d reassigned to %s.\n", c.ID, *c.AssignedTo)

	case "complete":
		requireArgs(4, "admin complete <id> <image_path>")
		data, err := os.ReadFile(os.Args[3])
		if err != nil {
			log.Fatalf("Error reading image: %v", err)
		}
		c, err := newService().Complete(ctx, parseID(os.Args[2]), &services.Image{
			Filename: filepath.Base(os.Args[3]),
			Data:     data,
		})
		if err != nil {
			log.Fatalf("Error completing complaint: %v", err)
		}
		fmt.Printf("Complaint %d completed: %s\n", c.ID, *c.AfterImageURL)

	case "purge-logs":
		days := cfg.LogRetentionDays
		if len(os.Args) > 2 {
			days, err = strconv.Atoi(os.Args[2])
			if err != nil || days <= 0 {
				fmt.Println("Invalid days. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		deleted, err := logging.PurgeBefore(db.WithContext(ctx), time.Now().AddDate(0, 0, -days))
		if err != nil {
			log.Fatalf("Error purging logs: %v", err)
		}
		fmt.Printf("Deleted %d system log(s) older than %d days.\n", deleted, days)

	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func requireArgs(n int, form string) {
	if len(os.Args) < n {
		fmt.Println("Usage: " + form)
		os.Exit(1)
	}
}

func parseID(s string) uint {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		fmt.Println("Invalid complaint ID. Please provide a positive integer.")
		os.Exit(1)
	}
	return uint(id)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Error encoding output: %v", err)
	}
}
