package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"complaintdedup/backend/internal/api/handler"
	"complaintdedup/backend/internal/complaint"
	"complaintdedup/backend/internal/config"
	"complaintdedup/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const usage = `Usage: admin <command> [args]

Commands:
  duplicate-stats              print the duplicate detection report
  stats                        print status, category and priority distributions
  show <complaint_id>          print one complaint
  set-status <complaint_id> <status>
  token <service> [hours]      issue a service token (default 24h)`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	command := os.Args[1]

	// token does not need the database
	if command == "token" {
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin token <service> [hours]")
			os.Exit(1)
		}
		hours := 24
		if len(os.Args) > 3 {
			hours, err = strconv.Atoi(os.Args[3])
			if err != nil || hours <= 0 {
				fmt.Println("Invalid duration. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		token, err := handler.GenerateServiceToken(cfg.ServiceJWTSecret, os.Args[2], time.Duration(hours)*time.Hour)
		if err != nil {
			log.Fatalf("Error generating token: %v", err)
		}
		fmt.Println(token)
		return
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI
	svc := complaint.NewService(storageSvc, cfg.Dedup)
	ctx := context.Background()

	switch command {
	case "duplicate-stats":
		stats, err := svc.DuplicateStats(ctx)
		if err != nil {
			log.Fatalf("Error fetching duplicate stats: %v", err)
		}
		printJSON(stats)
	case "stats":
		stats, err := svc.SystemStats(ctx)
		if err != nil {
			log.Fatalf("Error fetching stats: %v", err)
		}
		printJSON(stats)
	case "show":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin show <complaint_id>")
			os.Exit(1)
		}
		c, err := svc.GetComplaint(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Error fetching complaint: %v", err)
		}
		if c == nil {
			fmt.Printf("Complaint %s not found.\n", os.Args[2])
			os.Exit(1)
		}
		printJSON(c)
	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <complaint_id> <status>")
			os.Exit(1)
		}
		complaintID, status := os.Args[2], os.Args[3]
		ok, err := svc.UpdateComplaint(ctx, complaintID, map[string]interface{}{"status": status}, nil)
		if err != nil {
			log.Fatalf("Error updating complaint: %v", err)
		}
		if !ok {
			fmt.Printf("Complaint %s not found.\n", complaintID)
			os.Exit(1)
		}
		fmt.Printf("Complaint %s is now %s.\n", complaintID, status)
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Error encoding output: %v", err)
	}
	fmt.Println(string(out))
}
