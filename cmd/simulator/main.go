package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global settings
	apiURL := "http://localhost:4000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}
	setupKey := os.Getenv("ADMIN_SETUP_KEY")

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "full":
		fullCmd(NewAPIClient(apiURL, setupKey), args)
	case "scan":
		scanCmd(NewAPIClient(apiURL, setupKey), args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Event Simulator - Development tool for exercising check-in and scans

USAGE:
  simulator <command> [options]

COMMANDS:
  full      Provision a company, register students and scan each of them
  scan      Log in as an existing company and scan the given payloads
  help      Show this help message

ENVIRONMENT:
  API_URL          Backend API URL (default: http://localhost:4000)
  ADMIN_SETUP_KEY  Setup key used to provision the simulated company

EXAMPLES:
  # Register 10 students and have "Simulated Company" scan them
  simulator full

  # Register 3 students with a custom email domain
  simulator full --count=3 --domain=isep.ipp.pt

  # Scan a student as Bosch
  simulator scan --company=Bosch --password=secret /p/abc123`)
}

func fullCmd(client *APIClient, args []string) {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	count := fs.Int("count", 10, "Number of students to register")
	domain := fs.String("domain", "isep.ipp.pt", "Institutional email domain")
	companyName := fs.String("company", "Simulated Company", "Name of the scanning company")
	password := fs.String("password", "simulator-password", "Password of the scanning company")
	fs.Parse(args)

	if *count < 1 {
		fmt.Println("Error: --count must be at least 1")
		os.Exit(1)
	}

	fmt.Println("=== Event Simulator: Full Flow ===")
	fmt.Println()

	// 1. Provision and log in the company
	fmt.Printf("Provisioning %s... ", *companyName)
	if err := client.ProvisionCompany(*companyName, "simulator@example.com", *password); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	login, err := client.Login(*companyName, *password)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (id: %s)\n", login.Company.ID)

	// 2. Register students and scan each one
	fmt.Println()
	fmt.Printf("Registering and scanning %d students:\n", *count)

	var last *Registration
	for i := 1; i <= *count; i++ {
		name := fmt.Sprintf("Student %d", i)
		email := fmt.Sprintf("student%d@%s", i, *domain)
		reg, err := client.RegisterStudent(name, email)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to register: %v\n", i, *count, err)
			os.Exit(1)
		}

		if _, err := client.Scan(login.Token, reg.PublicProfileURL); err != nil {
			fmt.Printf("  [%d/%d] FAILED to scan %s: %v\n", i, *count, reg.Slug, err)
			os.Exit(1)
		}

		last = reg
		fmt.Printf("  [%d/%d] %s scanned (slug: %s)\n", i, *count, name, reg.Slug)
	}

	dashboard, err := client.CompanyDashboard(login.Token)
	if err != nil {
		fmt.Printf("Failed to load dashboard: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  SIMULATION COMPLETE")
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  Company scans: %d\n", len(dashboard.Scans))
	fmt.Printf("  Last student dashboard: %s\n", last.DashboardURL)
	fmt.Println()
}

func scanCmd(client *APIClient, args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	company := fs.String("company", "", "Company name or email (required)")
	password := fs.String("password", "", "Company password (required)")
	fs.Parse(args)

	if *company == "" || *password == "" || fs.NArg() == 0 {
		fmt.Println("Error: --company, --password and at least one payload are required")
		fmt.Println("\nUsage: simulator scan --company=Bosch --password=secret /p/abc123 [...]")
		os.Exit(1)
	}

	login, err := client.Login(*company, *password)
	if err != nil {
		fmt.Printf("Failed to log in: %v\n", err)
		os.Exit(1)
	}

	for _, payload := range fs.Args() {
		result, err := client.Scan(login.Token, payload)
		if err != nil {
			fmt.Printf("  %s: FAILED (%v)\n", payload, err)
			continue
		}
		fmt.Printf("  %s: %s (scan %d)\n", payload, result.Message, result.Scan.ID)
	}
}
