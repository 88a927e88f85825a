package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "auth":
		handleAuth(args)
	case "copy":
		handleCopy(args)
	case "content":
		handleContent(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: portfolio auth <login|logout|who>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "login":
		loginAdmin(args[1:])
	case "logout":
		logoutAdmin()
	case "who":
		whoAmI()
	default:
		fmt.Printf("unknown auth command: %s\n", subCmd)
	}
}

func handleCopy(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: portfolio copy <run|check|history>")
		return
	}

	subCmd := args[0]
	switch subCmd {
	case "run":
		runCopy(args[1:])
	case "check":
		checkConflict(args[1:])
	case "history":
		copyHistory(args[1:])
	default:
		fmt.Printf("unknown copy command: %s\n", subCmd)
	}
}

func handleContent(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: portfolio content <show>")
		return
	}

	switch args[0] {
	case "show":
		showContent(args[1:])
	default:
		fmt.Printf("unknown content command: %s\n", args[0])
	}
}

// Auth commands
func loginAdmin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "admin email")
	password := fs.String("password", "", "password")

	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: email and password are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"email": *email, "password": *password}
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+"/admin/login", "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		if token, ok := result["token"].(string); ok {
			saveToken(token)
			fmt.Printf("✓ Logged in as: %s\n", *email)
		}
	} else {
		fmt.Printf("✗ Login failed: %v\n", result)
	}
}

func logoutAdmin() {
	os.Remove(tokenFile())
	fmt.Println("✓ Logged out")
}

func whoAmI() {
	token := loadToken()
	if token == "" {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("✓ Logged in (token: %s...)\n", token[:20])
}

// Copy commands
func runCopy(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	entityType := fs.String("type", "", "entity type (projects, experience, education, tech-stack, skills, process-strategies, expertise-radar, personal)")
	entityID := fs.Int("id", 0, "source entity id (not used for personal)")
	resolution := fs.String("resolution", "", "conflict resolution: skip, replace or create-new (default)")
	targetID := fs.Int("target-id", 0, "target entity id, required for replace")
	field := fs.String("field", "", "single personal field to copy")
	tenant := fs.String("tenant", "internal", "acting tenant (internal or external)")

	fs.Parse(args)

	if *entityType == "" {
		fmt.Println("Error: -type is required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{"entityType": *entityType}
	if *entityID > 0 {
		payload["entityId"] = *entityID
	}
	if *resolution != "" {
		payload["conflictResolution"] = *resolution
	}
	if *targetID > 0 {
		payload["targetEntityId"] = *targetID
	}
	if *field != "" {
		payload["field"] = *field
	}

	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/admin/copy", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Tenant", *tenant)
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		fmt.Printf("✓ %v: %v\n", result["action"], result["entityName"])
	} else {
		fmt.Printf("✗ Copy failed (%d): %v\n", resp.StatusCode, result["error"])
	}
}

func checkConflict(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	entityType := fs.String("type", "", "entity type")
	entityID := fs.Int("id", 0, "source entity id")
	tenant := fs.String("tenant", "internal", "acting tenant (internal or external)")

	fs.Parse(args)

	if *entityType == "" || *entityID <= 0 {
		fmt.Println("Error: -type and -id are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]interface{}{"entityType": *entityType, "entityId": *entityID}
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", getAPIURL()+"/admin/copy/check", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Tenant", *tenant)
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode != 200 {
		fmt.Printf("✗ Check failed (%d): %v\n", resp.StatusCode, result["error"])
		return
	}
	if conflict, _ := result["conflict"].(bool); conflict {
		fmt.Println("! Conflict: a matching entity already exists on this tenant")
	} else {
		fmt.Println("✓ No conflict")
	}
}

func copyHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of records")
	tenant := fs.String("tenant", "internal", "acting tenant (internal or external)")

	fs.Parse(args)

	req, _ := http.NewRequest("GET", getAPIURL()+"/admin/copy/history?limit="+strconv.Itoa(*limit), nil)
	req.Header.Set("X-Admin-Tenant", *tenant)
	addAuthHeader(req)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result struct {
		Records []map[string]interface{} `json:"records"`
	}
	json.NewDecoder(resp.Body).Decode(&result)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tNAME\tACTION\tSOURCE\tTARGET\tCOPIED AT")
	for _, rec := range result.Records {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n",
			rec["entityType"], rec["entityName"], rec["action"],
			rec["sourceTenant"], rec["targetTenant"], rec["copiedAt"])
	}
	w.Flush()
}

// Content commands
func showContent(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	tenant := fs.String("tenant", "internal", "tenant (internal or external)")

	fs.Parse(args)

	resp, err := http.Get(getAPIURL() + "/content?tenant=" + *tenant)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var content map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&content)

	pretty, _ := json.MarshalIndent(content, "", "  ")
	fmt.Println(string(pretty))
}

// Helper functions
func getAPIURL() string {
	if url := os.Getenv("PORTFOLIO_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return home + "/.portfolio/token"
}

func saveToken(token string) error {
	home, _ := os.UserHomeDir()
	os.MkdirAll(home+"/.portfolio", 0700)
	return os.WriteFile(tokenFile(), []byte(token), 0600)
}

func loadToken() string {
	data, _ := os.ReadFile(tokenFile())
	return string(data)
}

func addAuthHeader(req *http.Request) {
	token := loadToken()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func printUsage() {
	fmt.Print(`Portfolio Backend CLI

Usage:
  portfolio <command> [options]

Commands:
  auth     Admin authentication (login, logout, who)
  copy     Cross-tenant copy operations (run, check, history)
  content  Public content (show)
  help     Show this help message

Environment Variables:
  PORTFOLIO_API    API endpoint (default: http://localhost:8080/api)

Examples:
  portfolio auth login -email admin@example.com -password pass
  portfolio copy check -type projects -id 3
  portfolio copy run -type projects -id 3 -resolution replace -target-id 7
  portfolio copy history -limit 10
  portfolio content show -tenant external
`)
}
