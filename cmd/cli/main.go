package main

import (
	"bufio"
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	appdb "github.com/yourorg/gadhub/internal/db"
	"github.com/yourorg/gadhub/internal/models"
	"github.com/yourorg/gadhub/internal/session"
)

var (
	httpClient = &http.Client{Timeout: 15 * time.Second}
	sessions   = session.NewFileStore(session.DefaultPath())
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== GADHub CLI ====")
		if sess, ok := sessions.Load(); ok {
			fmt.Printf("(signed in as %s %s <%s>)\n", sess.User.FirstName, sess.User.LastName, sess.User.Email)
		}
		fmt.Println("1) Health check API")
		fmt.Println("2) Sign up")
		fmt.Println("3) Log in")
		fmt.Println("4) Show profile")
		fmt.Println("5) Log out")
		fmt.Println("6) Seed database (create sample user)")
		fmt.Println("7) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		switch strings.TrimSpace(choice) {
		case "1":
			doHealthCheck()
		case "2":
			doSignup(reader)
		case "3":
			doLogin(reader)
		case "4":
			doProfile()
		case "5":
			doLogout()
		case "6":
			doSeed()
		case "7":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func baseURL() string {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	return strings.TrimRight(base, "/")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func doHealthCheck() {
	resp, err := httpClient.Get(baseURL() + "/api/health")
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func doSignup(reader *bufio.Reader) {
	req := models.SignupRequest{
		StudentID: prompt(reader, "Student ID: "),
		Email:     prompt(reader, "Email: "),
		FirstName: prompt(reader, "First name: "),
		LastName:  prompt(reader, "Last name: "),
		Birthday:  prompt(reader, "Birthday (YYYY-MM-DD): "),
		Password:  prompt(reader, "Password (min 8 chars): "),
	}

	status, body, err := postJSON("/api/auth/signup", req, "")
	if err != nil {
		fmt.Println("Signup: ERROR:", err)
		return
	}
	if status != http.StatusCreated {
		fmt.Printf("Signup failed (%d): %s\n", status, body)
		return
	}
	fmt.Println("Signup OK — now log in with option 3")
}

func doLogin(reader *bufio.Reader) {
	req := models.LoginRequest{
		Email:    prompt(reader, "Email: "),
		Password: prompt(reader, "Password: "),
	}

	status, body, err := postJSON("/api/auth/login", req, "")
	if err != nil {
		fmt.Println("Login: ERROR:", err)
		return
	}
	if status != http.StatusOK {
		fmt.Printf("Login failed (%d): %s\n", status, body)
		return
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		fmt.Println("Login: bad response:", err)
		return
	}
	if err := sessions.Save(session.Session{User: resp.User, Token: resp.Token}); err != nil {
		fmt.Println("Login: failed to persist session:", err)
		return
	}
	fmt.Printf("Welcome, %s! Session valid until %s\n", resp.User.FirstName, resp.ExpiresAt.Format(time.RFC1123))
}

func doProfile() {
	sess, ok := sessions.Load()
	if !ok {
		fmt.Println("No session — log in first (option 3)")
		return
	}

	req, err := http.NewRequest(http.MethodGet, baseURL()+"/api/auth/profile", nil)
	if err != nil {
		fmt.Println("Profile: ERROR:", err)
		return
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)

	resp, err := httpClient.Do(req)
	if err != nil {
		fmt.Println("Profile: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		// Session is dead server-side; drop it and force re-login.
		fmt.Println("Session expired or invalid — please log in again")
		_ = sessions.Clear()
		return
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Profile failed (%d): %s\n", resp.StatusCode, body)
		return
	}

	var parsed struct {
		User models.PublicUser `json:"user"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println("Profile: bad response:", err)
		return
	}
	fmt.Printf("Student ID: %s\nName: %s %s\nEmail: %s\nBirthday: %s\n",
		parsed.User.StudentID, parsed.User.FirstName, parsed.User.LastName,
		parsed.User.Email, parsed.User.Birthday)
	if parsed.User.Avatar != nil {
		fmt.Printf("Avatar: %s\n", parsed.User.Avatar.URL)
	}

	// Keep the cached projection fresh without touching the token.
	_ = sessions.UpdateUser(parsed.User)
}

func doLogout() {
	if err := sessions.Clear(); err != nil {
		fmt.Println("Logout: ERROR:", err)
		return
	}
	fmt.Println("Logged out")
}

func postJSON(path string, payload interface{}, token string) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequest(http.MethodPost, baseURL()+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, nil
}

func doSeed() {
	db, err := appdb.Connect()
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}
	seedUser(db)
	seedHotlines(db)
}

func seedUser(db *sql.DB) {
	email := "demo@gadhub.example"
	password := "demo12345"

	var exists int
	_ = db.QueryRow("SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if exists == 1 {
		fmt.Println("Seed: user 'demo' already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Println("Seed: bcrypt error:", err)
		return
	}
	_, err = db.Exec(`
		INSERT INTO users (student_id, email, first_name, last_name, birthday, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`, "TUPT-00-0000", email, "Demo", "User", "2000-01-01", string(hash))
	if err != nil {
		fmt.Println("Seed: insert error:", err)
		return
	}
	fmt.Printf("Seed: created user %q with password %q\n", email, password)
}

func seedHotlines(db *sql.DB) {
	var count int
	_ = db.QueryRow("SELECT COUNT(*) FROM hotlines").Scan(&count)
	if count > 0 {
		return
	}
	_, err := db.Exec(`
		INSERT INTO hotlines (name, office, phone, category) VALUES
		('VAWC Help Desk', 'Campus GAD Office', '(02) 8888-0000', 'support'),
		('Campus Security', 'Security Office', '(02) 8888-0001', 'emergency'),
		('Guidance Counseling', 'Guidance Office', '(02) 8888-0002', 'support')
	`)
	if err != nil {
		fmt.Println("Seed: hotlines insert error:", err)
		return
	}
	fmt.Println("Seed: created sample hotlines")
}
