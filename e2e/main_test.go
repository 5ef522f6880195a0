package e2e

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

var (
	appURL string
)

const (
	port          = "8081"
	adminEmail    = "admin@example.com"
	adminPassword = "testpass123"
)

func TestMain(m *testing.M) {
	os.Exit(runTestMain(m))
}

func runTestMain(m *testing.M) int {
	binary := filepath.Join(os.TempDir(), "expense-journal-test")
	if err := buildServer(binary); err != nil {
		fmt.Println(err)
		return 1
	}
	defer os.Remove(binary)

	dbPath := filepath.Join(os.TempDir(), "test_expense_journal.db")
	os.Remove(dbPath)
	defer os.Remove(dbPath)

	appURL = "http://localhost:" + port

	server := exec.Command(binary)
	server.Env = append(os.Environ(),
		"PORT="+port,
		"DB_DRIVER=sqlite",
		"DB_PATH="+dbPath,
		"DATABASE_URL=",
		"APP_ENV=development",
		"JWT_SECRET=e2e-secret",
		"ADMIN_EMAIL="+adminEmail,
		"ADMIN_PASSWORD="+adminPassword,
	)
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Failed to start server: %v\n", err)
		return 1
	}
	defer func() {
		if err := server.Process.Kill(); err != nil {
			fmt.Printf("Failed to kill server: %v\n", err)
		}
	}()

	if !waitForHealthy(appURL+"/api/health", 5*time.Second) {
		fmt.Println("Server failed to start or is not reachable")
		return 1
	}

	return m.Run()
}

// buildServer compiles cmd/server, whether tests run from e2e/ or the module root.
func buildServer(output string) error {
	pkg := "../cmd/server"
	if _, err := os.Stat(pkg); os.IsNotExist(err) {
		pkg = "./cmd/server"
		if _, err := os.Stat(pkg); err != nil {
			return fmt.Errorf("could not find cmd/server to build")
		}
	}

	out, err := exec.Command("go", "build", "-o", output, pkg).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to build app: %v\n%s", err, out)
	}
	return nil
}

func waitForHealthy(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		resp, err := http.Get(url)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}
