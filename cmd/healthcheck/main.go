// Command healthcheck probes the running server and exits non-zero when it is
// not healthy. It is meant for container HEALTHCHECK instructions.
package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

const timeout = 5 * time.Second

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	target := fmt.Sprintf("http://%s%s",
		net.JoinHostPort(getenv("HEALTHCHECK_HOST", "localhost"), getenv("HEALTHCHECK_PORT", "8000")),
		getenv("HEALTHCHECK_PATH", "/health"))

	os.Exit(check(&http.Client{Timeout: timeout}, target))
}

// check returns the process exit code for a probe of target.
func check(client *http.Client, target string) int {
	resp, err := client.Get(target)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			fmt.Fprintf(os.Stderr, "Health check failed: request timed out after %s\n", timeout)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Health check failed: %s returned status %d\n", target, resp.StatusCode)
		return 1
	}
	fmt.Printf("Health check successful: %s returned status %d\n", target, resp.StatusCode)
	return 0
}
