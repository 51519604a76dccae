package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"marquee/internal/config"
	"marquee/internal/schedule"
	"marquee/internal/services"
)

const (
	catalogCheckName = "TMDB"
	catalogTimeout   = 10 * time.Second
)

// CheckCatalog verifies that the catalog API is reachable and the key is
// accepted. It makes a single attempt.
func CheckCatalog(ctx context.Context, catalog Pinger) Result {
	checkCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()

	if err := catalog.Ping(checkCtx); err != nil {
		return Result{Name: catalogCheckName, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: catalogCheckName, Passed: true, Detail: "API reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSchedule opens the schedule database and reads from it.
func CheckSchedule(ctx context.Context, path string) Result {
	const name = "Schedule store"

	store, err := schedule.OpenPath(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d posts)", path, count)}
}

// CheckNotifications reports whether an ntfy topic is configured.
func CheckNotifications(cfg *config.Config) Result {
	const name = "Notifications"

	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return Result{Name: name, Passed: true, Detail: "disabled"}
	}
	return Result{Name: name, Passed: true, Detail: topic}
}

func summarizeCatalogError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (TMDB unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (TMDB unreachable)"
	}
	if errors.Is(err, services.ErrConfiguration) {
		return "api key rejected"
	}
	return err.Error()
}
