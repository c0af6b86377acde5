package systemd

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func TestGetListeners_NotActivated(t *testing.T) {
	t.Setenv("LISTEN_PID", "")
	t.Setenv("LISTEN_FDS", "")

	listeners, err := GetListeners()
	if err != nil {
		t.Fatalf("GetListeners() unexpected error: %v", err)
	}
	if listeners.Activated || listeners.HTTP != nil || listeners.Metrics != nil {
		t.Errorf("GetListeners() = %+v, want no activated listeners", listeners)
	}
}

func TestNotify_WithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")

	if err := NotifyReady(); err != nil {
		t.Errorf("NotifyReady() error = %v", err)
	}
	if err := NotifyStopping(); err != nil {
		t.Errorf("NotifyStopping() error = %v", err)
	}
}

func TestNotify_SendsToSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		t.Skipf("unixgram sockets unavailable: %v", err)
	}
	defer conn.Close()

	t.Setenv("NOTIFY_SOCKET", path)

	if err := NotifyReady(); err != nil {
		t.Fatalf("NotifyReady() error = %v", err)
	}

	buf := make([]byte, 64)
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read notification: %v", err)
	}
	if got := string(buf[:n]); got != "READY=1" {
		t.Errorf("notification = %q, want READY=1", got)
	}
}

func TestWatchdogInterval(t *testing.T) {
	t.Setenv("WATCHDOG_USEC", "")
	t.Setenv("WATCHDOG_PID", "")

	interval, err := WatchdogInterval()
	if err != nil || interval != 0 {
		t.Errorf("WatchdogInterval() = %v, %v; want 0, nil", interval, err)
	}

	t.Setenv("WATCHDOG_USEC", "2000000")
	t.Setenv("WATCHDOG_PID", strconv.Itoa(os.Getpid()))

	interval, err = WatchdogInterval()
	if err != nil {
		t.Fatalf("WatchdogInterval() error = %v", err)
	}
	if interval != time.Second {
		t.Errorf("WatchdogInterval() = %v, want 1s", interval)
	}
}
