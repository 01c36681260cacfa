package bootstrap

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fulldump/biff"
	"go.uber.org/zap"

	"github.com/fulldump/calorietracker/configuration"
	"github.com/fulldump/calorietracker/kvstore"
	"github.com/fulldump/calorietracker/recordstore"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().String()
}

func TestBootstrap(t *testing.T) {

	c := configuration.Default()
	c.HttpAddr = freeAddr(t)
	c.Store = kvstore.Config{
		Driver: string(kvstore.DriverFile),
		Dir:    t.TempDir(),
	}

	start, stop, err := Bootstrap(&c, zap.NewNop())
	biff.AssertNil(err)

	done := make(chan error, 1)
	go func() {
		done <- start()
	}()

	base := "http://" + c.HttpAddr

	status := ""
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
		resp, err := http.Get(base + "/status")
		if err == nil {
			body := map[string]any{}
			json.NewDecoder(resp.Body).Decode(&body)
			resp.Body.Close()
			status, _ = body["status"].(string)
			if status == "operating" {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	biff.AssertEqual(status, "operating")

	resp, err := http.Post(base+"/v1/records", "application/json", strings.NewReader(`{"name":"rice","calories":"100"}`))
	biff.AssertNil(err)
	resp.Body.Close()
	biff.AssertEqual(resp.StatusCode, http.StatusCreated)

	stop()

	select {
	case err := <-done:
		biff.AssertNil(err)
	case <-time.After(5 * time.Second):
		t.Fatal("start did not return after stop")
	}
}

func TestBootstrap_MalformedStore(t *testing.T) {

	dir := t.TempDir()
	biff.AssertNil(os.WriteFile(filepath.Join(dir, recordstore.DefaultKey), []byte("not json"), 0o644))

	c := configuration.Default()
	c.HttpAddr = freeAddr(t)
	c.Store = kvstore.Config{
		Driver: string(kvstore.DriverFile),
		Dir:    dir,
	}

	start, stop, err := Bootstrap(&c, zap.NewNop())
	biff.AssertNil(err)
	defer stop()

	done := make(chan error, 1)
	go func() {
		done <- start()
	}()

	select {
	case err := <-done:
		biff.AssertTrue(errors.Is(err, recordstore.ErrMalformed))
	case <-time.After(5 * time.Second):
		t.Fatal("start did not return after a failed session load")
	}
}

func TestBootstrap_AddressInUse(t *testing.T) {

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	biff.AssertNil(err)
	defer ln.Close()

	c := configuration.Default()
	c.HttpAddr = ln.Addr().String()

	_, _, err = Bootstrap(&c, zap.NewNop())
	biff.AssertNotNil(err)
}

func TestNewLogger(t *testing.T) {

	l, err := NewLogger(true)
	biff.AssertNil(err)
	biff.AssertTrue(l.Core().Enabled(zap.DebugLevel))

	l, err = NewLogger(false)
	biff.AssertNil(err)
	biff.AssertFalse(l.Core().Enabled(zap.DebugLevel))
}
