package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestFindEndpoint(t *testing.T) {
	path := LockfilePath(t.TempDir())

	tests := []struct {
		name       string
		content    string
		executable string
		want       string
		err        error
	}{
		{name: "valid", content: "8085|4242", executable: "slotbook", want: "http://127.0.0.1:8085/api/save"},
		{name: "old three part format", content: "8085|4242|secret", executable: "slotbook", err: ErrMalformedLockfile},
		{name: "garbage", content: "invalid", executable: "slotbook", err: ErrMalformedLockfile},
		{name: "port out of range", content: "70000|4242", executable: "slotbook", err: ErrMalformedLockfile},
		{name: "bad pid", content: "8085|abc", executable: "slotbook", err: ErrMalformedLockfile},
		{name: "dead process", content: "8085|4242", executable: "", err: ErrServerNotRunning},
		{name: "pid reused", content: "8085|4242", executable: "bash", err: ErrServerNotRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			got, err := FindEndpoint(path)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("FindEndpoint() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindEndpoint() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindEndpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindEndpointMissingLockfile(t *testing.T) {
	_, err := FindEndpoint(filepath.Join(t.TempDir(), "none.lock"))
	if !errors.Is(err, ErrServerNotRunning) {
		t.Errorf("FindEndpoint() error = %v, want ErrServerNotRunning", err)
	}
}

func TestWriteAndRemoveLockfile(t *testing.T) {
	stubProcess(t, "slotbook")
	oldPid := getpidFunc
	t.Cleanup(func() { getpidFunc = oldPid })
	getpidFunc = func() int { return 777 }

	path := LockfilePath(filepath.Join(t.TempDir(), "nested"))
	if err := WriteLockfile(path, 9001); err != nil {
		t.Fatalf("WriteLockfile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "9001|777" {
		t.Errorf("lockfile content = %q", content)
	}
	if got, err := FindEndpoint(path); err != nil || got != "http://127.0.0.1:9001/api/save" {
		t.Errorf("FindEndpoint() = %q, %v", got, err)
	}

	getpidFunc = func() int { return 778 }
	if err := RemoveLockfile(path); err != nil {
		t.Fatalf("RemoveLockfile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("lockfile of another process was removed")
	}

	getpidFunc = func() int { return 777 }
	if err := RemoveLockfile(path); err != nil {
		t.Fatalf("RemoveLockfile() error = %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("lockfile still present")
	}
	if err := RemoveLockfile(path); err != nil {
		t.Errorf("RemoveLockfile() on missing file = %v", err)
	}
}
