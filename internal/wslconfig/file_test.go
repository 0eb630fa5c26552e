package wslconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".wslconfig")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestCurrentKernel(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[wsl2]\nmemory=8GB\nkernel=C:\\\\Users\\\\me\\\\wsl\\\\6.1.4-a-b-xanmod1.2\n# kernel=C:\\\\old\n")
	got, err := CurrentKernel(path)
	if err != nil {
		t.Fatalf("CurrentKernel: %v", err)
	}
	if want := `C:\\Users\\me\\wsl\\6.1.4-a-b-xanmod1.2`; got != want {
		t.Fatalf("kernel: got %q want %q", got, want)
	}
}

func TestCurrentKernelErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"missing section", "[experimental]\nkernel=C:\\k\n", ErrMissingSection},
		{"missing option", "[wsl2]\nmemory=8GB\n", ErrMissingKernel},
		{"only commented option", "[wsl2]\n# kernel=C:\\k\n", ErrMissingKernel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := CurrentKernel(writeConfig(t, tc.doc))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v want %v", err, tc.wantErr)
			}
		})
	}

	_, err := CurrentKernel(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("missing file: got %v want ErrMissingFile", err)
	}
}

func TestParseKernelCaseInsensitive(t *testing.T) {
	t.Parallel()

	got, err := ParseKernel([]byte("[WSL2]\nKernel=C:\\k\n"))
	if err != nil {
		t.Fatalf("ParseKernel: %v", err)
	}
	if got != `C:\k` {
		t.Fatalf("kernel: got %q", got)
	}
}

func TestUpdateFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, sampleDoc)
	if err := UpdateFile(path, `C:\old\bzImage`, "C:\\new\\bzImage\n"); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "[wsl2]\nmemory=8GB\nkernel=C:\\\\new\\\\bzImage\n# kernel=C:\\old\\bzImage\nswap=0\n"
	if string(data) != want {
		t.Fatalf("file:\ngot  %q\nwant %q", string(data), want)
	}

	got, err := CurrentKernel(path)
	if err != nil {
		t.Fatalf("CurrentKernel after update: %v", err)
	}
	if got != `C:\\new\\bzImage` {
		t.Fatalf("kernel after update: got %q", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode: got %v want 0600", info.Mode().Perm())
	}
}

func TestUpdateFileDriftLeavesFileAlone(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, sampleDoc)
	err := UpdateFile(path, `C:\other\bzImage`, "C:\\new\\bzImage\n")
	if !errors.Is(err, ErrConfigDrift) {
		t.Fatalf("got %v want ErrConfigDrift", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != sampleDoc {
		t.Fatalf("file changed: %q", string(data))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestUpdateFileCRLF(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "[wsl2]\r\nmemory=8GB\r\nkernel=C:\\\\wsl\\\\6.1.60-a-b-xanmod1.1-lts\r\nswap=0\r\n")
	current, err := CurrentKernel(path)
	if err != nil {
		t.Fatalf("CurrentKernel: %v", err)
	}
	if err := CheckRewritable(path, current); err != nil {
		t.Fatalf("CheckRewritable: %v", err)
	}
	if err := UpdateFile(path, current, "C:\\wsl\\6.1.70-a-b-xanmod1.2-lts\r\n"); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "[wsl2]\r\nmemory=8GB\r\nkernel=C:\\\\wsl\\\\6.1.70-a-b-xanmod1.2-lts\r\n# kernel=C:\\\\wsl\\\\6.1.60-a-b-xanmod1.1-lts\r\nswap=0\r\n"
	if string(data) != want {
		t.Fatalf("file:\ngot  %q\nwant %q", string(data), want)
	}
}

func TestCheckRewritable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		current string
		wantErr error
	}{
		{"matches", sampleDoc, `C:\old\bzImage`, nil},
		{"spaced key", "[wsl2]\nkernel = C:\\old\\bzImage\n", `C:\old\bzImage`, ErrConfigDrift},
		{"kernel on first line", "kernel=C:\\old\\bzImage\n[wsl2]\n", `C:\old\bzImage`, ErrConfigDrift},
		{"other value", sampleDoc, `C:\other\bzImage`, ErrConfigDrift},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfig(t, tc.doc)
			err := CheckRewritable(path, tc.current)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CheckRewritable: got %v want %v", err, tc.wantErr)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(data) != tc.doc {
				t.Fatalf("file changed: %q", string(data))
			}
		})
	}

	if err := CheckRewritable(filepath.Join(t.TempDir(), "missing"), "x"); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("missing file: got %v want ErrMissingFile", err)
	}
}
