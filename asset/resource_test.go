package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testScene = "from 0 0 0\nat 0 0 1\n"

func writeTempScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nff")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocalResource(t *testing.T) {
	path := writeTempScene(t)
	res, err := NewResource(path)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() || res.IsStdin() {
		t.Fatalf("expected a local resource")
	}
	if res.Path() != path {
		t.Fatalf("expected path to be %s; got %s", path, res.Path())
	}

	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testScene {
		t.Fatalf("expected to read %q; got %q", testScene, string(data))
	}
}

func TestMissingLocalResource(t *testing.T) {
	_, err := NewResource(filepath.Join(t.TempDir(), "missing.nff"))
	if err == nil || !os.IsNotExist(err) {
		t.Fatalf("expected a not-exist error; got %v", err)
	}
}

func TestStdinResource(t *testing.T) {
	for _, path := range []string{"", "-"} {
		res, err := NewResource(path)
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsStdin() {
			t.Fatalf("expected %q to select stdin", path)
		}
		if res.Path() != StdinName {
			t.Fatalf("expected path to be %s; got %s", StdinName, res.Path())
		}
		if err = res.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHttpResource(t *testing.T) {
	dir := filepath.Dir(writeTempScene(t))

	server := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer server.Close()

	fetchUrl := server.URL + "/test.nff"
	res, err := NewResource(fetchUrl)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if !res.IsRemote() {
		t.Fatal("expected a remote resource")
	}
	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testScene {
		t.Fatalf("expected to read %q; got %q", testScene, string(data))
	}

	fetchUrl = server.URL + "/file-not-found.foo"
	expError := fmt.Sprintf("resource: could not fetch '%s': status %d", fetchUrl, 404)
	_, err = NewResource(fetchUrl)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	expError := "resource: unsupported scheme 'gopher'"
	_, err := NewResource("gopher://digging.go")
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestResourceFromStream(t *testing.T) {
	res := NewResourceFromStream("embedded", strings.NewReader(testScene))
	defer res.Close()

	if res.Path() != "embedded" {
		t.Fatalf("expected path to be embedded; got %s", res.Path())
	}
	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testScene {
		t.Fatalf("expected to read %q; got %q", testScene, string(data))
	}
}
