package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// The name reported for resources read from the standard input.
const StdinName = "<stdin>"

// The Resource type wraps a local file, a remote http(s) document or the
// standard input as a readable stream.
type Resource struct {
	io.ReadCloser
	url   *url.URL
	stdin bool
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	if r.stdin {
		return StdinName
	}
	return r.url.String()
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url != nil && r.url.Scheme != ""
}

// Returns true if the Resource reads from the standard input.
func (r *Resource) IsStdin() bool {
	return r.stdin
}

// Create a new Resource data stream. An empty path or "-" selects the
// standard input; closing such a resource leaves os.Stdin open.
//
// This function can handle http/https URLs by delegating to the net/http package.
// The caller must make sure to close the returned resource to prevent leaks.
func NewResource(pathToResource string) (*Resource, error) {
	if pathToResource == "" || pathToResource == "-" {
		return &Resource{
			ReadCloser: io.NopCloser(os.Stdin),
			url:        &url.URL{},
			stdin:      true,
		}, nil
	}

	// Replace backslashes with forward slashes and try parsing as a URL
	url, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("resource: invalid path '%s': %w", pathToResource, err)
	}

	var reader io.ReadCloser
	switch url.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(url.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(url.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %w", url.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", url.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", url.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        url,
	}, nil
}

// Create a resource from a reader.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	u, err := url.Parse(name)
	if err != nil {
		u = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        u,
	}
}
