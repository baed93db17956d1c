// Package restyutil keeps copies of fetched documents on disk so a failed
// parse can be inspected after the run.
package restyutil

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	devenv "banks-etl/dev/env"

	"github.com/go-resty/resty/v2"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Dump struct {
	directory string
}

// NewDump creates dir if it doesn't exist, dir may start with
// <dev_state>. Existing dumps are kept and overwritten only when the same
// url is fetched again.
func NewDump(dir string) (Dump, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return Dump{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return Dump{}, err
	}
	return Dump{directory: dir}, nil
}

func (d Dump) Directory() string {
	return d.directory
}

// FileName returns the name a response for the given url is stored under.
func FileName(rawUrl string) string {
	name := rawUrl
	link, err := url.Parse(rawUrl)
	if err == nil {
		name = link.Host + link.Path
	}
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "_"), "_")
	if name == "" {
		name = "index"
	}
	return name + ".html"
}

func (d Dump) Write(rawUrl string, body []byte) error {
	return os.WriteFile(filepath.Join(d.directory, FileName(rawUrl)), body, 0600)
}

// Attach writes every response body received by the client into the dump.
// Failing to write is logged, it never fails the request.
func (d Dump) Attach(client *resty.Client) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		err := d.Write(res.Request.URL, res.Body())
		if err != nil {
			slog.Warn("failed to dump response", "url", res.Request.URL, "err", err)
		}
		return nil
	})
}
