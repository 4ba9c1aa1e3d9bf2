// Package mdbook implements the mdBook preprocessor protocol.
//
// The host writes a JSON array [context, book] to the preprocessor's stdin and
// expects the processed book as JSON on stdout. A non-zero exit status tells the
// host the preprocessor failed.
package mdbook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/mod/semver"
)

// SupportedVersion is the mdBook release the book model was written against.
const SupportedVersion = "0.4.40"

// ParseInput decodes the [context, book] pair the host writes to stdin.
// The context is returned as a generic map so templates see it verbatim.
func ParseInput(r io.Reader) (map[string]any, *domain.Book, error) {
	var pair []json.RawMessage
	if err := json.NewDecoder(r).Decode(&pair); err != nil {
		return nil, nil, domain.NewError(domain.KindParse, "read host input", "", err)
	}
	if len(pair) != 2 {
		return nil, nil, domain.NewError(domain.KindParse, "read host input", "",
			fmt.Errorf("expected [context, book], got %d elements", len(pair)))
	}

	var host map[string]any
	if err := json.Unmarshal(pair[0], &host); err != nil {
		return nil, nil, domain.NewError(domain.KindParse, "read host context", "", err)
	}
	if host == nil {
		host = map[string]any{}
	}

	var book domain.Book
	if err := json.Unmarshal(pair[1], &book); err != nil {
		return nil, nil, domain.NewError(domain.KindParse, "read book", "", err)
	}
	return host, &book, nil
}

// WriteBook encodes book the way the host reads it back.
func WriteBook(w io.Writer, book *domain.Book) error {
	if book == nil {
		book = &domain.Book{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(book); err != nil {
		return domain.NewError(domain.KindIo, "write book", "", err)
	}
	return nil
}

// DecodeHostContext returns the typed view of the host metadata.
func DecodeHostContext(host map[string]any) (domain.HostContext, error) {
	var hc domain.HostContext
	if err := mapstructure.Decode(host, &hc); err != nil {
		return domain.HostContext{}, domain.NewError(domain.KindParse, "decode host context", "", err)
	}
	return hc, nil
}

// CheckVersion compares the host's version with supported using caret rules:
// same major, same minor while the major is 0, and not older than supported.
// It returns a warning to show the user, or "" when the versions are compatible.
// An unparsable host version is reported, never treated as fatal.
func CheckVersion(host domain.HostContext, supported string) string {
	if host.MdbookVersion == "" {
		return ""
	}
	have, want := canonical(host.MdbookVersion), canonical(supported)
	if !semver.IsValid(have) || !semver.IsValid(want) {
		return fmt.Sprintf("cannot compare mdbook version %q with %q", host.MdbookVersion, supported)
	}

	compatible := semver.Major(have) == semver.Major(want) && semver.Compare(have, want) >= 0
	if compatible && semver.Major(want) == "v0" {
		compatible = semver.MajorMinor(have) == semver.MajorMinor(want)
	}
	if compatible {
		return ""
	}
	return fmt.Sprintf("the inkwell preprocessor was built against mdbook %s, but is being called from version %s",
		supported, host.MdbookVersion)
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
