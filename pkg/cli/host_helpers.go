package cli

import (
	"net/url"
	"strings"

	"louslist/internal/domain"
)

// validateHostURL checks a --host, LOUSLIST_HOST or profile value. The
// server is addressed by scheme and authority only; every route hangs off
// the root.
func validateHostURL(host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return domain.ErrValidation("server URL is empty; pass --host or set LOUSLIST_HOST")
	}

	u, err := url.Parse(host)
	if err != nil {
		return domain.ErrValidation("server URL %q is not a URL: %v", host, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return domain.ErrValidation("server URL %q must start with http:// or https://", host)
	case u.Host == "":
		return domain.ErrValidation("server URL %q has no host name", host)
	case u.User != nil:
		return domain.ErrValidation("server URL %q must not carry credentials", host)
	case u.Path != "" && u.Path != "/":
		return domain.ErrValidation("server URL %q must not include a path such as %q", host, u.Path)
	case u.RawQuery != "" || u.Fragment != "":
		return domain.ErrValidation("server URL %q must not include a query or fragment", host)
	}
	return nil
}
