// Package redact masks credentials in URLs and transport errors before they
// reach the log. Xtream panels and M3U providers carry the password in the
// query string, so net/http errors quote it verbatim.
package redact

import (
	"errors"
	"net/url"
	"strings"
)

// Mask replaces every secret value
const Mask = "xxxxx"

var secretParams = map[string]bool{
	"password": true,
	"pass":     true,
	"pwd":      true,
	"token":    true,
	"api_key":  true,
}

// URL masks secret query parameters and the userinfo password of raw.
// Unparseable input is returned with every query dropped.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		if i := strings.IndexByte(raw, '?'); i >= 0 {
			return raw[:i]
		}
		return raw
	}

	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), Mask)
	}
	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			if secretParams[strings.ToLower(k)] {
				q.Set(k, Mask)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Error rewrites the URL quoted by a *url.Error anywhere in err's chain.
// The result is for logging only and does not unwrap.
func Error(err error) error {
	if err == nil {
		return nil
	}
	var ue *url.Error
	if !errors.As(err, &ue) || ue.URL == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), ue.URL, URL(ue.URL)))
}
