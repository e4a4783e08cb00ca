package oro

import "fmt"

// AuthError reports a failed OAuth2 client-credentials exchange. Status is
// zero when the request never reached the server.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token request failed: %v", e.Err)
	}
	if e.Status >= 200 && e.Status < 300 {
		return "token response missing access_token"
	}
	return fmt.Sprintf("token endpoint returned HTTP %d", e.Status)
}

func (e *AuthError) Unwrap() error { return e.Err }

// LookupError reports a failed SKU existence check. No create or update is
// attempted after a lookup failure.
type LookupError struct {
	Status int
	Body   string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("product lookup failed: %v", e.Err)
	}
	return fmt.Sprintf("product lookup returned HTTP %d", e.Status)
}

func (e *LookupError) Unwrap() error { return e.Err }

// AmbiguousSKUError reports more than one remote product matching a SKU that
// is expected to be unique. This signals upstream data corruption; the client
// refuses to pick a record and issues no mutating call.
type AmbiguousSKUError struct {
	SKU   string
	Count int
}

func (e *AmbiguousSKUError) Error() string {
	return fmt.Sprintf("sku %q matches %d products, expected at most one", e.SKU, e.Count)
}

// UpsertError reports a failed create or update call. Op is "create" or
// "update"; the remote status and body are carried verbatim for the caller
// to surface.
type UpsertError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *UpsertError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("product %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("product %s returned HTTP %d", e.Op, e.Status)
}

func (e *UpsertError) Unwrap() error { return e.Err }
