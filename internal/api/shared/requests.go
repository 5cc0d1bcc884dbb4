package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DecodeJSON decodes the request body into the given struct. Handlers
// validate the decoded value themselves; this only covers transport.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
