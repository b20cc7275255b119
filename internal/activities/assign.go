package activities

import (
	"encoding/json"
	"fmt"
)

// assign copies a fetched value into dest the same way a cache hit would
func assign(v interface{}, dest interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	return json.Unmarshal(data, dest)
}
