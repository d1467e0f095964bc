package medication

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID is an opaque record identifier
type ID string

// NewID generates a random ID
func NewID() ID {
	return ID(uuid.New().String())
}

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts strings and the numeric timestamp ids older exports carry
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}

	*id = ID(n.String())
	return nil
}
