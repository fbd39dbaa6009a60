package plan

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Features is the canonical ordered list of plan feature strings. Legacy
// rows stored the column as a JSON array, a comma-separated string, or a
// JSON object; all three decode here so read sites never see the raw form.
type Features []string

func (f *Features) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*f = Features{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported features column type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*f = Features{}
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return fmt.Errorf("invalid features array: %w", err)
		}
		*f = list
		return nil
	}

	if strings.HasPrefix(raw, "{") {
		var obj map[string]string
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return fmt.Errorf("invalid features object: %w", err)
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		list := make([]string, 0, len(obj))
		for _, k := range keys {
			list = append(list, obj[k])
		}
		*f = list
		return nil
	}

	parts := strings.Split(raw, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			list = append(list, t)
		}
	}
	*f = list
	return nil
}

// Value always writes the canonical JSON array form.
func (f Features) Value() (driver.Value, error) {
	if f == nil {
		f = Features{}
	}
	data, err := json.Marshal([]string(f))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
