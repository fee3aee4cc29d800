//go:build unit || e2e

package testutil

type omitted struct{}

// Omit passed to Field removes the key, so a request can lack a field
// entirely. A plain nil sends an explicit JSON null.
var Omit = omitted{}

// Field returns a DtoMap mutation that sets or removes one request field.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		if _, ok := value.(omitted); ok {
			delete(m, key)
			return
		}
		m[key] = value
	}
}
