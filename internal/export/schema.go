package export

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
)

// ReportSchema returns the JSON schema of the report document, for consumers
// that validate exports without importing this module.
func ReportSchema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(&Report{})

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeSchemaFailed, "failed to marshal report schema", err)
	}

	return string(jsonSchemaBytes), nil
}
