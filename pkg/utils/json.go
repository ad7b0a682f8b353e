package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PrettyJson indenta um valor (ou um []byte já serializado) para logs de debug.
// Se não for JSON válido, devolve o conteúdo como veio.
func PrettyJson(in any) string {
	var buffer []byte

	switch v := in.(type) {
	case []byte:
		buffer = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		buffer = encoded
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buffer, "", "\t"); err != nil {
		return string(buffer)
	}

	return out.String()
}
