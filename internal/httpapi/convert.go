package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/BrandonDHaskell/kiosk/internal/kiosk/types"
)

var errQRUUIDNotString = errors.New("qrUuid must be a string")

// validateRequestFromStruct reads qrUuid out of a reader's Struct payload.
// A missing field yields an empty credential; a non-string one is malformed.
func validateRequestFromStruct(st *structpb.Struct) (types.ValidateRequest, error) {
	v, ok := st.GetFields()["qrUuid"]
	if !ok {
		return types.ValidateRequest{}, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return types.ValidateRequest{QRUUID: k.StringValue}, nil
	case *structpb.Value_NullValue:
		return types.ValidateRequest{}, nil
	default:
		return types.ValidateRequest{}, errQRUUIDNotString
	}
}

// toStruct converts a JSON-tagged response value into a Struct with the same
// field names the JSON encoding uses.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return structpb.NewStruct(m)
}
