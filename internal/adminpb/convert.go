package adminpb

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/saasadmin/internal/adminapi"
	"google.golang.org/protobuf/types/known/structpb"
)

// ListResponseToStruct packs a listing into a protobuf Struct using its JSON
// field names.
func ListResponseToStruct(resp adminapi.ListResponse) (*structpb.Struct, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode listing: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode listing: %w", err)
	}
	return structpb.NewStruct(m)
}

// StructToListing decodes a listing received over gRPC with the same
// tolerant rules as the HTTP body.
func StructToListing(s *structpb.Struct) (*adminapi.Listing, error) {
	if s == nil {
		return nil, adminapi.ErrMalformed
	}
	return adminapi.DecodeListDocument(s.AsMap())
}
