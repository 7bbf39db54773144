package semantic

import (
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
)

// EncodePayload converts a payload map to Qdrant values. Unsupported types
// fall back to their string representation.
func EncodePayload(payload map[string]any) map[string]*pb.Value {
	out := make(map[string]*pb.Value, len(payload))
	for k, val := range payload {
		out[k] = encodeValue(val)
	}
	return out
}

func encodeValue(val any) *pb.Value {
	switch tv := val.(type) {
	case string:
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: tv}}
	case int:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(tv)}}
	case int64:
		return &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: tv}}
	case float64:
		return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: tv}}
	case float32:
		return &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: float64(tv)}}
	case bool:
		return &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: tv}}
	case []string:
		vals := make([]*pb.Value, len(tv))
		for i, s := range tv {
			vals[i] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: s}}
		}
		return &pb.Value{Kind: &pb.Value_ListValue{ListValue: &pb.ListValue{Values: vals}}}
	default:
		return &pb.Value{Kind: &pb.Value_StringValue{StringValue: fmt.Sprint(tv)}}
	}
}

// DecodePayload converts Qdrant values back to a plain payload map.
func DecodePayload(payload map[string]*pb.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, val := range payload {
		out[k] = decodeValue(val)
	}
	return out
}

func decodeValue(val *pb.Value) any {
	switch kind := val.GetKind().(type) {
	case *pb.Value_StringValue:
		return kind.StringValue
	case *pb.Value_IntegerValue:
		return kind.IntegerValue
	case *pb.Value_DoubleValue:
		return kind.DoubleValue
	case *pb.Value_BoolValue:
		return kind.BoolValue
	case *pb.Value_ListValue:
		items := make([]any, len(kind.ListValue.GetValues()))
		for i, v := range kind.ListValue.GetValues() {
			items[i] = decodeValue(v)
		}
		return items
	case *pb.Value_StructValue:
		nested := make(map[string]any, len(kind.StructValue.GetFields()))
		for k, v := range kind.StructValue.GetFields() {
			nested[k] = decodeValue(v)
		}
		return nested
	default:
		return nil
	}
}
