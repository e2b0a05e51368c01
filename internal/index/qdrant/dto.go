package qdrant

import (
	"fmt"

	qpb "github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/matchdex/internal/domain/filter"
	"github.com/kailas-cloud/matchdex/internal/domain/plan"
)

func ptr[T any](v T) *T { return &v }

func pointID(id string) *qpb.PointId {
	return &qpb.PointId{PointIdOptions: &qpb.PointId_Uuid{Uuid: id}}
}

func pointsSelector(ids ...string) *qpb.PointsSelector {
	pids := make([]*qpb.PointId, len(ids))
	for i, id := range ids {
		pids[i] = pointID(id)
	}
	return &qpb.PointsSelector{
		PointsSelectorOneOf: &qpb.PointsSelector_Points{
			Points: &qpb.PointsIdsList{Ids: pids},
		},
	}
}

func enablePayload() *qpb.WithPayloadSelector {
	return &qpb.WithPayloadSelector{
		SelectorOptions: &qpb.WithPayloadSelector_Enable{Enable: true},
	}
}

// vectorValue converts a plan vector to the storage representation.
func vectorValue(v plan.Vector) *qpb.Vector {
	if v.IsMulti() {
		rows := make([]*qpb.DenseVector, len(v.MultiValues()))
		for i, row := range v.MultiValues() {
			rows[i] = &qpb.DenseVector{Data: row}
		}
		return &qpb.Vector{Vector: &qpb.Vector_MultiDense{
			MultiDense: &qpb.MultiDenseVector{Vectors: rows},
		}}
	}
	return &qpb.Vector{Vector: &qpb.Vector_Dense{
		Dense: &qpb.DenseVector{Data: v.DenseValues()},
	}}
}

func vectorsValue(vectors map[string]plan.Vector) *qpb.Vectors {
	named := make(map[string]*qpb.Vector, len(vectors))
	for name, v := range vectors {
		named[name] = vectorValue(v)
	}
	return &qpb.Vectors{
		VectorsOptions: &qpb.Vectors_Vectors{
			Vectors: &qpb.NamedVectors{Vectors: named},
		},
	}
}

// vectorInput converts a plan vector to the query representation.
func vectorInput(v plan.Vector) *qpb.VectorInput {
	if v.IsMulti() {
		rows := make([]*qpb.DenseVector, len(v.MultiValues()))
		for i, row := range v.MultiValues() {
			rows[i] = &qpb.DenseVector{Data: row}
		}
		return &qpb.VectorInput{Variant: &qpb.VectorInput_MultiDense{
			MultiDense: &qpb.MultiDenseVector{Vectors: rows},
		}}
	}
	return &qpb.VectorInput{Variant: &qpb.VectorInput_Dense{
		Dense: &qpb.DenseVector{Data: v.DenseValues()},
	}}
}

func nearestQuery(v plan.Vector) *qpb.Query {
	return &qpb.Query{Variant: &qpb.Query_Nearest{Nearest: vectorInput(v)}}
}

// filterValue translates a predicate; nil means match everything.
func filterValue(p filter.Predicate) *qpb.Filter {
	if p.IsEmpty() {
		return nil
	}
	return &qpb.Filter{
		Must:    conditionsValue(p.Must()),
		MustNot: conditionsValue(p.MustNot()),
	}
}

func conditionsValue(conditions []filter.Condition) []*qpb.Condition {
	if len(conditions) == 0 {
		return nil
	}
	out := make([]*qpb.Condition, len(conditions))
	for i, c := range conditions {
		out[i] = conditionValue(c)
	}
	return out
}

func conditionValue(c filter.Condition) *qpb.Condition {
	switch c.Kind() {
	case filter.CondAnyOf:
		return fieldCondition(&qpb.FieldCondition{
			Key: c.Attr(),
			Match: &qpb.Match{MatchValue: &qpb.Match_Keywords{
				Keywords: &qpb.RepeatedStrings{Strings: c.Values()},
			}},
		})
	case filter.CondBool:
		return fieldCondition(&qpb.FieldCondition{
			Key:   c.Attr(),
			Match: &qpb.Match{MatchValue: &qpb.Match_Boolean{Boolean: c.Bool()}},
		})
	case filter.CondRange:
		rng := &qpb.Range{}
		if gte := c.Range().GTE(); gte != nil {
			rng.Gte = ptr(float64(*gte))
		}
		if lte := c.Range().LTE(); lte != nil {
			rng.Lte = ptr(float64(*lte))
		}
		return fieldCondition(&qpb.FieldCondition{Key: c.Attr(), Range: rng})
	case filter.CondHasID:
		pids := make([]*qpb.PointId, len(c.IDs()))
		for i, id := range c.IDs() {
			pids[i] = pointID(id)
		}
		return &qpb.Condition{ConditionOneOf: &qpb.Condition_HasId{
			HasId: &qpb.HasIdCondition{HasId: pids},
		}}
	}
	return nil
}

func fieldCondition(fc *qpb.FieldCondition) *qpb.Condition {
	return &qpb.Condition{ConditionOneOf: &qpb.Condition_Field{Field: fc}}
}

// payloadValue converts a payload document to the wire representation.
func payloadValue(payload map[string]any) map[string]*qpb.Value {
	if len(payload) == 0 {
		return nil
	}
	out := make(map[string]*qpb.Value, len(payload))
	for k, v := range payload {
		out[k] = value(v)
	}
	return out
}

func value(v any) *qpb.Value {
	switch vv := v.(type) {
	case nil:
		return &qpb.Value{Kind: &qpb.Value_NullValue{NullValue: qpb.NullValue_NULL_VALUE}}
	case bool:
		return &qpb.Value{Kind: &qpb.Value_BoolValue{BoolValue: vv}}
	case string:
		return &qpb.Value{Kind: &qpb.Value_StringValue{StringValue: vv}}
	case int:
		return &qpb.Value{Kind: &qpb.Value_IntegerValue{IntegerValue: int64(vv)}}
	case int32:
		return &qpb.Value{Kind: &qpb.Value_IntegerValue{IntegerValue: int64(vv)}}
	case int64:
		return &qpb.Value{Kind: &qpb.Value_IntegerValue{IntegerValue: vv}}
	case float32:
		return &qpb.Value{Kind: &qpb.Value_DoubleValue{DoubleValue: float64(vv)}}
	case float64:
		return &qpb.Value{Kind: &qpb.Value_DoubleValue{DoubleValue: vv}}
	case []string:
		items := make([]*qpb.Value, len(vv))
		for i, s := range vv {
			items[i] = value(s)
		}
		return &qpb.Value{Kind: &qpb.Value_ListValue{ListValue: &qpb.ListValue{Values: items}}}
	case []any:
		items := make([]*qpb.Value, len(vv))
		for i, item := range vv {
			items[i] = value(item)
		}
		return &qpb.Value{Kind: &qpb.Value_ListValue{ListValue: &qpb.ListValue{Values: items}}}
	case map[string]any:
		return &qpb.Value{Kind: &qpb.Value_StructValue{
			StructValue: &qpb.Struct{Fields: payloadValue(vv)},
		}}
	default:
		return &qpb.Value{Kind: &qpb.Value_StringValue{StringValue: fmt.Sprintf("%v", vv)}}
	}
}

// payloadFromValue converts a wire payload back to a plain document.
func payloadFromValue(payload map[string]*qpb.Value) map[string]any {
	if len(payload) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = fromValue(v)
	}
	return out
}

func fromValue(v *qpb.Value) any {
	switch kind := v.GetKind().(type) {
	case *qpb.Value_NullValue:
		return nil
	case *qpb.Value_BoolValue:
		return kind.BoolValue
	case *qpb.Value_StringValue:
		return kind.StringValue
	case *qpb.Value_IntegerValue:
		return kind.IntegerValue
	case *qpb.Value_DoubleValue:
		return kind.DoubleValue
	case *qpb.Value_ListValue:
		values := kind.ListValue.GetValues()
		items := make([]any, len(values))
		for i, item := range values {
			items[i] = fromValue(item)
		}
		return items
	case *qpb.Value_StructValue:
		fields := kind.StructValue.GetFields()
		m := make(map[string]any, len(fields))
		for k, f := range fields {
			m[k] = fromValue(f)
		}
		return m
	}
	return nil
}
