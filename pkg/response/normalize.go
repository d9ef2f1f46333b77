package response

import (
	"reflect"
	"strings"
)

// Normalize wraps a resolver result in an Envelope. A declared meta.Kind
// decides the shape; with KindAuto the shape is inferred from the value.
// Values that already carry a boolean success field pass through unchanged.
func Normalize(value interface{}, meta Meta, op Operation) interface{} {
	if isNil(value) {
		return &Envelope{Success: false, Message: NoDataMessage}
	}
	if isEnvelope(value) || meta.Kind == KindRaw {
		return value
	}

	message := meta.Message
	if message == "" {
		message = DefaultMessage(op)
	}

	kind := meta.Kind
	if kind == KindAuto {
		kind = infer(value, op)
	}

	switch kind {
	case KindPaginated:
		data, pageMeta := pagination(value)
		return &Envelope{Success: true, Message: message, Data: data, Meta: pageMeta}
	case KindBulk:
		count, ids := bulk(value)
		return &Envelope{Success: true, Message: message, Count: &count, AffectedIDs: ids}
	case KindDelete:
		return &Envelope{Success: true, Message: message, DeletedID: deletedID(value)}
	case KindArray:
		data := asSlice(value)
		count := reflect.ValueOf(data).Len()
		return &Envelope{Success: true, Message: message, Data: data, Count: &count}
	default:
		return &Envelope{Success: true, Message: message, Data: value}
	}
}

func infer(value interface{}, op Operation) Kind {
	if looksPaginated(value) {
		return KindPaginated
	}
	if _, ok := number(field(value, "count")); ok {
		if _, hasData := field(value, "data"); !hasData {
			return KindBulk
		}
	}
	if strings.Contains(strings.ToLower(op.Name), "delete") {
		return KindDelete
	}
	if _, ok := field(value, "isDeleted"); ok {
		return KindDelete
	}
	if isSlice(value) {
		return KindArray
	}
	return KindSingle
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func isEnvelope(v interface{}) bool {
	switch v.(type) {
	case *Envelope, Envelope:
		return true
	}
	success, ok := field(v, "success")
	if !ok {
		return false
	}
	_, isBool := success.(bool)
	return isBool
}

func isSlice(v interface{}) bool {
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func asSlice(v interface{}) interface{} {
	if isSlice(v) {
		return v
	}
	return []interface{}{v}
}

func looksPaginated(v interface{}) bool {
	if _, ok := v.(Pager); ok {
		return true
	}
	data, ok := field(v, "data")
	if !ok || isNil(data) || !isSlice(data) {
		return false
	}
	meta, ok := field(v, "meta")
	if !ok || isNil(meta) {
		return false
	}
	_, hasTotal := field(meta, "total")
	_, hasPage := field(meta, "page")
	return hasTotal && hasPage
}

func pagination(v interface{}) (interface{}, interface{}) {
	if p, ok := v.(Pager); ok {
		return p.Items(), p.Pagination()
	}
	data, _ := field(v, "data")
	meta, _ := field(v, "meta")
	return data, meta
}

func bulk(v interface{}) (int, []string) {
	ids := make([]string, 0)
	if raw, ok := field(v, "affectedIds"); ok && !isNil(raw) && isSlice(raw) {
		rv := reflect.ValueOf(raw)
		for i := 0; i < rv.Len(); i++ {
			if s, ok := rv.Index(i).Interface().(string); ok {
				ids = append(ids, s)
			}
		}
	}
	if n, ok := number(field(v, "count")); ok {
		return n, ids
	}
	if isSlice(v) {
		return reflect.ValueOf(v).Len(), ids
	}
	return len(ids), ids
}

func deletedID(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	for _, key := range []string{"id", "_id", "deletedId"} {
		if id, ok := field(v, key); ok {
			if s, ok := id.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func number(v interface{}, ok bool) (int, bool) {
	if !ok {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int(rv.Float()), true
	}
	return 0, false
}

// field looks up key in a string-keyed map or in a struct by json tag name.
func field(v interface{}, key string) (interface{}, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		return structField(rv, key)
	}
	return nil, false
}

func structField(rv reflect.Value, key string) (interface{}, bool) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			if v, ok := structField(rv.Field(i), key); ok {
				return v, true
			}
			continue
		}
		if name == "" {
			name = f.Name
		}
		if name == key {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}
