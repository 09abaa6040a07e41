package fqb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Response is a read-only accessor over a decoded Graph API body.
type Response struct {
	raw   []byte
	value interface{}
	data  map[string]interface{}
}

// Paging holds the pagination block of an edge listing.
type Paging struct {
	Before   string
	After    string
	Next     string
	Previous string
}

// NewResponse decodes a JSON body. Numbers are kept as json.Number.
func NewResponse(body []byte) (*Response, error) {
	response := &Response{raw: body}

	if len(bytes.TrimSpace(body)) == 0 {
		return response, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	err := decoder.Decode(&response.value)
	if err != nil {
		return nil, fmt.Errorf("parsing graph response: %w", err)
	}

	if object, ok := response.value.(map[string]interface{}); ok {
		response.data = object
	}

	return response, nil
}

func newResponseFromMap(object map[string]interface{}) *Response {
	return &Response{value: object, data: object}
}

// object returns the top-level object. Accessors treat a nil Response as
// an empty one.
func (r *Response) object() map[string]interface{} {
	if r == nil {
		return nil
	}

	return r.data
}

// Raw returns the undecoded body.
func (r *Response) Raw() []byte {
	if r == nil {
		return nil
	}

	return r.raw
}

// Value returns the decoded body, which may be a scalar such as true.
func (r *Response) Value() interface{} {
	if r == nil {
		return nil
	}

	return r.value
}

// Map returns a shallow copy of the top-level object, or nil.
func (r *Response) Map() map[string]interface{} {
	if r.object() == nil {
		return nil
	}

	copied := make(map[string]interface{}, len(r.object()))
	for key, value := range r.object() {
		copied[key] = value
	}

	return copied
}

// Keys returns the top-level keys in sorted order.
func (r *Response) Keys() []string {
	keys := make([]string, 0, len(r.object()))
	for key := range r.object() {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Get returns the value stored under key.
func (r *Response) Get(key string) (interface{}, bool) {
	value, ok := r.object()[key]

	return value, ok
}

// GetString returns key as a string. Numbers and booleans are formatted.
func (r *Response) GetString(key string) string {
	value, ok := r.object()[key]
	if !ok || value == nil {
		return ""
	}

	switch typed := value.(type) {
	case string:
		return typed
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return string(encoded)
	}
}

// GetInt returns key as an int.
func (r *Response) GetInt(key string) (int, bool) {
	switch typed := r.object()[key].(type) {
	case json.Number:
		value, err := strconv.Atoi(typed.String())
		if err != nil {
			return 0, false
		}

		return value, true
	case string:
		value, err := strconv.Atoi(typed)
		if err != nil {
			return 0, false
		}

		return value, true
	default:
		return 0, false
	}
}

// GetBool returns key as a bool.
func (r *Response) GetBool(key string) (bool, bool) {
	value, ok := r.object()[key].(bool)

	return value, ok
}

// GetResponse returns the nested object stored under key.
func (r *Response) GetResponse(key string) *Response {
	object, ok := r.object()[key].(map[string]interface{})
	if !ok {
		return nil
	}

	return newResponseFromMap(object)
}

// Data returns the objects of the "data" array of an edge listing.
func (r *Response) Data() []*Response {
	items, ok := r.object()["data"].([]interface{})
	if !ok {
		return nil
	}

	list := make([]*Response, 0, len(items))
	for _, item := range items {
		if object, ok := item.(map[string]interface{}); ok {
			list = append(list, newResponseFromMap(object))
		}
	}

	return list
}

// Paging returns the pagination block, or nil if the body has none.
func (r *Response) Paging() *Paging {
	paging := r.GetResponse("paging")
	if paging == nil {
		return nil
	}

	result := &Paging{
		Next:     paging.GetString("next"),
		Previous: paging.GetString("previous"),
	}

	if cursors := paging.GetResponse("cursors"); cursors != nil {
		result.Before = cursors.GetString("before")
		result.After = cursors.GetString("after")
	}

	return result
}
