package cybersource

import (
	"fmt"
	"strconv"
)

// Response is an immutable view over a validated inbound field set, plus
// the extracted reason code and decision. Additions via Add/Update never
// overwrite gateway-supplied data.
type Response struct {
	code   int
	status Status
	data   map[string]string
}

// NewResponse wraps an inbound field set. The reason code defaults to 0
// when absent or unparseable.
func NewResponse(data map[string]string) *Response {
	copied := make(map[string]string, len(data))
	for k, v := range data {
		copied[k] = v
	}
	code := 0
	if raw, ok := copied[FieldReasonCode]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			code = n
		}
	}
	return &Response{
		code:   code,
		status: Status(copied[FieldDecision]),
		data:   copied,
	}
}

func (r *Response) Code() int { return r.code }

func (r *Response) Status() Status { return r.status }

// Get returns the field value, or def when absent. Never fails.
func (r *Response) Get(name, def string) string {
	if v, ok := r.data[name]; ok {
		return v
	}
	return def
}

// Field is the strict accessor: absent fields are an error.
func (r *Response) Field(name string) (string, error) {
	v, ok := r.data[name]
	if !ok {
		return "", &FieldNotFoundError{Field: name}
	}
	return v, nil
}

// Add sets a field only if absent and reports whether it was written.
func (r *Response) Add(name, value string) bool {
	if _, ok := r.data[name]; ok {
		return false
	}
	r.data[name] = value
	return true
}

// Update applies each addition only where the field is absent
// (first-write-wins) and reports per key whether it was written.
func (r *Response) Update(additions map[string]string) map[string]bool {
	result := make(map[string]bool, len(additions))
	for k, v := range additions {
		result[k] = r.Add(k, v)
	}
	return result
}

// Message returns the gateway message, falling back to the status default.
func (r *Response) Message() string {
	if msg := r.data[FieldMessage]; msg != "" {
		return msg
	}
	return r.status.Message()
}

// Data returns a copy of the wrapped field set.
func (r *Response) Data() map[string]string {
	out := make(map[string]string, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out
}

func (r *Response) String() string {
	return fmt.Sprintf("%s (%d) %s", r.status, r.code, r.Message())
}
