package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// LogLevel is the severity level of a parsed log line.
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
)

// EventCategory is the first bracket tag of a log line, when recognized.
type EventCategory string

const (
	// CategoryNone marks lines without a recognized category tag.
	CategoryNone EventCategory = ""

	// CategoryLifecycle marks strategy lifecycle events (start/stop markers).
	CategoryLifecycle EventCategory = "LIFECYCLE"

	// CategoryAudit marks audit-trail events (orders, fills, pair links).
	CategoryAudit EventCategory = "AUDIT"
)

// Audit subcategories emitted by the strategy executor.
const (
	SubcategorySpreadMet     = "SPREAD_MET"
	SubcategoryOrderSubmit   = "ORDER_SUBMIT"
	SubcategoryOrderResponse = "ORDER_RESPONSE"
	SubcategoryOrderFill     = "ORDER_FILL"
	SubcategoryOrderState    = "ORDER_STATE"
	SubcategoryOrderTimeout  = "ORDER_TIMEOUT"
	SubcategoryParallelOrder = "PARALLEL_ORDER"
	SubcategoryPairLink      = "PAIR_LINK"
	SubcategoryFastChase     = "FAST_CHASE"
)

// FieldKind identifies the coerced type of a payload value.
type FieldKind string

const (
	FieldKindNumber FieldKind = "number"
	FieldKindBool   FieldKind = "bool"
	FieldKindText   FieldKind = "text"
)

// FieldValue is a closed union over the three value types a key=value payload
// can carry. The kind tag makes downstream field access exhaustive-checkable
// instead of relying on a dynamically shaped map.
type FieldValue struct {
	kind    FieldKind
	number  float64
	boolean bool
	text    string
}

// NumberField creates a numeric FieldValue.
func NumberField(v float64) FieldValue {
	return FieldValue{kind: FieldKindNumber, number: v}
}

// BoolField creates a boolean FieldValue.
func BoolField(v bool) FieldValue {
	return FieldValue{kind: FieldKindBool, boolean: v}
}

// TextField creates a text FieldValue.
func TextField(v string) FieldValue {
	return FieldValue{kind: FieldKindText, text: v}
}

// Kind returns the kind tag of the value.
func (v FieldValue) Kind() FieldKind {
	return v.kind
}

// Number returns the numeric value and whether the value is a number.
func (v FieldValue) Number() (float64, bool) {
	return v.number, v.kind == FieldKindNumber
}

// Bool returns the boolean value and whether the value is a bool.
func (v FieldValue) Bool() (bool, bool) {
	return v.boolean, v.kind == FieldKindBool
}

// Text returns the text value and whether the value is text.
func (v FieldValue) Text() (string, bool) {
	return v.text, v.kind == FieldKindText
}

// String renders the value for display regardless of kind.
func (v FieldValue) String() string {
	switch v.kind {
	case FieldKindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case FieldKindBool:
		return strconv.FormatBool(v.boolean)
	default:
		return v.text
	}
}

// MarshalJSON emits the native JSON type for the value.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case FieldKindNumber:
		return json.Marshal(v.number)
	case FieldKindBool:
		return json.Marshal(v.boolean)
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON restores the kind tag from the native JSON type.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case float64:
		*v = NumberField(value)
	case bool:
		*v = BoolField(value)
	case string:
		*v = TextField(value)
	default:
		*v = TextField(string(data))
	}

	return nil
}

// LogEvent is one parsed log line. Events are immutable once constructed;
// sessions reference them but never modify them.
type LogEvent struct {
	// Timestamp is the line's local-time timestamp with millisecond precision.
	Timestamp time.Time `json:"timestamp"`
	// Level is the severity level of the line.
	Level LogLevel `json:"level"`
	// Module is the emitting module name.
	Module string `json:"module"`
	// Category is the recognized first bracket tag, if any.
	Category EventCategory `json:"category,omitempty"`
	// Subcategory is the audit/lifecycle tag (e.g. ORDER_FILL), if any.
	Subcategory string `json:"subcategory,omitempty"`
	// Asset is the ticker symbol the event belongs to. Empty means absent.
	Asset string `json:"asset,omitempty"`
	// Message is the tag-stripped free text of the line.
	Message string `json:"message"`
	// Data is the coerced key=value payload.
	Data map[string]FieldValue `json:"data,omitempty"`
}

// Field returns the payload value for key.
func (e LogEvent) Field(key string) (FieldValue, bool) {
	v, ok := e.Data[key]

	return v, ok
}

// FieldNumber returns the first numeric payload value among keys, in order.
func (e LogEvent) FieldNumber(keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := e.Data[key]; ok {
			if n, isNum := v.Number(); isNum {
				return n, true
			}
		}
	}

	return 0, false
}

// FieldString returns the display rendering of the first present payload
// value among keys, in order. Identifiers like order IDs are looked up this
// way since coercion may have turned them into numbers.
func (e LogEvent) FieldString(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := e.Data[key]; ok {
			return v.String(), true
		}
	}

	return "", false
}

// IsLifecycle reports whether the event carries the LIFECYCLE category.
func (e LogEvent) IsLifecycle() bool {
	return e.Category == CategoryLifecycle
}

// IsAudit reports whether the event carries the AUDIT category.
func (e LogEvent) IsAudit() bool {
	return e.Category == CategoryAudit
}
