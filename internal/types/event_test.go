package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type EventTestSuite struct {
	suite.Suite
}

func TestEventSuite(t *testing.T) {
	suite.Run(t, new(EventTestSuite))
}

func (suite *EventTestSuite) TestFieldValueKinds() {
	num := NumberField(1.5)
	suite.Equal(FieldKindNumber, num.Kind())
	n, ok := num.Number()
	suite.True(ok)
	suite.Equal(1.5, n)
	_, ok = num.Bool()
	suite.False(ok)
	_, ok = num.Text()
	suite.False(ok)

	b := BoolField(true)
	suite.Equal(FieldKindBool, b.Kind())
	bv, ok := b.Bool()
	suite.True(ok)
	suite.True(bv)

	txt := TextField("rate limit exceeded")
	suite.Equal(FieldKindText, txt.Kind())
	tv, ok := txt.Text()
	suite.True(ok)
	suite.Equal("rate limit exceeded", tv)
}

func (suite *EventTestSuite) TestFieldValueString() {
	testCases := []struct {
		name     string
		value    FieldValue
		expected string
	}{
		{name: "integer number", value: NumberField(5), expected: "5"},
		{name: "decimal number", value: NumberField(1.5), expected: "1.5"},
		{name: "boolean", value: BoolField(false), expected: "false"},
		{name: "text", value: TextField("hello"), expected: "hello"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, tc.value.String())
		})
	}
}

func (suite *EventTestSuite) TestFieldValueMarshalJSON() {
	data := map[string]FieldValue{
		"qty":      NumberField(1.5),
		"accepted": BoolField(true),
		"reason":   TextField("rate limit exceeded"),
	}

	encoded, err := json.Marshal(data)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(encoded, &decoded))
	suite.Equal(1.5, decoded["qty"])
	suite.Equal(true, decoded["accepted"])
	suite.Equal("rate limit exceeded", decoded["reason"])
}

func (suite *EventTestSuite) TestFieldLookupHelpers() {
	event := LogEvent{
		Timestamp: time.Date(2026, 1, 27, 0, 0, 0, 0, time.Local),
		Level:     LogLevelInfo,
		Module:    "executor",
		Data: map[string]FieldValue{
			"order_id": NumberField(12345),
			"filled":   NumberField(0.5),
			"reason":   TextField("spread gone"),
		},
	}

	// Preference order: first present numeric key wins.
	n, ok := event.FieldNumber("last_filled", "filled", "qty")
	suite.True(ok)
	suite.Equal(0.5, n)

	_, ok = event.FieldNumber("reason")
	suite.False(ok, "text value must not satisfy a numeric lookup")

	// Identifier lookups render numbers as strings.
	id, ok := event.FieldString("order_id")
	suite.True(ok)
	suite.Equal("12345", id)

	_, ok = event.FieldString("missing")
	suite.False(ok)
}

func (suite *EventTestSuite) TestCategoryPredicates() {
	lifecycle := LogEvent{Category: CategoryLifecycle}
	suite.True(lifecycle.IsLifecycle())
	suite.False(lifecycle.IsAudit())

	audit := LogEvent{Category: CategoryAudit, Subcategory: SubcategoryOrderFill}
	suite.True(audit.IsAudit())
	suite.False(audit.IsLifecycle())

	plain := LogEvent{}
	suite.False(plain.IsLifecycle())
	suite.False(plain.IsAudit())
}
