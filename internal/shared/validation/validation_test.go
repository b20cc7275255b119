package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		fails bool
	}{
		{"required blank", Required("x"), "", true},
		{"required spaces", Required("x"), "   ", true},
		{"required present", Required("x"), "a", false},
		{"oneof member", OneOf([]string{"YES", "NO"}, "x"), "YES", false},
		{"oneof stranger", OneOf([]string{"YES", "NO"}, "x"), "MAYBE", true},
		{"oneof blank passes", OneOf([]string{"YES", "NO"}, "x"), "", false},
		{"max ok", MaxLength(5, "x"), "hello", false},
		{"max over", MaxLength(5, "x"), "hello!", true},
		{"numeric ok", Numeric("x"), "42", false},
		{"numeric letters", Numeric("x"), "4a", true},
		{"numeric decimal", Numeric("x"), "4.2", true},
		{"between ok", IntBetween(1, 312, "x"), "312", false},
		{"between low", IntBetween(1, 312, "x"), "0", true},
		{"time ok", TimeOfDay("x"), "09:30", false},
		{"time bad", TimeOfDay("x"), "25:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.rule(tt.value)
			if tt.fails {
				assert.Equal(t, "x", msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestCheckRecordsFirstFailureOnly(t *testing.T) {
	var errs Errors
	errs.Check("requester", "", Required("Select who requested"), OneOf([]string{"A"}, "Select a valid option"))

	assert.Len(t, errs, 1)
	assert.Equal(t, "Select who requested", errs.For("requester"))
	assert.False(t, errs.Empty())
}

func TestWhenShortCircuits(t *testing.T) {
	calls := 0
	counting := func(string) string {
		calls++
		return "boom"
	}

	var errs Errors
	errs.Check("otherRequester", "", When(func() bool { return false }, counting))
	assert.True(t, errs.Empty())
	assert.Equal(t, 0, calls)

	errs.Check("otherRequester", "", When(func() bool { return true }, counting))
	assert.Equal(t, 1, calls)
	assert.True(t, errs.Has("otherRequester"))
}

func TestSimpleDate(t *testing.T) {
	d, ok := SimpleDate{Day: "29", Month: "2", Year: "2024"}.Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, ok = SimpleDate{Day: "29", Month: "2", Year: "2023"}.Time()
	assert.False(t, ok)

	_, ok = SimpleDate{Day: "1", Month: "", Year: "2023"}.Time()
	assert.False(t, ok)

	assert.True(t, SimpleDate{}.IsBlank())
	assert.Equal(t, "2024-03-05", SimpleDate{Day: "5", Month: "3", Year: "2024"}.ISO())
	assert.Equal(t, SimpleDate{Day: "5", Month: "3", Year: "2024"}, SimpleDateFrom(time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)))
}

func TestDateRules(t *testing.T) {
	today := func() time.Time { return time.Date(2024, 6, 10, 15, 4, 0, 0, time.UTC) }

	var errs Errors
	errs.CheckDate("startDate", SimpleDate{Day: "9", Month: "6", Year: "2024"},
		DateRequired("Enter a date"), ValidDate("Enter a valid date"), NotInPast(today, "Enter a date in the future"))
	assert.Equal(t, "Enter a date in the future", errs.For("startDate"))

	errs = nil
	errs.CheckDate("startDate", SimpleDate{Day: "10", Month: "6", Year: "2024"},
		DateRequired("Enter a date"), ValidDate("Enter a valid date"), NotInPast(today, "Enter a date in the future"))
	assert.True(t, errs.Empty())

	errs = nil
	errs.CheckDate("requestDate", SimpleDate{Day: "11", Month: "6", Year: "2024"}, NotInFuture(today, "future"))
	assert.Equal(t, "future", errs.For("requestDate"))

	errs = nil
	errs.CheckDate("requestDate", SimpleDate{}, DateRequired("Enter a date"), ValidDate("bad"))
	assert.Equal(t, "Enter a date", errs.For("requestDate"))
}
