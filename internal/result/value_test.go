package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplay(t *testing.T) {
	ts := time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"null", Null(), ""},
		{"text", Text("O'Brien"), "O'Brien"},
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Float(3.14), "3.14"},
		{"float whole", Float(10), "10"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"date", Date(ts), "2024-03-05"},
		{"datetime", DateTime(ts), "2024-03-05 13:45:00"},
		{"bytes", Bytes([]byte("blob")), "blob"},
		{"other", Other("123.450"), "123.450"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.val.Display())
		})
	}
}

func TestNative(t *testing.T) {
	assert.Nil(t, Null().Native())
	assert.Equal(t, int64(42), Int(42).Native())
	assert.Equal(t, 2.5, Float(2.5).Native())
	assert.Equal(t, true, Bool(true).Native())
	assert.Equal(t, "hello", Text("hello").Native())

	ts := time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05 13:45:00", DateTime(ts).Native())
}

func TestKindAndIsNull(t *testing.T) {
	assert.Equal(t, KindNull, Null().Kind())
	assert.True(t, Null().IsNull())
	assert.False(t, Text("").IsNull())
	assert.Equal(t, KindDate, Date(time.Now()).Kind())
}

func TestSet(t *testing.T) {
	s := &Set{
		Columns: []string{"id", "name"},
		Rows: [][]Value{
			{Int(1), Text("alpha")},
			{Int(2), Text("beta")},
		},
	}

	assert.Equal(t, 2, s.RowCount())
	assert.False(t, s.Empty())
	assert.Equal(t, "beta", s.LastRow()[1].Display())

	empty := &Set{Columns: []string{"id"}}
	assert.True(t, empty.Empty())
	assert.Nil(t, empty.LastRow())
}
