package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

func TestParseHostPort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"host only", "db.example.com", "db.example.com", 3306, false},
		{"host with port", "db.example.com:3307", "db.example.com", 3307, false},
		{"localhost", "localhost:5432", "localhost", 5432, false},
		{"surrounding spaces", "  db1 : 3307 ", "db1", 3307, false},
		{"non-numeric port", "db1:abc", "", 0, true},
		{"empty port", "db1:", "", 0, true},
		{"port zero", "db1:0", "", 0, true},
		{"port out of range", "db1:70000", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, err := ParseHostPort(tt.input, 3306)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}

func TestParseHostPortDefault(t *testing.T) {
	host, port, err := ParseHostPort("pg.internal", 5432)
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", host)
	assert.Equal(t, 5432, port)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connected", Connected.String())
}

func TestParamsAddr(t *testing.T) {
	p := Params{Host: "db1", Port: 3306}
	assert.Equal(t, "db1:3306", p.Addr())
}

func TestConvertValue(t *testing.T) {
	ts := time.Date(2024, 3, 5, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name   string
		in     any
		dbType string
		want   result.Value
	}{
		{"nil", nil, "VARCHAR", result.Null()},
		{"int64", int64(7), "BIGINT", result.Int(7)},
		{"int32", int32(7), "INT", result.Int(7)},
		{"float64", 1.5, "DOUBLE", result.Float(1.5)},
		{"bool", true, "BOOL", result.Bool(true)},
		{"datetime", ts, "DATETIME", result.DateTime(ts)},
		{"timestamp", ts, "TIMESTAMP", result.DateTime(ts)},
		{"date column", ts, "DATE", result.Date(ts)},
		{"string", "abc", "VARCHAR", result.Text("abc")},
		{"bytes as text", []byte("abc"), "TEXT", result.Text("abc")},
		{"blob", []byte{0x01}, "BLOB", result.Bytes([]byte{0x01})},
		{"decimal keeps text", []byte("123.450"), "DECIMAL", result.Other("123.450")},
		{"unmodelled type", complex(1, 2), "POINT", result.Other("(1+2i)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, convertValue(tt.in, tt.dbType))
		})
	}
}
