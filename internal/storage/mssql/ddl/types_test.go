package ddl

import "testing"

// TestMapType verifies that MapType maps logical kinds to the expected
// SQL Server column types.
func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{kind: "bigint", want: "BIGINT"},
		{kind: " InTeGeR ", want: "BIGINT"},
		{kind: "boolean", want: "BIT"},
		{kind: "date", want: "DATE"},
		{kind: "timestamp", want: "DATETIME2"},
		{kind: "key", want: "NVARCHAR(64)"},
		{kind: "text", want: "NVARCHAR(MAX)"},
		{kind: "", want: "NVARCHAR(MAX)"},
	}
	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
