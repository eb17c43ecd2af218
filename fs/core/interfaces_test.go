package core

import "testing"

func TestFSType_String(t *testing.T) {
	tests := []struct {
		fsType FSType
		want   string
	}{
		{FSTypeUnknown, "unknown"},
		{FSTypeLocal, "local"},
		{FSTypeMemory, "memory"},
		{FSType(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.fsType.String(); got != tt.want {
			t.Errorf("FSType(%d).String() = %q, want %q", int(tt.fsType), got, tt.want)
		}
	}
}
