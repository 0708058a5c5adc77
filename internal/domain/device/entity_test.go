package device

import "testing"

func TestAuthenticable(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusActive, true},
		{StatusLocked, true},
		{StatusMaintenance, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := &Device{Status: tt.status}
			if got := d.Authenticable(); got != tt.want {
				t.Errorf("Authenticable() with status %q = %t, want %t", tt.status, got, tt.want)
			}
		})
	}
}
