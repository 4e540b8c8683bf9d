package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "local 10-digit", input: "0712345678", want: "+254712345678"},
		{name: "international without plus", input: "254712345678", want: "+254712345678"},
		{name: "already normalized", input: "+254712345678", want: "+254712345678"},
		{name: "bare national number", input: "712345678", want: "+254712345678"},
		{name: "spaces and dashes stripped", input: "0712-345 678", want: "+254712345678"},
		{name: "parentheses stripped", input: "(0712) 345678", want: "+254712345678"},
		{name: "too short", input: "07123", wantErr: true},
		{name: "too long", input: "07123456789012", wantErr: true},
		{name: "wrong country code", input: "+255712345678", wantErr: true},
		{name: "nine digits not starting with 7", input: "812345678", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "letters only", input: "not-a-number", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"0712345678", "254712345678", "712345678"}
	for _, input := range inputs {
		once, err := Normalize(input)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", input, err)
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Fatalf("Normalize(%q) returned error: %v", once, err)
		}
		if once != twice {
			t.Errorf("Normalize not idempotent: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("0712345678") {
		t.Error("IsValid(0712345678) = false, want true")
	}
	if IsValid("12345") {
		t.Error("IsValid(12345) = true, want false")
	}
}
