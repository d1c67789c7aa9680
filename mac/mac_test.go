package mac

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"lower colon":          {in: "aa:bb:cc:dd:ee:ff", want: "aa:bb:cc:dd:ee:ff"},
		"upper colon":          {in: "AA:BB:CC:DD:EE:FF", want: "aa:bb:cc:dd:ee:ff"},
		"mixed case colon":     {in: "Aa:bB:cC:Dd:Ee:fF", want: "aa:bb:cc:dd:ee:ff"},
		"dash":                 {in: "11-22-33-44-55-66", want: "11:22:33:44:55:66"},
		"upper dash":           {in: "AA-BB-CC-DD-EE-FF", want: "aa:bb:cc:dd:ee:ff"},
		"bare hex":             {in: "aabbccddeeff", want: "aa:bb:cc:dd:ee:ff"},
		"bare hex upper":       {in: "AABBCCDDEEFF", want: "aa:bb:cc:dd:ee:ff"},
		"surrounding space":    {in: "  aa:bb:cc:dd:ee:ff  ", want: "aa:bb:cc:dd:ee:ff"},
		"empty":                {in: "", wantErr: true},
		"not a mac":            {in: "not-a-mac", wantErr: true},
		"too few octets":       {in: "aa:bb:cc:dd:ee", wantErr: true},
		"too many octets":      {in: "aa:bb:cc:dd:ee:ff:00", wantErr: true},
		"eui-64":               {in: "aa:bb:cc:dd:ee:ff:00:11", wantErr: true},
		"non-hex":              {in: "gg:bb:cc:dd:ee:ff", wantErr: true},
		"bare too short":       {in: "aabbccddee", wantErr: true},
		"bare too long":        {in: "aabbccddeeff00", wantErr: true},
		"cisco dotted":         {in: "aabb.ccdd.eeff", wantErr: true},
		"mixed separators":     {in: "aa:bb-cc:dd-ee:ff", wantErr: true},
		"separator only":       {in: "::::::", wantErr: true},
		"embedded whitespace":  {in: "aa:bb cc:dd:ee:ff", wantErr: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected err: nil, got: %v", err)
			}
			if diff := cmp.Diff(got.String(), tc.want); diff != "" {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
