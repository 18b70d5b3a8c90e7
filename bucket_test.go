package leadergeo

import "testing"

func TestBucketFromCountryISO(t *testing.T) {
	tests := []struct {
		code string
		want GeoBucket
	}{
		{"DE", BucketEu},
		{"US", BucketNa},
		{"JP", BucketApac},
		{"AE", BucketMe},
		{"BR", BucketUnknown},
		{"de", BucketEu},
		{"  gb  ", BucketEu},
		{"mx", BucketNa},
		{"", BucketUnknown},
		{"USA", BucketUnknown}, // alpha-3 is not accepted
	}
	for _, tt := range tests {
		if got := BucketFromCountryISO(tt.code); got != tt.want {
			t.Errorf("BucketFromCountryISO(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestBucketFromLabel(t *testing.T) {
	tests := []struct {
		text   string
		want   GeoBucket
		wantOK bool
	}{
		{"eu", BucketEu, true},
		{"@na", BucketNa, true},
		{"APAC", BucketApac, true},
		{"me", BucketMe, true},
		{"unknown", BucketUnknown, true},
		{" @Eu ", BucketEu, true},
		{"ZZ", BucketUnknown, false},
		{"DE", BucketUnknown, false}, // country codes are not labels
		{"", BucketUnknown, false},
		{"@@eu", BucketUnknown, false}, // only one leading @ is stripped
	}
	for _, tt := range tests {
		got, ok := BucketFromLabel(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("BucketFromLabel(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBucketFromGeoInput(t *testing.T) {
	tests := []struct {
		text string
		want GeoBucket
	}{
		{"eu", BucketEu},       // label wins
		{"SG", BucketApac},     // country fallback
		{"@me", BucketMe},      // label with marker
		{"unknown", BucketUnknown},
		{"xx", BucketUnknown},
	}
	for _, tt := range tests {
		if got := BucketFromGeoInput(tt.text); got != tt.want {
			t.Errorf("BucketFromGeoInput(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBucketByteConversions(t *testing.T) {
	for b := byte(0); b <= 4; b++ {
		got, ok := BucketFromByte(b)
		if !ok || got != GeoBucket(b) {
			t.Errorf("BucketFromByte(%d) = (%v, %v), want (%v, true)", b, got, ok, GeoBucket(b))
		}
		if _, ok := BucketLabelFromByte(b); !ok {
			t.Errorf("BucketLabelFromByte(%d) not ok", b)
		}
	}
	for _, b := range []byte{5, 42, 255} {
		if _, ok := BucketFromByte(b); ok {
			t.Errorf("BucketFromByte(%d) accepted an illegal byte", b)
		}
		if _, ok := BucketLabelFromByte(b); ok {
			t.Errorf("BucketLabelFromByte(%d) accepted an illegal byte", b)
		}
	}
}

func TestBucketLabelRoundTrip(t *testing.T) {
	for _, b := range []GeoBucket{BucketUnknown, BucketEu, BucketNa, BucketApac, BucketMe} {
		got, ok := BucketFromLabel(b.Label())
		if !ok || got != b {
			t.Errorf("BucketFromLabel(%q) = (%v, %v), want (%v, true)", b.Label(), got, ok, b)
		}
	}
}
